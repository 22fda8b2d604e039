// Package forms declares the HTML forms of the iris app and validates them
// with go-playground/validator behind echo's Validator interface.
package forms

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// PredictionForm carries the four flower measurements.
type PredictionForm struct {
	SepalLength string `form:"sepal_length" validate:"required,decimal"`
	SepalWidth  string `form:"sepal_width" validate:"required,decimal"`
	PetalLength string `form:"petal_length" validate:"required,decimal"`
	PetalWidth  string `form:"petal_width" validate:"required,decimal"`
}

// Values parses the validated measurements.
func (f PredictionForm) Values() ([4]float64, error) {
	var out [4]float64
	for i, raw := range []string{f.SepalLength, f.SepalWidth, f.PetalLength, f.PetalWidth} {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return out, errors.Wrapf(err, "invalid measurement %q", raw)
		}
		out[i] = v
	}
	return out, nil
}

// RegisterForm creates an account.
type RegisterForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// LoginForm signs a user in. Remember holds the raw checkbox value.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Remember string `form:"remember"`
}

// RememberMe reports whether the checkbox was ticked.
func (f LoginForm) RememberMe() bool {
	switch strings.ToLower(f.Remember) {
	case "y", "yes", "on", "true", "1":
		return true
	}
	return false
}

// Validator implements echo.Validator.
type Validator struct {
	v *validator.Validate
}

// NewValidator reports field errors under their form names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// RegisterValidation only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("decimal", isDecimal)
	return &Validator{v: v}
}

// isDecimal accepts plain decimal notation: "5", "5.", ".5", "-0.2" and
// "1e-1".  Hex floats, digit separators and non-finite values are refused.
func isDecimal(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" || strings.ContainsAny(s, "xX_") {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Validate checks i against its `validate` tags.
func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

var messages = map[string]string{
	"required": "This field is required.",
	"decimal":  "Not a valid decimal value.",
	"email":    "Invalid email address.",
}

// Errors maps a validation failure to one message per form field. It
// returns nil for anything that is not a validator.ValidationErrors.
func Errors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "Invalid value."
		}
		out[fe.Field()] = msg
	}
	return out
}
