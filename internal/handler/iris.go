package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paralympics-iris/internal/forms"
	"github.com/iliyamo/paralympics-iris/internal/model"
	"github.com/iliyamo/paralympics-iris/internal/predict"
)

// IrisLister reads the stored measurements.
type IrisLister interface {
	List(ctx context.Context) ([]model.Iris, error)
}

// IrisHandler serves the prediction form, the /predict endpoint and the
// list of stored measurements.
type IrisHandler struct {
	Model    *predict.Model
	Iris     IrisLister
	Sessions Flasher
}

func NewIrisHandler(m *predict.Model, iris IrisLister, sessions Flasher) *IrisHandler {
	return &IrisHandler{Model: m, Iris: iris, Sessions: sessions}
}

type formField struct {
	Name, Label, Value, Error string
}

func predictionFields(f forms.PredictionForm, errs map[string]string) []formField {
	return []formField{
		{"sepal_length", "Sepal length", f.SepalLength, errs["sepal_length"]},
		{"sepal_width", "Sepal width", f.SepalWidth, errs["sepal_width"]},
		{"petal_length", "Petal length", f.PetalLength, errs["petal_length"]},
		{"petal_width", "Petal width", f.PetalWidth, errs["petal_width"]},
	}
}

// Index renders the prediction form on GET and predicts on a valid POST.
func (h *IrisHandler) Index(c echo.Context) error {
	var form forms.PredictionForm
	data := echo.Map{}

	if c.Request().Method == http.MethodPost {
		if err := c.Bind(&form); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
		}
		if err := c.Validate(form); err != nil {
			data["Fields"] = predictionFields(form, forms.Errors(err))
			return c.Render(http.StatusOK, "index.html", page(c, h.Sessions, data))
		}
		x, err := form.Values()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
		}
		species := h.Model.Predict(x[0], x[1], x[2], x[3])
		data["PredictionText"] = "Predicted Iris type: " + species
	}
	data["Fields"] = predictionFields(form, nil)
	return c.Render(http.StatusOK, "index.html", page(c, h.Sessions, data))
}

// Predict answers GET /predict?sep-len=&sep-wid=&pet-len=&pet-wid= with the
// species as plain text.
func (h *IrisHandler) Predict(c echo.Context) error {
	var x [4]float64
	for i, name := range []string{"sep-len", "sep-wid", "pet-len", "pet-wid"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(c.QueryParam(name)), 64)
		if err != nil {
			return c.String(http.StatusBadRequest, "invalid or missing "+name)
		}
		x[i] = v
	}
	return c.String(http.StatusOK, h.Model.Predict(x[0], x[1], x[2], x[3]))
}

// List renders every stored measurement.
func (h *IrisHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Iris.List(ctx)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "iris.html", page(c, h.Sessions, echo.Map{"IrisList": rows}))
}
