package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	"github.com/iliyamo/paralympics-iris/internal/logging"
)

const regionProperties = `{
  "NOC":    {"type": "string", "minLength": 1, "maxLength": 8},
  "region": {"type": "string", "minLength": 1},
  "notes":  {"type": ["string", "null"]}
}`

const eventProperties = `{
  "type":                  {"type": "string", "enum": ["Summer", "Winter"]},
  "year":                  {"type": "integer", "minimum": 1900},
  "location":              {"type": "string", "minLength": 1},
  "lat":                   {"type": ["number", "null"], "minimum": -90, "maximum": 90},
  "lon":                   {"type": ["number", "null"], "minimum": -180, "maximum": 180},
  "NOC":                   {"type": "string", "minLength": 1},
  "start":                 {"type": "string"},
  "end":                   {"type": "string"},
  "disabilities_included": {"type": "string"},
  "events":                {"type": "integer", "minimum": 0},
  "sports":                {"type": "integer", "minimum": 0},
  "countries":             {"type": "integer", "minimum": 0},
  "male":                  {"type": "integer", "minimum": 0},
  "female":                {"type": "integer", "minimum": 0},
  "participants":          {"type": "integer", "minimum": 0},
  "highlights":            {"type": ["string", "null"]}
}`

func objectSchema(properties string, required ...string) gojsonschema.JSONLoader {
	schema := `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": ` + properties
	if len(required) > 0 {
		req, _ := json.Marshal(required)
		schema += `,
  "required": ` + string(req)
	}
	return gojsonschema.NewStringLoader(schema + "\n}")
}

var (
	regionCreateSchema = objectSchema(regionProperties, "NOC", "region")
	regionPatchSchema  = objectSchema(regionProperties)
	eventCreateSchema  = objectSchema(eventProperties,
		"type", "year", "location", "NOC", "start", "end", "disabilities_included",
		"events", "sports", "countries", "male", "female", "participants")
	eventPatchSchema = objectSchema(eventProperties)
	credentialSchema = objectSchema(`{
  "email":    {"type": "string", "minLength": 1},
  "password": {"type": "string", "minLength": 1}
}`, "email", "password")
)

// errBadBody signals that readAndValidateBody already wrote a 400.
var errBadBody = errors.New("bad request body")

// readAndValidateBody reads the request body, checks it against schema and
// returns the raw bytes.  Failures are answered with the 400 envelope.
func readAndValidateBody(c echo.Context, schema gojsonschema.JSONLoader) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, 1<<20))
	if err != nil {
		logging.FromContext(c.Request().Context()).Info("error reading request body", "error", err)
		return nil, writeBadBody(c, "Could not read request body.", nil)
	}
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		// the schemas are static, so this is a body that is not JSON
		return nil, writeBadBody(c, "Could not validate request body.", nil)
	}
	if !result.Valid() {
		details := make([]string, len(result.Errors()))
		for i, verr := range result.Errors() {
			details[i] = verr.String()
		}
		return nil, writeBadBody(c, "Request body failed validation.", details)
	}
	return body, nil
}

func writeBadBody(c echo.Context, msg string, details []string) error {
	if err := badRequestJSON(c, msg, details); err != nil {
		return err
	}
	return errBadBody
}

// handled maps errBadBody, whose response is already written, to nil.
func handled(err error) error {
	if errors.Is(err, errBadBody) {
		return nil
	}
	return err
}

// mergePatch overlays the JSON object patch onto current and decodes the
// result into out.  Keys absent from patch keep their current value;
// explicit nulls clear nullable fields.
func mergePatch(current any, patch []byte, out any) error {
	base, err := json.Marshal(current)
	if err != nil {
		return errors.Wrap(err, "error encoding current record")
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return errors.Wrap(err, "error decoding current record")
	}
	var changes map[string]json.RawMessage
	if err := json.Unmarshal(patch, &changes); err != nil {
		return errors.Wrap(err, "error decoding patch")
	}
	for k, v := range changes {
		merged[k] = v
	}
	bs, err := json.Marshal(merged)
	if err != nil {
		return errors.Wrap(err, "error encoding merged record")
	}
	return errors.Wrap(json.Unmarshal(bs, out), "error decoding merged record")
}
