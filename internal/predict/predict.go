// Package predict classifies iris flowers with a multinomial logistic
// regression whose coefficients were fitted offline and exported as JSON.
package predict

import (
	_ "embed"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

//go:embed model.json
var defaultModel []byte

// Model is a fitted linear classifier over the four iris measurements
// (sepal length, sepal width, petal length, petal width).
type Model struct {
	Classes   []string     `json:"classes"`
	Coef      [][4]float64 `json:"coef"`
	Intercept []float64    `json:"intercept"`
}

// Load decodes and checks a model.
func Load(r io.Reader) (*Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "error decoding model")
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads a model from path.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening model")
	}
	defer f.Close()
	return Load(f)
}

// Default returns the reference model shipped with the binary.
func Default() (*Model, error) {
	var m Model
	if err := json.Unmarshal(defaultModel, &m); err != nil {
		return nil, errors.Wrap(err, "error decoding embedded model")
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// FromPath loads path, or the embedded model when path is empty.
func FromPath(path string) (*Model, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

func (m *Model) validate() error {
	n := len(m.Classes)
	if n == 0 {
		return errors.New("model has no classes")
	}
	if len(m.Coef) != n || len(m.Intercept) != n {
		return errors.Errorf("model shape mismatch: %d classes, %d coefficient rows, %d intercepts",
			n, len(m.Coef), len(m.Intercept))
	}
	return nil
}

// Predict returns the class with the highest linear score. The softmax of
// a logistic regression is monotonic so the arg max of the raw scores is the
// predicted class.
func (m *Model) Predict(sepalLength, sepalWidth, petalLength, petalWidth float64) string {
	x := [4]float64{sepalLength, sepalWidth, petalLength, petalWidth}
	best, bestScore := 0, 0.0
	for k, w := range m.Coef {
		score := m.Intercept[k]
		for j := range x {
			score += w[j] * x[j]
		}
		if k == 0 || score > bestScore {
			best, bestScore = k, score
		}
	}
	return m.Classes[best]
}
