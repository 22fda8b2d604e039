package model

import "fmt"

// Iris is one row of the `iris` table: four measurements in centimetres
// and the labelled species.
type Iris struct {
	ID          int64   `json:"id"`
	SepalLength float64 `json:"sepal_length"`
	SepalWidth  float64 `json:"sepal_width"`
	PetalLength float64 `json:"petal_length"`
	PetalWidth  float64 `json:"petal_width"`
	Species     string  `json:"species"`
}

func (i Iris) String() string {
	return fmt.Sprintf("Iris: <%g, %g, %g, %g, %s>", i.SepalLength, i.SepalWidth, i.PetalLength, i.PetalWidth, i.Species)
}
