package model

// Region is a National Olympic Committee region from the `region` table.
// NOC is the primary key; Notes is nullable.
type Region struct {
	NOC    string  `json:"NOC"`
	Region string  `json:"region"`
	Notes  *string `json:"notes"`
}
