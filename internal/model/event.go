package model

// Event is one Paralympic games from the `event` table.  JSON names keep
// the column names of the published dataset; NOC references Region.NOC.
// Lat, Lon and Highlights are nullable.
type Event struct {
	EventID              int64    `json:"event_id"`
	Type                 string   `json:"type"`
	Year                 int      `json:"year"`
	Location             string   `json:"location"`
	Lat                  *float64 `json:"lat"`
	Lon                  *float64 `json:"lon"`
	NOC                  string   `json:"NOC"`
	Start                string   `json:"start"`
	End                  string   `json:"end"`
	DisabilitiesIncluded string   `json:"disabilities_included"`
	Events               int      `json:"events"`
	Sports               int      `json:"sports"`
	Countries            int      `json:"countries"`
	Male                 int      `json:"male"`
	Female               int      `json:"female"`
	Participants         int      `json:"participants"`
	Highlights           *string  `json:"highlights"`
}
