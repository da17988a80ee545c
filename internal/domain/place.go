package domain

import "time"

// PlaceStatus is the three-valued lifecycle tag. It is the pivot of validity:
// image and visit date are only meaningful while a place is visited.
type PlaceStatus string

const (
	StatusVisited      PlaceStatus = "visited"
	StatusSuggestion   PlaceStatus = "suggestion"
	StatusInaccessible PlaceStatus = "inaccessible"
)

func (s PlaceStatus) IsValid() bool {
	switch s {
	case StatusVisited, StatusSuggestion, StatusInaccessible:
		return true
	}
	return false
}

// MaxNameLen bounds place names. The bound lives here so the DTO tags and the
// multipart path enforce the same number.
const MaxNameLen = 255

// DateLayout is the wire format for visited dates (ISO date, no time part).
const DateLayout = "2006-01-02"

// Today returns the current date in wire format.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}

// Place is the canonical entity. One flat record with nullable fields;
// ImageURL and VisitedDate are forced to nil on every write path whenever
// Status != visited.
type Place struct {
	ID          int64       `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description" db:"description"`
	Lat         float64     `json:"lat" db:"lat"`
	Lng         float64     `json:"lng" db:"lng"`
	Status      PlaceStatus `json:"status" db:"status"`
	ImageURL    *string     `json:"imageUrl" db:"image_url"`
	VisitedDate *string     `json:"visitedDate" db:"visited_date"`
	CreatedAt   time.Time   `json:"-" db:"created_at"`
	UpdatedAt   time.Time   `json:"-" db:"updated_at"`
}

// Location is the nested coordinate pair the client works with. The wire shape
// keeps lat/lng flat; the client API layer converts between the two.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
