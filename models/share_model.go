package models

import (
	"fmt"
	"time"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// InRange checks the coordinate against valid WGS84 bounds.
func (c Coordinates) InRange() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// LocationShare is one user sharing one coordinate snapshot with another.
// Shares are immutable once created; they only ever get deleted.
type LocationShare struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	From        string      `json:"from" bson:"from"`
	To          string      `json:"to" bson:"to"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
	Timestamp   time.Time   `json:"timestamp" bson:"timestamp"`
}

func (s *LocationShare) Validate() error {
	if s.From == "" || s.To == "" {
		return fmt.Errorf("share document %s missing sender or recipient", s.ID)
	}
	if !s.Coordinates.InRange() {
		return fmt.Errorf("share document %s has out-of-range coordinates", s.ID)
	}
	return nil
}

// ReceivedShare is a LocationShare denormalized with the sender's username
// for display, resolved at read time.
type ReceivedShare struct {
	ID          string      `json:"id"`
	From        string      `json:"from"`
	Sender      string      `json:"sender"`
	Coordinates Coordinates `json:"coordinates"`
	Timestamp   time.Time   `json:"timestamp"`
}
