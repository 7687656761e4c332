package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Aisle is a lane inside a taxi rank, holding taxis for a set of routes
type Aisle struct {
	Number   int      `json:"number"`
	Name     string   `json:"name"`
	Routes   []string `json:"routes,omitempty"`
	Capacity int      `json:"capacity,omitempty"`
}

// Fare is a published route price at a rank
type Fare struct {
	Route string  `json:"route"`
	Price float64 `json:"price"`
}

// AisleList is stored as a JSONB column
type AisleList []Aisle

// Value implements driver.Valuer
func (l AisleList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *AisleList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// FareList is stored as a JSONB column
type FareList []Fare

// Value implements driver.Valuer
func (l FareList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *FareList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// TaxiRank represents a physical taxi-queue location. Ranks are referenced by
// their opaque ID everywhere else; the display name is resolved at read time.
type TaxiRank struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Capacity  *int      `json:"capacity,omitempty" db:"capacity"`
	Aisles    AisleList `json:"aisles" db:"aisles"`
	Fares     FareList  `json:"fares" db:"fares"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the TaxiRank model
func (TaxiRank) TableName() string {
	return "taxi_ranks"
}

// NewTaxiRank creates a new TaxiRank instance
func NewTaxiRank(name, address string, lat, lng float64) *TaxiRank {
	now := time.Now()
	return &TaxiRank{
		ID:        uuid.New(),
		Name:      name,
		Address:   address,
		Latitude:  lat,
		Longitude: lng,
		Aisles:    AisleList{},
		Fares:     FareList{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
