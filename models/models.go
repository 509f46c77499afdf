package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONB type for GORM - can handle both objects and arrays
// Using a wrapped interface{} so we can implement both Value() and Scan()
type JSONB struct {
	Data interface{} `json:"-"`
}

// NewJSONB creates a new JSONB from any value
func NewJSONB(v interface{}) JSONB {
	return JSONB{Data: v}
}

// UnmarshalJSON implements json.Unmarshaler
func (j *JSONB) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &j.Data)
}

// MarshalJSON implements json.Marshaler
func (j JSONB) MarshalJSON() ([]byte, error) {
	if j.Data == nil {
		return []byte("null"), nil
	}
	return json.Marshal(j.Data)
}

func (j JSONB) Value() (driver.Value, error) {
	if j.Data == nil {
		return nil, nil
	}
	return json.Marshal(j.Data)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		j.Data = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, &j.Data)
}

// Manufacturer model. Name uniqueness is case-insensitive and checked by the
// service layer before each write, not by a storage constraint.
type Manufacturer struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Manufacturer) TableName() string {
	return "manufacturers"
}

func (m *Manufacturer) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Product model. Manufacturer holds the manufacturer id as a plain string and
// may be empty or dangling; UserID is the owning user and never changes after
// creation.
type Product struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Manufacturer string    `gorm:"column:manufacturer" json:"manufacturer"`
	Category     string    `gorm:"column:category" json:"category"`
	Price        float64   `gorm:"column:price" json:"price"`
	Description  string    `gorm:"column:description" json:"description"`
	Images       JSONB     `gorm:"type:jsonb;column:images" json:"images"`
	MainMaterial string    `gorm:"column:mainmaterial" json:"mainmaterial"`
	OS           string    `gorm:"column:os" json:"os"`
	Varastossa   bool      `gorm:"column:varastossa" json:"varastossa"`
	Quantity     int       `gorm:"column:quantity" json:"quantity"`
	UserID       string    `gorm:"column:user_id" json:"user_id"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
