package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/webshop/backend/models"
)

// ManufacturerSummary is the embedded form of a resolved manufacturer
// reference
type ManufacturerSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OwnerSummary is the embedded form of a resolved owner reference
type OwnerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ProductView is the read shape of a product. Manufacturer holds either the
// raw stored reference (string) or a ManufacturerSummary when the reference
// resolved; Owner is attached alongside the raw user_id, never instead of it.
type ProductView struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Manufacturer interface{}   `json:"manufacturer"`
	Category     string        `json:"category"`
	Price        float64       `json:"price"`
	Description  string        `json:"description"`
	Images       models.JSONB  `json:"images"`
	MainMaterial string        `json:"mainmaterial"`
	OS           string        `json:"os"`
	Varastossa   bool          `json:"varastossa"`
	Quantity     int           `json:"quantity"`
	UserID       string        `json:"user_id,omitempty"`
	Owner        *OwnerSummary `json:"owner,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// resolve shapes a product for output. A manufacturer reference that is a
// valid identity and exists is replaced by an {id, name} summary; an invalid
// or dangling reference is passed through untouched rather than failing the
// response. A resolvable owner is attached as a separate summary. Pure apart
// from the lookups; the stored record is never modified.
func (s *ProductService) resolve(product *models.Product, includeOwner bool) ProductView {
	view := ProductView{
		ID:           product.ID,
		Name:         product.Name,
		Manufacturer: product.Manufacturer,
		Category:     product.Category,
		Price:        product.Price,
		Description:  product.Description,
		Images:       product.Images,
		MainMaterial: product.MainMaterial,
		OS:           product.OS,
		Varastossa:   product.Varastossa,
		Quantity:     product.Quantity,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}

	if _, err := uuid.Parse(product.Manufacturer); err == nil {
		var manufacturer models.Manufacturer
		if err := s.db.Where("id = ?", product.Manufacturer).First(&manufacturer).Error; err == nil {
			view.Manufacturer = ManufacturerSummary{ID: manufacturer.ID, Name: manufacturer.Name}
		}
	}

	if includeOwner {
		view.UserID = product.UserID
		if _, err := uuid.Parse(product.UserID); err == nil {
			var owner models.User
			if err := s.db.Where("id = ?", product.UserID).First(&owner).Error; err == nil {
				view.Owner = &OwnerSummary{ID: owner.ID, Username: owner.Username}
			}
		}
	}

	return view
}
