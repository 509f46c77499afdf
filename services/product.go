package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/webshop/backend/models"
	"gorm.io/gorm"
)

// Actor is the authenticated identity behind a mutating request. Role comes
// from the token claims when available; an empty Role makes the ownership
// check fall back to loading the user record.
type Actor struct {
	ID   string
	Role string
}

// ProductInput is the create payload. Only the name is required; everything
// else is copied verbatim.
type ProductInput struct {
	Name         string       `json:"name" binding:"required"`
	Manufacturer string       `json:"manufacturer"`
	Category     string       `json:"category"`
	Price        float64      `json:"price"`
	Description  string       `json:"description"`
	Images       models.JSONB `json:"images"`
	MainMaterial string       `json:"mainmaterial"`
	OS           string       `json:"os"`
	Varastossa   bool         `json:"varastossa"`
	Quantity     int          `json:"quantity"`
}

// ProductUpdate is the partial-update payload: a nil field means "keep the
// stored value". There is deliberately no owner field here.
type ProductUpdate struct {
	Name         *string       `json:"name"`
	Manufacturer *string       `json:"manufacturer"`
	Category     *string       `json:"category"`
	Price        *float64      `json:"price"`
	Description  *string       `json:"description"`
	Images       *models.JSONB `json:"images"`
	MainMaterial *string       `json:"mainmaterial"`
	OS           *string       `json:"os"`
	Varastossa   *bool         `json:"varastossa"`
	Quantity     *int          `json:"quantity"`
}

// apply merges the payload over the stored product. Identity, owner and
// created-at are never touched.
func (u *ProductUpdate) apply(p *models.Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Manufacturer != nil {
		p.Manufacturer = *u.Manufacturer
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Images != nil {
		p.Images = *u.Images
	}
	if u.MainMaterial != nil {
		p.MainMaterial = *u.MainMaterial
	}
	if u.OS != nil {
		p.OS = *u.OS
	}
	if u.Varastossa != nil {
		p.Varastossa = *u.Varastossa
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}
}

// ProductService is the product façade: validate, load, authorize, write,
// shape. Mutations publish activity events on the NATS bus when one is wired.
type ProductService struct {
	db          *gorm.DB
	bus         *nats.Conn
	exposeOwner bool
}

// NewProductService creates a product service. bus may be nil; exposeOwner
// controls whether list responses carry the raw owner reference.
func NewProductService(db *gorm.DB, bus *nats.Conn, exposeOwner bool) *ProductService {
	return &ProductService{db: db, bus: bus, exposeOwner: exposeOwner}
}

// List returns every product with manufacturer and owner references resolved
func (s *ProductService) List() ([]ProductView, error) {
	var products []models.Product
	if err := s.db.Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, storeErr(err)
	}

	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, s.resolve(&products[i], s.exposeOwner))
	}
	return views, nil
}

// Get returns a single product with references resolved
func (s *ProductService) Get(id string) (*ProductView, error) {
	product, err := s.load(id)
	if err != nil {
		return nil, err
	}
	view := s.resolve(product, true)
	return &view, nil
}

// Create stores a new product owned by the actor
func (s *ProductService) Create(input ProductInput, actor Actor) (*models.Product, error) {
	if input.Name == "" {
		return nil, ErrValidation
	}

	product := models.Product{
		Name:         input.Name,
		Manufacturer: input.Manufacturer,
		Category:     input.Category,
		Price:        input.Price,
		Description:  input.Description,
		Images:       input.Images,
		MainMaterial: input.MainMaterial,
		OS:           input.OS,
		Varastossa:   input.Varastossa,
		Quantity:     input.Quantity,
		UserID:       actor.ID,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, storeErr(err)
	}

	s.publish("product.created", &product, actor)
	return &product, nil
}

// Update merges the payload over the stored product after the ownership
// check. The stored owner survives no matter what the payload carried.
func (s *ProductService) Update(id string, update ProductUpdate, actor Actor) (*models.Product, error) {
	product, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(product, actor); err != nil {
		return nil, err
	}

	owner := product.UserID
	update.apply(product)
	product.UserID = owner

	if err := s.db.Save(product).Error; err != nil {
		return nil, storeErr(err)
	}

	s.publish("product.updated", product, actor)
	return product, nil
}

// Delete removes a product after the ownership check
func (s *ProductService) Delete(id string, actor Actor) error {
	product, err := s.load(id)
	if err != nil {
		return err
	}
	if err := s.authorize(product, actor); err != nil {
		return err
	}

	if err := s.db.Delete(&models.Product{}, "id = ?", product.ID).Error; err != nil {
		return storeErr(err)
	}

	s.publish("product.deleted", product, actor)
	return nil
}

// load fetches a product by identity, parsing the id before it touches the
// store
func (s *ProductService) load(id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrValidation
	}

	var product models.Product
	if err := s.db.Where("id = ?", id).First(&product).Error; err != nil {
		return nil, storeErr(err)
	}
	return &product, nil
}

// authorize allows a mutation iff the actor owns the product or is an admin.
// The role claim is trusted when present; otherwise the user record decides,
// and an actor without a user record is never permitted.
func (s *ProductService) authorize(product *models.Product, actor Actor) error {
	role := actor.Role
	if role == "" {
		var user models.User
		if err := s.db.Where("id = ?", actor.ID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnauthorized
			}
			return storeErr(err)
		}
		role = user.Role
	}

	if product.UserID == actor.ID || role == models.RoleAdmin {
		return nil
	}
	return ErrUnauthorized
}
