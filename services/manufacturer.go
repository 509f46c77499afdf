package services

import (
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/webshop/backend/models"
	"gorm.io/gorm"
)

// ManufacturerService is the manufacturer façade. Every write runs the
// case-insensitive name check first; a conflict aborts before anything is
// persisted.
type ManufacturerService struct {
	db  *gorm.DB
	bus *nats.Conn
}

// NewManufacturerService creates a manufacturer service. bus may be nil.
func NewManufacturerService(db *gorm.DB, bus *nats.Conn) *ManufacturerService {
	return &ManufacturerService{db: db, bus: bus}
}

// List returns all manufacturers
func (s *ManufacturerService) List() ([]models.Manufacturer, error) {
	var manufacturers []models.Manufacturer
	if err := s.db.Order("name ASC").Find(&manufacturers).Error; err != nil {
		return nil, storeErr(err)
	}
	return manufacturers, nil
}

// Get returns a single manufacturer by identity
func (s *ManufacturerService) Get(id string) (*models.Manufacturer, error) {
	return s.load(id)
}

// Create stores a new manufacturer after the uniqueness check
func (s *ManufacturerService) Create(name string, actor Actor) (*models.Manufacturer, error) {
	if name == "" {
		return nil, ErrValidation
	}
	if err := s.checkUnique(name, ""); err != nil {
		return nil, err
	}

	manufacturer := models.Manufacturer{Name: name}
	if err := s.db.Create(&manufacturer).Error; err != nil {
		return nil, storeErr(err)
	}

	s.publish("manufacturer.created", &manufacturer, actor)
	return &manufacturer, nil
}

// Update renames a manufacturer. The row being updated is excluded from the
// uniqueness comparison so an update never collides with itself.
func (s *ManufacturerService) Update(id, name string, actor Actor) (*models.Manufacturer, error) {
	if name == "" {
		return nil, ErrValidation
	}

	manufacturer, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(name, manufacturer.ID); err != nil {
		return nil, err
	}

	manufacturer.Name = name
	if err := s.db.Save(manufacturer).Error; err != nil {
		return nil, storeErr(err)
	}

	s.publish("manufacturer.updated", manufacturer, actor)
	return manufacturer, nil
}

// Delete removes a manufacturer
func (s *ManufacturerService) Delete(id string, actor Actor) error {
	manufacturer, err := s.load(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&models.Manufacturer{}, "id = ?", manufacturer.ID).Error; err != nil {
		return storeErr(err)
	}

	s.publish("manufacturer.deleted", manufacturer, actor)
	return nil
}

func (s *ManufacturerService) load(id string) (*models.Manufacturer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrValidation
	}

	var manufacturer models.Manufacturer
	if err := s.db.Where("id = ?", id).First(&manufacturer).Error; err != nil {
		return nil, storeErr(err)
	}
	return &manufacturer, nil
}

// checkUnique rejects a name already used by any other manufacturer,
// case-insensitively and exact-match. The check-then-write sequence is not
// atomic against concurrent creates; the store carries no compensating
// constraint, so concurrent duplicates remain possible. Accepted race.
func (s *ManufacturerService) checkUnique(name, excludeID string) error {
	query := s.db.Model(&models.Manufacturer{}).Where("LOWER(name) = LOWER(?)", name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return storeErr(err)
	}
	if count > 0 {
		return ErrConflict
	}
	return nil
}
