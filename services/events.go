package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/webshop/backend/models"
)

// NATS subjects carrying catalogue mutation events
const (
	SubjectProducts      = "activity.products"
	SubjectManufacturers = "activity.manufacturers"
)

// ActivityEvent describes one catalogue mutation for the activity feed
type ActivityEvent struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// publishActivity sends an event to the bus. Best-effort: a nil bus or a
// publish failure never fails the operation that produced the event.
func publishActivity(bus *nats.Conn, subject string, event ActivityEvent) {
	if bus == nil {
		return
	}

	event.Timestamp = time.Now()
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	if err := bus.Publish(subject, data); err != nil {
		log.Printf("⚠️ Failed to publish %s event: %v", event.Type, err)
	}
}

func (s *ProductService) publish(eventType string, product *models.Product, actor Actor) {
	publishActivity(s.bus, SubjectProducts, ActivityEvent{
		Type:  eventType,
		ID:    product.ID,
		Name:  product.Name,
		Actor: actor.ID,
	})
}

func (s *ManufacturerService) publish(eventType string, manufacturer *models.Manufacturer, actor Actor) {
	publishActivity(s.bus, SubjectManufacturers, ActivityEvent{
		Type:  eventType,
		ID:    manufacturer.ID,
		Name:  manufacturer.Name,
		Actor: actor.ID,
	})
}
