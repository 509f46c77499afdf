package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/webshop/backend/services"
)

// ManufacturerHandler serves the manufacturer routes
type ManufacturerHandler struct {
	manufacturers *services.ManufacturerService
}

// NewManufacturerHandler creates a manufacturer handler
func NewManufacturerHandler(manufacturers *services.ManufacturerService) *ManufacturerHandler {
	return &ManufacturerHandler{manufacturers: manufacturers}
}

type manufacturerRequest struct {
	Name string `json:"name" binding:"required"`
}

// fail writes the error response for manufacturer operations
func (h *ManufacturerHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid manufacturer ID"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Manufacturer not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Manufacturer with this name already exists."})
	case errors.Is(err, services.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Service unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// List handles GET /manufacturers
func (h *ManufacturerHandler) List(c *gin.Context) {
	manufacturers, err := h.manufacturers.List()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, manufacturers)
}

// Get handles GET /manufacturers/:id
func (h *ManufacturerHandler) Get(c *gin.Context) {
	manufacturer, err := h.manufacturers.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, manufacturer)
}

// Create handles POST /manufacturers
func (h *ManufacturerHandler) Create(c *gin.Context) {
	var req manufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}

	manufacturer, err := h.manufacturers.Create(req.Name, actorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, manufacturer)
}

// Update handles PUT /manufacturers/:id
func (h *ManufacturerHandler) Update(c *gin.Context) {
	var req manufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}

	manufacturer, err := h.manufacturers.Update(c.Param("id"), req.Name, actorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, manufacturer)
}

// Delete handles DELETE /manufacturers/:id
func (h *ManufacturerHandler) Delete(c *gin.Context) {
	if err := h.manufacturers.Delete(c.Param("id"), actorFrom(c)); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Manufacturer deleted successfully"})
}
