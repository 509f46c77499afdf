package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/webshop/backend/natsserver"
	"github.com/webshop/backend/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// ActivityHandler serves the live activity feed
type ActivityHandler struct {
	hub *services.ActivityHub
	bus *natsserver.EmbeddedNATS
}

// NewActivityHandler creates an activity handler
func NewActivityHandler(hub *services.ActivityHub, bus *natsserver.EmbeddedNATS) *ActivityHandler {
	return &ActivityHandler{hub: hub, bus: bus}
}

// HandleWebSocket handles WebSocket connections for the activity feed
func (h *ActivityHandler) HandleWebSocket(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Activity hub not initialized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocket upgrade failed: %v", err)
		return
	}

	// Get user ID from context (if authenticated)
	userID := c.GetString(ctxUserID)
	if userID == "" {
		userID = "anonymous"
	}

	client := services.NewActivityClient(h.hub, conn, userID, c.ClientIP())

	h.hub.Register(client)

	// Start goroutines for reading and writing
	go client.WritePump()
	go client.ReadPump()
}

// GetStats handles GET /api/activity/stats
func (h *ActivityHandler) GetStats(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	stats := h.hub.Stats()
	response := gin.H{
		"enabled":         true,
		"clients":         stats.Clients,
		"eventsReceived":  stats.EventsReceived,
		"eventsDelivered": stats.EventsDelivered,
	}
	if h.bus != nil {
		response["bus"] = h.bus.GetStats()
	}

	c.JSON(http.StatusOK, response)
}
