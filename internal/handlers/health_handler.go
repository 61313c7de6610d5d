package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viccabs/booking-service/internal/config"
)

// HealthHandler reports liveness and which notification channels can deliver
type HealthHandler struct {
	version      string
	notification config.NotificationConfig
	addressReady bool
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(version string, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		version:      version,
		notification: cfg.Notification,
		addressReady: cfg.Address.AccessToken != "",
	}
}

func channelStatus(production, configured bool) string {
	switch {
	case !production:
		return "log"
	case configured:
		return "configured"
	default:
		return "disabled"
	}
}

// Health - GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	production := h.notification.IsProduction()

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": h.version,
		"mode":    h.notification.Mode,
		"channels": gin.H{
			"email": channelStatus(production, h.notification.EmailConfigured()),
			"chat":  channelStatus(production, h.notification.ChatConfigured()),
		},
		"address_lookup": h.addressReady,
		"timestamp":      time.Now().Unix(),
	})
}
