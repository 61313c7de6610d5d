package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viccabs/booking-service/internal/services"
)

// ConfirmationHandler renders the thank-you page
type ConfirmationHandler struct {
	confirmationService *services.ConfirmationService
	businessName        string
}

// NewConfirmationHandler creates a new ConfirmationHandler
func NewConfirmationHandler(confirmationService *services.ConfirmationService, businessName string) *ConfirmationHandler {
	return &ConfirmationHandler{
		confirmationService: confirmationService,
		businessName:        businessName,
	}
}

func (h *ConfirmationHandler) render(c *gin.Context) services.ConfirmationView {
	return h.confirmationService.Render(c.Query("name"), c.Query("date"), c.Query("time"))
}

// ShowThankYou - GET /thank-you?name=&date=&time=
func (h *ConfirmationHandler) ShowThankYou(c *gin.Context) {
	c.HTML(http.StatusOK, "thank_you.html", gin.H{
		"BusinessName": h.businessName,
		"View":         h.render(c),
	})
}

// GetConfirmation - GET /api/v1/confirmation?name=&date=&time=
func (h *ConfirmationHandler) GetConfirmation(c *gin.Context) {
	c.JSON(http.StatusOK, h.render(c))
}
