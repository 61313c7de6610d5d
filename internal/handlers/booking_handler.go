package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/viccabs/booking-service/internal/config"
	"github.com/viccabs/booking-service/internal/models"
	"github.com/viccabs/booking-service/internal/services"
	"github.com/viccabs/booking-service/internal/utils"
)

// BookingHandler serves the booking form and submission endpoints
type BookingHandler struct {
	orchestratorService *services.BookingOrchestratorService
	business            config.BusinessConfig
	logger              *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	orchestratorService *services.BookingOrchestratorService,
	business config.BusinessConfig,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		orchestratorService: orchestratorService,
		business:            business,
		logger:              logger,
	}
}

type serviceTypeOption struct {
	Code     string
	Label    string
	Selected bool
}

type bookingFormView struct {
	BusinessName  string
	BusinessPhone string
	Values        models.BookingInput
	Errors        models.FieldErrors
	Message       string
	Failed        bool
	ServiceTypes  []serviceTypeOption
}

func (h *BookingHandler) formView(values models.BookingInput) bookingFormView {
	selected, ok := models.ParseServiceType(values.ServiceType)
	if !ok {
		selected = models.DefaultServiceType
	}

	options := make([]serviceTypeOption, 0, len(models.AllServiceTypes()))
	for _, st := range models.AllServiceTypes() {
		options = append(options, serviceTypeOption{
			Code:     string(st),
			Label:    st.Label(),
			Selected: st == selected,
		})
	}

	return bookingFormView{
		BusinessName:  h.business.Name,
		BusinessPhone: h.business.Phone,
		Values:        values,
		ServiceTypes:  options,
	}
}

// ShowForm renders an empty booking form - GET /book
func (h *BookingHandler) ShowForm(c *gin.Context) {
	c.HTML(http.StatusOK, "book.html", h.formView(models.BookingInput{}))
}

// SubmitForm handles the HTML form post - POST /book
func (h *BookingHandler) SubmitForm(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBind(&input); err != nil {
		view := h.formView(input)
		view.Message = "We couldn't read your booking. Please check the form and try again."
		view.Failed = true
		c.HTML(http.StatusBadRequest, "book.html", view)
		return
	}

	outcome := h.orchestratorService.Submit(c.Request.Context(), input, utils.GetSubmissionMeta(c))

	switch outcome.State {
	case services.StateSucceeded:
		c.Redirect(http.StatusSeeOther, outcome.RedirectURL)
	case services.StateFailed:
		view := h.formView(outcome.Values)
		view.Message = outcome.Message
		view.Failed = true
		c.HTML(http.StatusServiceUnavailable, "book.html", view)
	default:
		view := h.formView(outcome.Values)
		view.Errors = outcome.FieldErrors
		c.HTML(http.StatusUnprocessableEntity, "book.html", view)
	}
}

// SubmitJSON handles a JSON booking submission - POST /api/v1/bookings
func (h *BookingHandler) SubmitJSON(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Request body must be a JSON booking",
		})
		return
	}

	outcome := h.orchestratorService.Submit(c.Request.Context(), input, utils.GetSubmissionMeta(c))

	switch outcome.State {
	case services.StateSucceeded:
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      outcome.Message,
			"redirect_url": outcome.RedirectURL,
		})
	case services.StateFailed:
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "notification_failed",
			"message": outcome.Message,
		})
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   "validation_failed",
			"errors":  outcome.FieldErrors,
		})
	}
}

// Validate runs as-you-type validation - POST /api/v1/bookings/validate?field=
func (h *BookingHandler) Validate(c *gin.Context) {
	var input models.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if field := c.Query("field"); field != "" {
		message := models.ValidateField(input, field)
		c.JSON(http.StatusOK, gin.H{
			"field": field,
			"valid": message == "",
			"error": message,
		})
		return
	}

	_, errs := models.Validate(input)
	if errs == nil {
		errs = models.FieldErrors{}
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":  !errs.HasErrors(),
		"errors": errs,
	})
}
