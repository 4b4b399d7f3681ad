package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/callmint/backend/pkg/errors"
	"github.com/callmint/backend/pkg/models"
	"github.com/callmint/backend/pkg/services"
)

// User-facing messages. Delivery errors are mapped to short actionable text;
// transport internals never reach the response body.
const (
	contactSuccessMessage       = "Thank you for your message! We've received your inquiry and will respond within 2 hours."
	dashboardSuccessMessage     = "Your form has been submitted successfully. We will respond to you within a few hours."
	consultationSuccessMessage  = "Consultation request submitted successfully! You will receive a confirmation email shortly."
	consultationDegradedMessage = "Consultation request received! Due to email service issues, you may not receive a confirmation email, but we have your request and will contact you soon."

	unavailableMessage       = "Email service is currently unavailable. Please try again later."
	authFailureMessage       = "Authentication with email server failed. Please contact support."
	connectionFailureMessage = "Connection to email server failed. Please try again later."
	internalErrorMessage     = "An error occurred while processing your request"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	submissions services.SubmissionService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(submissions services.SubmissionService) *Handlers {
	return &Handlers{submissions: submissions}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// HandleContact processes contact page form submissions
func (h *Handlers) HandleContact(c *gin.Context) {
	var form models.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		log.Printf("[API] Invalid contact payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	result, err := h.submissions.ProcessContact(&form)
	if err != nil {
		status, message := mapSubmissionError(err, "Failed to send notification email")
		c.JSON(status, gin.H{"success": false, "message": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": contactSuccessMessage,
		"details": gin.H{
			"adminNotificationSent": result.AdminNotificationSent,
			"autoReplySent":         result.AutoReplySent,
		},
	})
}

// HandleConsultation processes consultation booking requests. Downstream
// email failures never produce a non-200 status here; the booking intent
// was recorded and the user must see that.
func (h *Handlers) HandleConsultation(c *gin.Context) {
	var form models.ConsultationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		log.Printf("[API] Invalid consultation payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.submissions.ProcessConsultation(&form)
	if err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	resp := gin.H{"success": true}
	if result.AdminSent {
		resp["message"] = consultationSuccessMessage
		resp["adminEmailId"] = result.AdminMessageID
		if result.UserSent {
			resp["userEmailId"] = result.UserMessageID
		}
	} else {
		resp["message"] = consultationDegradedMessage
	}
	if !result.AdminSent || !result.UserSent {
		resp["warning"] = "Email delivery issue"
	}

	c.JSON(http.StatusOK, resp)
}

// HandleAgentRequest processes dashboard agent requests
func (h *Handlers) HandleAgentRequest(c *gin.Context) {
	var form models.AgentRequestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		log.Printf("[API] Invalid dashboard payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	_, err := h.submissions.ProcessAgentRequest(&form)
	if err != nil {
		status, message := mapSubmissionError(err, "Failed to submit your request")
		c.JSON(status, gin.H{"success": false, "message": message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": dashboardSuccessMessage,
	})
}

// mapSubmissionError translates pipeline errors into an HTTP status and a
// user-safe message. genericMessage covers unclassified delivery failures
// and differs per form to match the page the user submitted from.
func mapSubmissionError(err error, genericMessage string) (int, string) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Message
	}

	if errors.Is(err, apperrors.ErrQuotaExceeded) {
		return http.StatusForbidden, apperrors.ErrQuotaExceeded.Error()
	}

	var derr *apperrors.DeliveryError
	if errors.As(err, &derr) {
		switch derr.Code {
		case apperrors.CodeUnavailable, apperrors.CodeConfig:
			return http.StatusServiceUnavailable, unavailableMessage
		case apperrors.CodeAuth:
			return http.StatusInternalServerError, authFailureMessage
		case apperrors.CodeConnection:
			return http.StatusInternalServerError, connectionFailureMessage
		default:
			return http.StatusInternalServerError, genericMessage
		}
	}

	return http.StatusInternalServerError, internalErrorMessage
}
