package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/callmint/backend/pkg/errors"
	"github.com/callmint/backend/pkg/models"
)

// Email validation regex: local part, "@", dotted domain, 2+ letter TLD
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	minMessageLength = 10

	// Business hours window, minutes from midnight, both ends inclusive
	businessDayStart = 9 * 60
	businessDayEnd   = 18 * 60
)

// ValidateContact checks a contact form submission. Missing required fields
// are collected and reported together rather than one at a time.
func ValidateContact(f *models.ContactForm) *apperrors.ValidationError {
	var missing []string
	if f.Name == "" {
		missing = append(missing, "Name")
	}
	if f.Email == "" {
		missing = append(missing, "Email")
	}
	if f.Message == "" {
		missing = append(missing, "Message")
	}
	if f.Company == "" {
		missing = append(missing, "Company")
	}
	if len(missing) > 0 {
		return apperrors.NewMissingFields(missing)
	}

	if !emailRegex.MatchString(f.Email) {
		return apperrors.NewValidation("Please enter a valid email address")
	}
	if len(f.Message) < minMessageLength {
		return apperrors.NewValidation("Message must be at least 10 characters long")
	}
	return nil
}

// ValidateConsultation checks a consultation booking. The reference time is
// passed in so "today" is well defined; same-day bookings are allowed.
func ValidateConsultation(f *models.ConsultationForm, now time.Time) *apperrors.ValidationError {
	var missing []string
	if f.FullName == "" {
		missing = append(missing, "Full Name")
	}
	if f.Email == "" {
		missing = append(missing, "Email")
	}
	if f.Phone == "" {
		missing = append(missing, "Phone")
	}
	if f.PreferredDate == "" {
		missing = append(missing, "Preferred Date")
	}
	if f.PreferredTime == "" {
		missing = append(missing, "Preferred Time")
	}
	if len(missing) > 0 {
		return apperrors.NewMissingFields(missing)
	}

	if !emailRegex.MatchString(f.Email) {
		return apperrors.NewValidation("Please enter a valid email address")
	}

	date, err := time.ParseInLocation("2006-01-02", f.PreferredDate, now.Location())
	if err != nil {
		return apperrors.NewValidation("Please provide a valid date")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return apperrors.NewValidation("Date cannot be in the past")
	}

	minutes, ok := parseClock(f.PreferredTime)
	if !ok {
		return apperrors.NewValidation("Please provide a valid time")
	}
	if minutes < businessDayStart || minutes > businessDayEnd {
		return apperrors.NewValidation("Please select a time between 9:00 AM and 6:00 PM")
	}
	return nil
}

// ValidateAgentRequest checks a dashboard agent request. Knowledge base,
// attached file metadata and CRM details are optional by contract.
func ValidateAgentRequest(f *models.AgentRequestForm) *apperrors.ValidationError {
	var missing []string
	if f.AgentType == "" {
		missing = append(missing, "Agent Type")
	}
	if f.VoicePreference == "" {
		missing = append(missing, "Voice Preference")
	}
	if f.FullName == "" {
		missing = append(missing, "Full Name")
	}
	if f.Email == "" {
		missing = append(missing, "Email")
	}
	if f.WhatsAppNumber == "" {
		missing = append(missing, "WhatsApp Number")
	}
	if len(missing) > 0 {
		return apperrors.NewMissingFields(missing)
	}

	if !emailRegex.MatchString(f.Email) {
		return apperrors.NewValidation("Please enter a valid email address")
	}
	return nil
}

// parseClock parses an "HH:MM" 24h time into minutes from midnight
func parseClock(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || mins < 0 || mins > 59 {
		return 0, false
	}
	return hours*60 + mins, true
}
