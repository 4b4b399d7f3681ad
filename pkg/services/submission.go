package services

import (
	"log"
	"sync"
	"time"

	"github.com/callmint/backend/pkg/clients/smtpmail"
	apperrors "github.com/callmint/backend/pkg/errors"
	"github.com/callmint/backend/pkg/metrics"
	"github.com/callmint/backend/pkg/models"
	"github.com/callmint/backend/pkg/utils"
)

// SubmissionLog optionally records delivered submissions in durable storage.
type SubmissionLog interface {
	RecordSubmission(formType, identityHash, messageID string) error
}

// ContactResult reports the outcome of a contact form submission. The
// auto-reply is best-effort: its failure is reported but never fatal.
type ContactResult struct {
	AdminNotificationSent bool
	AutoReplySent         bool
	AdminMessageID        string
	UserMessageID         string
}

// ConsultationResult reports the outcome of a consultation booking. The
// request itself never fails on email trouble; the flags tell the caller
// whether to soften the confirmation.
type ConsultationResult struct {
	AdminSent      bool
	UserSent       bool
	AdminMessageID string
	UserMessageID  string
}

// AgentRequestResult reports the outcome of a dashboard agent request
type AgentRequestResult struct {
	AutoReplySent  bool
	AdminMessageID string
	UserMessageID  string
}

// SubmissionService runs the three form pipelines: validate, check quota
// where applicable, compose the notification pair and deliver it.
type SubmissionService interface {
	ProcessContact(f *models.ContactForm) (*ContactResult, error)
	ProcessConsultation(f *models.ConsultationForm) (*ConsultationResult, error)
	ProcessAgentRequest(f *models.AgentRequestForm) (*AgentRequestResult, error)
}

type submissionServiceImpl struct {
	mail  smtpmail.Client
	quota Tracker
	store SubmissionLog // nil when the service runs without a database
	now   func() time.Time
}

// NewSubmissionService creates a new submission service. store may be nil.
func NewSubmissionService(mail smtpmail.Client, quota Tracker, store SubmissionLog) SubmissionService {
	return &submissionServiceImpl{
		mail:  mail,
		quota: quota,
		store: store,
		now:   time.Now,
	}
}

// ProcessContact handles a contact form submission. The operator alert and
// the auto-reply are dispatched concurrently; only the operator alert can
// fail the request.
func (s *submissionServiceImpl) ProcessContact(f *models.ContactForm) (*ContactResult, error) {
	idHash := utils.HashIdentity(f.Email)
	log.Printf("[CONTACT] Submission received: identity=%s", idHash)

	if verr := ValidateContact(f); verr != nil {
		log.Printf("[CONTACT] Validation failed: identity=%s reason=%q", idHash, verr.Message)
		metrics.RecordSubmission("contact", "validation_error")
		return nil, verr
	}

	if err := s.mail.Verify(); err != nil {
		log.Printf("[CONTACT] Transport unavailable: %v", err)
		metrics.RecordSubmission("contact", "unavailable")
		return nil, err
	}

	pair := ComposeContact(f, s.now())

	var wg sync.WaitGroup
	var adminID, userID string
	var adminErr, userErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		adminID, adminErr = s.mail.Send(pair.Admin)
	}()
	go func() {
		defer wg.Done()
		userID, userErr = s.mail.Send(pair.User)
	}()
	wg.Wait()

	metrics.RecordEmail("contact", "admin", adminErr)
	metrics.RecordEmail("contact", "user", userErr)

	if userErr != nil {
		log.Printf("[CONTACT] Auto-reply failed (non-fatal): identity=%s err=%v", idHash, userErr)
	}
	if adminErr != nil {
		log.Printf("[CONTACT] Admin notification failed: identity=%s err=%v", idHash, adminErr)
		metrics.RecordSubmission("contact", "delivery_error")
		return nil, adminErr
	}

	log.Printf("[CONTACT] Submission delivered: identity=%s adminId=%s", idHash, adminID)
	metrics.RecordSubmission("contact", "success")
	s.logSubmission("contact", f.Email, adminID)

	return &ContactResult{
		AdminNotificationSent: true,
		AutoReplySent:         userErr == nil,
		AdminMessageID:        adminID,
		UserMessageID:         userID,
	}, nil
}

// ProcessConsultation handles a consultation booking. After validation the
// request always succeeds: a booking intent must be confirmed to the user
// even when the email subsystem is down. Failures are logged and counted so
// operators still see the outage.
func (s *submissionServiceImpl) ProcessConsultation(f *models.ConsultationForm) (*ConsultationResult, error) {
	idHash := utils.HashIdentity(f.Email)
	log.Printf("[CONSULTATION] Booking received: identity=%s date=%s time=%s", idHash, f.PreferredDate, f.PreferredTime)

	if verr := ValidateConsultation(f, s.now()); verr != nil {
		log.Printf("[CONSULTATION] Validation failed: identity=%s reason=%q", idHash, verr.Message)
		metrics.RecordSubmission("consultation", "validation_error")
		return nil, verr
	}

	pair := ComposeConsultation(f, s.now())

	adminID, adminErr := s.mail.Send(pair.Admin)
	metrics.RecordEmail("consultation", "admin", adminErr)
	if adminErr != nil {
		log.Printf("[CONSULTATION] Admin notification failed (non-fatal): identity=%s err=%v", idHash, adminErr)
	}

	userID, userErr := s.mail.Send(pair.User)
	metrics.RecordEmail("consultation", "user", userErr)
	if userErr != nil {
		log.Printf("[CONSULTATION] Confirmation email failed (non-fatal): identity=%s err=%v", idHash, userErr)
	}

	if adminErr == nil {
		metrics.RecordSubmission("consultation", "success")
		s.logSubmission("consultation", f.Email, adminID)
	} else {
		metrics.RecordSubmission("consultation", "delivery_error")
	}

	return &ConsultationResult{
		AdminSent:      adminErr == nil,
		UserSent:       userErr == nil,
		AdminMessageID: adminID,
		UserMessageID:  userID,
	}, nil
}

// ProcessAgentRequest handles a dashboard agent request. Starter-plan users
// get exactly one successful submission; the quota slot is consumed only
// after the operator notification is delivered, so a transport failure does
// not burn the user's single attempt.
func (s *submissionServiceImpl) ProcessAgentRequest(f *models.AgentRequestForm) (*AgentRequestResult, error) {
	idHash := utils.HashIdentity(f.Email)
	log.Printf("[DASHBOARD] Agent request received: identity=%s agentType=%s plan=%s", idHash, f.AgentType, f.SubscriptionPlan)

	if verr := ValidateAgentRequest(f); verr != nil {
		log.Printf("[DASHBOARD] Validation failed: identity=%s reason=%q", idHash, verr.Message)
		metrics.RecordSubmission("dashboard", "validation_error")
		return nil, verr
	}

	allowed, err := s.quota.Reserve(f.Email, f.SubscriptionPlan)
	if err != nil {
		log.Printf("[DASHBOARD] Quota check failed: identity=%s err=%v", idHash, err)
		return nil, err
	}
	if !allowed {
		log.Printf("[DASHBOARD] Quota exceeded: identity=%s", idHash)
		metrics.RecordSubmission("dashboard", "quota_exceeded")
		metrics.RecordQuotaRejection()
		return nil, apperrors.ErrQuotaExceeded
	}

	if err := s.mail.Verify(); err != nil {
		s.releaseQuota(f, idHash)
		log.Printf("[DASHBOARD] Transport unavailable: %v", err)
		metrics.RecordSubmission("dashboard", "unavailable")
		return nil, err
	}

	pair := ComposeAgentRequest(f, s.now())

	adminID, adminErr := s.mail.Send(pair.Admin)
	metrics.RecordEmail("dashboard", "admin", adminErr)
	if adminErr != nil {
		s.releaseQuota(f, idHash)
		log.Printf("[DASHBOARD] Admin notification failed: identity=%s err=%v", idHash, adminErr)
		metrics.RecordSubmission("dashboard", "delivery_error")
		return nil, adminErr
	}

	if err := s.quota.Commit(f.Email, f.SubscriptionPlan); err != nil {
		// The notification is already out; a commit failure must not turn
		// a delivered submission into an error for the user.
		log.Printf("[DASHBOARD] Quota commit failed: identity=%s err=%v", idHash, err)
	}

	userID, userErr := s.mail.Send(pair.User)
	metrics.RecordEmail("dashboard", "user", userErr)
	if userErr != nil {
		log.Printf("[DASHBOARD] Auto-reply failed (non-fatal): identity=%s err=%v", idHash, userErr)
	}

	log.Printf("[DASHBOARD] Agent request delivered: identity=%s adminId=%s", idHash, adminID)
	metrics.RecordSubmission("dashboard", "success")
	s.logSubmission("dashboard", f.Email, adminID)

	return &AgentRequestResult{
		AutoReplySent:  userErr == nil,
		AdminMessageID: adminID,
		UserMessageID:  userID,
	}, nil
}

func (s *submissionServiceImpl) releaseQuota(f *models.AgentRequestForm, idHash string) {
	if err := s.quota.Release(f.Email, f.SubscriptionPlan); err != nil {
		log.Printf("[DASHBOARD] Quota release failed: identity=%s err=%v", idHash, err)
	}
}

func (s *submissionServiceImpl) logSubmission(formType, email, messageID string) {
	if s.store == nil {
		return
	}
	if err := s.store.RecordSubmission(formType, utils.HashIdentity(email), messageID); err != nil {
		log.Printf("[SUBMISSION] Failed to record %s submission: %v", formType, err)
	}
}
