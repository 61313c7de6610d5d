package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/viccabs/booking-service/internal/models"
)

// SubmissionState is a state of the booking submission state machine
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StateSubmitting SubmissionState = "submitting"
	StateSucceeded  SubmissionState = "succeeded"
	StateFailed     SubmissionState = "failed"
)

// SuccessMessage is shown to the customer once at least one channel delivered
const SuccessMessage = "Booking request sent successfully!"

// EmailNotifier sends the operator email for a booking
type EmailNotifier interface {
	Dispatch(ctx context.Context, req models.BookingRequest, meta models.SubmissionMeta) Result[EmailReceipt]
}

// ChatNotifier broadcasts the booking to the operators' chat
type ChatNotifier interface {
	Dispatch(ctx context.Context, req models.BookingRequest, meta models.SubmissionMeta) Result[ChatReceipt]
}

// BookingOrchestratorConfig holds configuration for the orchestrator
type BookingOrchestratorConfig struct {
	DispatchTimeout  time.Duration // Upper bound for both notifications together
	BusinessPhone    string        // Offered to the customer when submission fails
	ConfirmationPath string        // Where the customer lands after success
}

// DefaultOrchestratorConfig returns default configuration
func DefaultOrchestratorConfig() BookingOrchestratorConfig {
	return BookingOrchestratorConfig{
		DispatchTimeout:  20 * time.Second,
		ConfirmationPath: "/thank-you",
	}
}

// SubmissionOutcome is everything the UI needs after a submit attempt
type SubmissionOutcome struct {
	State       SubmissionState     `json:"state"`
	Transitions []SubmissionState   `json:"transitions"`
	FieldErrors models.FieldErrors  `json:"errors,omitempty"`
	Values      models.BookingInput `json:"values"`
	Message     string              `json:"message,omitempty"`
	RedirectURL string              `json:"redirect_url,omitempty"`
	EmailSent   bool                `json:"email_sent"`
	ChatSent    bool                `json:"chat_sent"`
	Duplicate   bool                `json:"duplicate,omitempty"`
}

// Succeeded reports whether the booking reached at least one channel
func (o *SubmissionOutcome) Succeeded() bool {
	return o.State == StateSucceeded
}

func (o *SubmissionOutcome) current() SubmissionState {
	if len(o.Transitions) == 0 {
		return StateIdle
	}
	return o.Transitions[len(o.Transitions)-1]
}

// BookingOrchestratorService handles the Validate → Submit → Settle flow
type BookingOrchestratorService struct {
	email  EmailNotifier
	chat   ChatNotifier
	config BookingOrchestratorConfig
	logger *logrus.Logger

	inflight singleflight.Group
}

// NewBookingOrchestratorService creates a new orchestrator service
func NewBookingOrchestratorService(
	email EmailNotifier,
	chat ChatNotifier,
	config BookingOrchestratorConfig,
	logger *logrus.Logger,
) *BookingOrchestratorService {
	if config.DispatchTimeout <= 0 {
		config.DispatchTimeout = DefaultOrchestratorConfig().DispatchTimeout
	}
	if config.ConfirmationPath == "" {
		config.ConfirmationPath = DefaultOrchestratorConfig().ConfirmationPath
	}

	return &BookingOrchestratorService{
		email:  email,
		chat:   chat,
		config: config,
		logger: logger,
	}
}

// Settle decides the submission result from both channel results.
// One delivered channel is enough; only a double failure fails the booking.
func Settle(email Result[EmailReceipt], chat Result[ChatReceipt]) SubmissionState {
	if email.OK() || chat.OK() {
		return StateSucceeded
	}
	return StateFailed
}

// Submit runs one submission attempt to completion. It never panics.
func (s *BookingOrchestratorService) Submit(ctx context.Context, input models.BookingInput, meta models.SubmissionMeta) (outcome *SubmissionOutcome) {
	outcome = &SubmissionOutcome{
		State:       StateIdle,
		Transitions: []SubmissionState{StateIdle},
		Values:      input,
	}
	log := s.logger.WithField("request_id", meta.RequestID)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Booking submission panicked")
			s.fail(outcome, input)
		}
	}()

	s.move(outcome, log, StateValidating)

	req, errs := models.Validate(input)
	if errs.HasErrors() {
		outcome.FieldErrors = errs
		s.move(outcome, log, StateIdle)
		log.WithField("fields", fieldNames(errs)).Info("Booking rejected by validation")
		return outcome
	}

	s.move(outcome, log, StateSubmitting)

	// Identical submissions already in flight share one dispatch
	key := submissionKey(req)
	value, _, shared := s.inflight.Do(key, func() (interface{}, error) {
		return s.dispatch(ctx, req, meta), nil
	})
	settled := value.(dispatchResult)

	if shared {
		outcome.Duplicate = true
		log.Info("Duplicate booking submission joined an in-flight dispatch")
	}

	outcome.EmailSent = settled.email.OK()
	outcome.ChatSent = settled.chat.OK()

	if Settle(settled.email, settled.chat) == StateFailed {
		log.WithFields(logrus.Fields{
			"email_error": settled.email.Err.Error(),
			"chat_error":  settled.chat.Err.Error(),
		}).Error("Booking notification failed on both channels")
		s.fail(outcome, input)
		return outcome
	}

	if !outcome.EmailSent {
		log.WithField("error", settled.email.Err.Error()).Warn("Email channel failed, booking delivered by chat")
	}
	if !outcome.ChatSent {
		log.WithField("error", settled.chat.Err.Error()).Warn("Chat channel failed, booking delivered by email")
	}

	s.move(outcome, log, StateSucceeded)
	outcome.State = StateSucceeded
	outcome.Values = models.BookingInput{}
	outcome.Message = SuccessMessage
	outcome.RedirectURL = s.confirmationURL(req)
	s.move(outcome, log, StateIdle)

	return outcome
}

type dispatchResult struct {
	email Result[EmailReceipt]
	chat  Result[ChatReceipt]
}

// dispatch fans out to both channels and waits for both to finish
func (s *BookingOrchestratorService) dispatch(ctx context.Context, req models.BookingRequest, meta models.SubmissionMeta) dispatchResult {
	// The customer leaving the page must not abort a booking already underway
	dispatchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.DispatchTimeout)
	defer cancel()

	var result dispatchResult
	var g errgroup.Group

	g.Go(func() error {
		defer recoverInto(&result.email, ChannelEmail)
		result.email = s.email.Dispatch(dispatchCtx, req, meta)
		return nil
	})
	g.Go(func() error {
		defer recoverInto(&result.chat, ChannelChat)
		result.chat = s.chat.Dispatch(dispatchCtx, req, meta)
		return nil
	})

	_ = g.Wait()
	return result
}

func recoverInto[T any](result *Result[T], channel Channel) {
	if r := recover(); r != nil {
		*result = failure[T](&NotificationError{
			Channel: channel,
			Reason:  "unexpected error",
			Err:     fmt.Errorf("panic: %v", r),
		})
	}
}

func (s *BookingOrchestratorService) fail(outcome *SubmissionOutcome, input models.BookingInput) {
	if outcome.current() != StateFailed {
		outcome.Transitions = append(outcome.Transitions, StateFailed, StateIdle)
	}
	outcome.State = StateFailed
	outcome.FieldErrors = nil
	outcome.Values = input
	outcome.RedirectURL = ""
	outcome.Message = s.failureMessage()
}

func (s *BookingOrchestratorService) move(outcome *SubmissionOutcome, log *logrus.Entry, to SubmissionState) {
	from := outcome.current()
	outcome.Transitions = append(outcome.Transitions, to)
	log.WithFields(logrus.Fields{
		"from": from,
		"to":   to,
	}).Debug("Booking submission state changed")
}

func (s *BookingOrchestratorService) failureMessage() string {
	if s.config.BusinessPhone != "" {
		return fmt.Sprintf("We couldn't send your booking request. Please try again or call us on %s.", s.config.BusinessPhone)
	}
	return "We couldn't send your booking request. Please try again or call us directly."
}

func (s *BookingOrchestratorService) confirmationURL(req models.BookingRequest) string {
	params := url.Values{}
	params.Set("name", req.Name)
	params.Set("date", req.Date)
	params.Set("time", req.Time)
	return s.config.ConfirmationPath + "?" + params.Encode()
}

func submissionKey(req models.BookingRequest) string {
	return strings.Join([]string{
		strings.ToLower(req.Name),
		req.Email,
		req.Phone,
		req.Date,
		strings.ToUpper(req.Time),
		strings.ToLower(req.PickUpAddress),
		strings.ToLower(req.DropOffAddress),
		string(req.ServiceType),
		req.Instruction,
	}, "\x1f")
}

func fieldNames(errs models.FieldErrors) []string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	return names
}
