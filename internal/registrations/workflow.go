package registrations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tsunagu-circle/backend/internal/i18n"
	"github.com/tsunagu-circle/backend/internal/models"
	"github.com/tsunagu-circle/backend/internal/platform"
)

const registerRoutine = "register_for_event"

// Reason tags from the platform routine's result record.
const (
	reasonFull    = "full"
	reasonInvalid = "invalid"
)

// CallResult is the structured result of the registration routine.
type CallResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// EventSource resolves events by slug.
type EventSource interface {
	GetBySlug(ctx context.Context, slug string) (*models.Event, error)
}

// Registrar issues the atomic register-or-reject call.
type Registrar interface {
	Register(ctx context.Context, eventID int64, f Form) (CallResult, error)
}

// Notifier publishes availability changes to interested viewers.
type Notifier interface {
	AvailabilityChanged(eventID int64, a Availability)
}

// OutcomeStatus classifies a submission attempt.
type OutcomeStatus string

const (
	// OutcomeSucceeded is terminal: the form never re-opens.
	OutcomeSucceeded OutcomeStatus = "succeeded"
	// OutcomeRejectedValidation reports the first failing field; no remote
	// call was issued.
	OutcomeRejectedValidation OutcomeStatus = "rejected_validation"
	// OutcomeRejectedUnavailable means availability was not Open at submit
	// time (full, ended, or unknown); no remote call was issued.
	OutcomeRejectedUnavailable OutcomeStatus = "rejected_unavailable"
	// OutcomeRejectedFull is the platform's authoritative capacity rejection.
	OutcomeRejectedFull OutcomeStatus = "rejected_full"
	// OutcomeRejectedInvalid means the event id no longer resolves.
	OutcomeRejectedInvalid OutcomeStatus = "rejected_invalid"
	// OutcomeRejectedError is a transport or unrecognized failure. Never
	// retried automatically; the applicant re-triggers.
	OutcomeRejectedError OutcomeStatus = "rejected_error"
)

// Outcome is the result of one submission attempt.
type Outcome struct {
	Status       OutcomeStatus `json:"status"`
	Field        string        `json:"field,omitempty"`
	Message      string        `json:"message"`
	Availability *Availability `json:"availability,omitempty"`
}

// Workflow orchestrates the capacity-safe registration: load event and count,
// derive availability, validate, submit the single atomic call, and fold the
// structured result back into availability state.
type Workflow struct {
	source    EventSource
	oracle    CountOracle
	registrar Registrar
	notify    Notifier // may be nil
	logger    *zap.Logger
	now       func() time.Time
}

// NewWorkflow creates a registration workflow. notify may be nil.
func NewWorkflow(source EventSource, oracle CountOracle, registrar Registrar, notify Notifier, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		source:    source,
		oracle:    oracle,
		registrar: registrar,
		notify:    notify,
		logger:    logger,
		now:       time.Now,
	}
}

// Availability resolves the event behind slug and its current availability.
// The count is only consulted once the event (and therefore its capacity) is
// known. Errors are event-fetch errors; count failures degrade to Unknown.
func (w *Workflow) Availability(ctx context.Context, slug string) (*models.Event, Availability, error) {
	ev, err := w.source.GetBySlug(ctx, slug)
	if err != nil {
		return nil, Availability{}, err
	}
	return ev, ResolveAvailability(ctx, ev, w.oracle, w.now()), nil
}

// Submit runs one registration attempt. The returned error is only for
// event-resolution failures (not found, platform unreachable); every other
// path is an Outcome. At most one registration call is issued per invocation,
// and only when availability is Open and validation passed.
func (w *Workflow) Submit(ctx context.Context, lang i18n.Lang, slug string, form Form) (*Outcome, error) {
	ev, err := w.source.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	avail := ResolveAvailability(ctx, ev, w.oracle, w.now())
	if !avail.Registrable() {
		return &Outcome{
			Status:       OutcomeRejectedUnavailable,
			Message:      w.unavailableMessage(lang, avail.Status),
			Availability: &avail,
		}, nil
	}

	form.Normalize()
	if fe := form.Validate(lang); fe != nil {
		return &Outcome{
			Status:  OutcomeRejectedValidation,
			Field:   fe.Field,
			Message: fe.Message,
		}, nil
	}

	result, err := w.registrar.Register(ctx, ev.ID, form)
	if err != nil {
		// Surfaced, not retried: a human re-triggers after a transient
		// failure.
		w.logger.Error("registration call failed", zap.Error(err), zap.Int64("event_id", ev.ID))
		return &Outcome{
			Status:  OutcomeRejectedError,
			Message: i18n.T(lang, i18n.MsgGenericError),
		}, nil
	}

	if result.OK {
		w.oracle.Invalidate(ctx, ev.ID)
		after := ResolveAvailability(ctx, ev, w.oracle, w.now())
		w.broadcast(ev.ID, after)
		return &Outcome{
			Status:       OutcomeSucceeded,
			Message:      i18n.T(lang, i18n.MsgRegistered),
			Availability: &after,
		}, nil
	}

	switch result.Reason {
	case reasonFull:
		// Authoritative: override any stale count and flip the UI to Full.
		forced := fullAvailability(ev.Capacity)
		w.oracle.Invalidate(ctx, ev.ID)
		w.broadcast(ev.ID, forced)
		return &Outcome{
			Status:       OutcomeRejectedFull,
			Message:      i18n.T(lang, i18n.MsgEventFull),
			Availability: &forced,
		}, nil
	case reasonInvalid:
		return &Outcome{
			Status:  OutcomeRejectedInvalid,
			Message: i18n.T(lang, i18n.MsgEventNotFound),
		}, nil
	default:
		w.logger.Warn("registration rejected with unrecognized reason",
			zap.String("reason", result.Reason), zap.Int64("event_id", ev.ID))
		return &Outcome{
			Status:  OutcomeRejectedError,
			Message: i18n.T(lang, i18n.MsgGenericError),
		}, nil
	}
}

func (w *Workflow) unavailableMessage(lang i18n.Lang, s Status) string {
	switch s {
	case StatusFull:
		return i18n.T(lang, i18n.MsgEventFull)
	case StatusEnded:
		return i18n.T(lang, i18n.MsgEventEnded)
	default:
		return i18n.T(lang, i18n.MsgSeatsUnknown)
	}
}

func (w *Workflow) broadcast(eventID int64, a Availability) {
	if w.notify != nil {
		w.notify.AvailabilityChanged(eventID, a)
	}
}

// PlatformRegistrar issues register_for_event through the platform client.
type PlatformRegistrar struct {
	caller rpcCaller
}

// NewPlatformRegistrar creates the production registrar.
func NewPlatformRegistrar(caller rpcCaller) *PlatformRegistrar {
	return &PlatformRegistrar{caller: caller}
}

// Register performs the single atomic capacity-check-and-insert call. The
// routine returns a jsonb record {ok, reason?}; argument order mirrors the
// routine's signature.
func (r *PlatformRegistrar) Register(ctx context.Context, eventID int64, f Form) (CallResult, error) {
	args := platform.NamedArgs{
		{Name: "p_event_id", Value: eventID},
		{Name: "p_campus", Value: string(f.Campus)},
		{Name: "p_name", Value: f.Name},
		{Name: "p_phone", Value: f.Phone},
		{Name: "p_hometown", Value: f.Hometown},
		{Name: "p_japanese_level", Value: string(f.JapaneseLevel)},
		{Name: "p_japanese_motivation", Value: string(f.Motivation)},
		{Name: "p_english_level", Value: string(f.EnglishLevel)},
	}
	var raw []byte
	if err := r.caller.Call(ctx, registerRoutine, args, &raw); err != nil {
		return CallResult{}, err
	}
	var result CallResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return CallResult{}, fmt.Errorf("decode %s result: %w", registerRoutine, err)
	}
	return result, nil
}
