// Package controller owns one interview form: its values, the identity lookup
// that gates submission, and the submission pipeline.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/looplab/fsm"
	"github.com/tbxark/interviewform/form"
	"github.com/tbxark/interviewform/generate"
	"github.com/tbxark/interviewform/identity"
	"github.com/tbxark/interviewform/notice"
	"github.com/tbxark/interviewform/types"
	"github.com/tbxark/interviewform/validate"
)

const (
	MsgSubmitSuccess = "Interview generation started! View your interview shortly."
	MsgUnknownError  = "unknown error"
	MsgInvalidNumber = "enter the number of questions as a whole number"
	MsgEmptySkill    = "enter a skill before adding it"
)

// Outcome describes one Submit call. Status is the state the attempt ended in
// before settling back to idle.
type Outcome struct {
	Status    types.Status     `json:"status"`
	Ignored   bool             `json:"ignored,omitempty"`
	Rule      validate.Rule    `json:"rule,omitempty"`
	Message   string           `json:"message,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
	Result    *generate.Result `json:"result,omitempty"`
}

type Controller struct {
	mu    sync.Mutex
	store *form.Store
	last  *Outcome

	status    *fsm.FSM
	identity  identity.Source
	generator generate.Generator
	notifier  notice.Notifier
	history   *notice.Recorder
	logger    *slog.Logger
	initial   *types.FormState

	startOnce sync.Once
	resolved  chan struct{}
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNotifier adds a notifier that receives every notice next to the
// controller's own history.
func WithNotifier(n notice.Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

func WithHistory(r *notice.Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.history = r
		}
	}
}

// WithInitialState pre-fills the form. The user id of initial is ignored.
func WithInitialState(initial types.FormState) Option {
	return func(c *Controller) {
		c.initial = &initial
	}
}

func New(src identity.Source, gen generate.Generator, opts ...Option) (*Controller, error) {
	c := &Controller{
		store:     form.NewStore(),
		identity:  src,
		generator: gen,
		history:   notice.NewRecorder(notice.KeepLastN{N: 50}),
		logger:    slog.Default(),
		resolved:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.status = newStatusMachine(c.logger)
	if c.initial != nil {
		if err := c.store.Prefill(*c.initial); err != nil {
			return nil, fmt.Errorf("prefill form: %w", err)
		}
	}
	return c, nil
}

// Start launches the identity lookup. Only the first call has an effect.
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		go func() {
			defer close(c.resolved)
			c.HandleIdentity(identity.Resolve(ctx, c.identity))
		}()
	})
}

// Wait blocks until the lookup launched by Start has been handled.
func (c *Controller) Wait(ctx context.Context) error {
	select {
	case <-c.resolved:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleIdentity applies the result of an identity lookup. A user id is only
// written while none is set.
func (c *Controller) HandleIdentity(ev identity.Event) {
	if ev.UserID == "" {
		if ev.Err != nil {
			c.logger.Warn("Identity lookup failed", "error", ev.Err)
		}
		if ev.Notice != nil {
			c.notify(*ev.Notice)
		}
		return
	}

	c.mu.Lock()
	applied, err := c.store.ResolveUserID(ev.UserID)
	c.mu.Unlock()
	if err != nil {
		c.logger.Error("Recording user id failed", "error", err)
		return
	}
	c.logger.Debug("Identity resolved", "applied", applied)
}

// Refresh looks the identity up again while no user id is known. It reports
// whether the form has a user id afterwards.
func (c *Controller) Refresh(ctx context.Context) bool {
	if c.Snapshot().UserID != "" {
		return true
	}
	c.HandleIdentity(identity.Resolve(ctx, c.identity))
	return c.Snapshot().UserID != ""
}

// SetField overwrites a scalar field. An unknown field or a question count that
// is not a number is reported as a notice and leaves the form unchanged.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	err := c.store.SetField(name, value)
	c.mu.Unlock()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, form.ErrInvalidNumber):
		c.notify(notice.Warning(notice.CodeInvalidInput, MsgInvalidNumber))
	case errors.Is(err, form.ErrUnknownField):
		c.notify(notice.Warning(notice.CodeInvalidInput, err.Error()))
	default:
		c.logger.Error("Setting field failed", "field", name, "error", err)
	}
	return err
}

func (c *Controller) AddSkill(text string) (form.AddResult, error) {
	c.mu.Lock()
	res, err := c.store.AddSkill(text)
	c.mu.Unlock()
	c.reportAdd(text, res, err)
	return res, err
}

func (c *Controller) RemoveSkill(text string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.RemoveSkill(text)
}

func (c *Controller) SetPending(text string) {
	c.mu.Lock()
	c.store.SetPending(text)
	c.mu.Unlock()
}

func (c *Controller) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Pending()
}

// AddPending adds the pending skill buffer, like pressing enter in the tag input.
func (c *Controller) AddPending() (form.AddResult, error) {
	c.mu.Lock()
	pending := c.store.Pending()
	res, err := c.store.AddPending()
	c.mu.Unlock()
	c.reportAdd(pending, res, err)
	return res, err
}

func (c *Controller) reportAdd(text string, res form.AddResult, err error) {
	if err != nil {
		c.logger.Error("Adding skill failed", "skill", text, "error", err)
		return
	}
	switch res {
	case form.AddDuplicate:
		c.notify(notice.Warning(notice.CodeSkillDuplicate,
			fmt.Sprintf("%q already added", strings.TrimSpace(text))))
	case form.AddEmpty:
		c.notify(notice.Warning(notice.CodeSkillEmpty, MsgEmptySkill))
	}
}

func (c *Controller) Snapshot() types.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Snapshot()
}

func (c *Controller) Status() types.Status {
	return types.Status(c.status.Current())
}

// CanSubmit reports whether a Submit call would currently issue a request.
func (c *Controller) CanSubmit() bool {
	return c.Status() == types.StatusIdle && validate.Validate(c.Snapshot()).OK
}

func (c *Controller) LastOutcome() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return Outcome{}, false
	}
	return *c.last, true
}

func (c *Controller) Notices() []notice.Notice {
	return c.history.Notices()
}

// Unread returns the notices raised since the previous call.
func (c *Controller) Unread() []notice.Notice {
	return c.history.Unread()
}

// Submit validates the current values and sends them to the generator. While
// a submission is in flight further calls are ignored and issue no request.
// Every failure is reported as a notice; the status is idle again on return.
func (c *Controller) Submit(ctx context.Context) Outcome {
	// Status transitions must not observe the caller's cancellation.
	tctx := context.WithoutCancel(ctx)
	if err := c.status.Event(tctx, eventSubmit); err != nil {
		c.logger.Debug("Submit ignored", "status", c.status.Current(), "error", err)
		return Outcome{Status: c.Status(), Ignored: true}
	}

	snapshot := c.Snapshot()
	if res := validate.Validate(snapshot); !res.OK {
		c.transition(tctx, eventReject)
		out := Outcome{Status: types.StatusIdle, Rule: res.Rule, Message: res.Message}
		c.finish(out, notice.Warning(notice.CodeValidation, res.Message))
		return out
	}

	payload := generate.NewPayload(snapshot)
	c.logger.Info("Submitting interview request", "type", payload.Type, "level", payload.Level, "amount", payload.Amount)
	result, err := c.send(ctx, payload)
	if err != nil {
		out := Outcome{Status: types.StatusFailed, Message: failureMessage(err)}
		var re *generate.ResponseError
		if errors.As(err, &re) {
			out.RequestID = re.RequestID
		}
		c.logger.Warn("Interview request failed", "error", err, "request_id", out.RequestID)
		c.transition(tctx, eventFail)
		c.transition(tctx, eventSettle)
		c.finish(out, notice.Error(notice.CodeSubmitFailed, out.Message))
		return out
	}

	out := Outcome{Status: types.StatusSucceeded, Message: MsgSubmitSuccess, RequestID: result.RequestID, Result: result}
	c.logger.Info("Interview request accepted", "request_id", result.RequestID)
	c.transition(tctx, eventSucceed)
	c.transition(tctx, eventSettle)
	c.finish(out, notice.Success(notice.CodeSubmitSuccess, MsgSubmitSuccess))
	return out
}

func (c *Controller) send(ctx context.Context, payload generate.Payload) (res *generate.Result, err error) {
	if c.generator == nil {
		return nil, errors.New("no generation endpoint configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recover from panic: %v", r)
		}
	}()
	res, err = c.generator.Generate(ctx, payload)
	if err == nil && res == nil {
		res = &generate.Result{}
	}
	return res, err
}

func (c *Controller) transition(ctx context.Context, event string) {
	if err := c.status.Event(ctx, event); err != nil {
		c.logger.Error("Submission status transition failed", "event", event, "status", c.status.Current(), "error", err)
	}
}

func (c *Controller) finish(out Outcome, n notice.Notice) {
	c.mu.Lock()
	c.last = &out
	c.mu.Unlock()
	c.notify(n)
}

// notify must be called without holding mu so notifiers may read the form.
func (c *Controller) notify(n notice.Notice) {
	c.history.Notify(n)
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}

func failureMessage(err error) string {
	var re *generate.ResponseError
	if errors.As(err, &re) && strings.TrimSpace(re.Message) != "" {
		return re.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return MsgUnknownError
}
