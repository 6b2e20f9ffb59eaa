package slack

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	msgStarted       = "Calculation started."
	msgFinished      = "Calculation finished."
	titleCaught      = "Exception caught"
	fieldDuration    = "Duration"
	fieldErrorType   = "Error type"
	fieldCaughtType  = "Exception type"
	footerScopeLabel = "scope"
	footerWrapLabel  = "wrap"
)

type scopeConfig struct {
	name          string
	title         string
	timer         bool
	onlyOnFailure bool
	disabled      bool
	notifyStart   bool
	strict        bool
	catch         []error
	catchIf       []func(error) bool
	footerLabel   string
}

type ScopeOption func(*scopeConfig)

// WithName sets the sender name shown in the author line.
func WithName(name string) ScopeOption {
	return func(c *scopeConfig) { c.name = name }
}

// WithTitle replaces the level title on the scope's messages.
func WithTitle(title string) ScopeOption {
	return func(c *scopeConfig) { c.title = title }
}

// WithTimer controls the Duration field. On by default.
func WithTimer(on bool) ScopeOption {
	return func(c *scopeConfig) { c.timer = on }
}

// OnlyOnFailure suppresses the success message and caught-error reports.
func OnlyOnFailure() ScopeOption {
	return func(c *scopeConfig) { c.onlyOnFailure = true }
}

// Disabled turns the scope into a no-op reporter. Catch rules still apply.
func Disabled() ScopeOption {
	return func(c *scopeConfig) { c.disabled = true }
}

// NotifyStart sends an extra info message when the scope starts.
func NotifyStart() ScopeOption {
	return func(c *scopeConfig) { c.notifyStart = true }
}

// Catch lists errors (matched with errors.Is) that are reported and then
// swallowed instead of propagated.
func Catch(targets ...error) ScopeOption {
	return func(c *scopeConfig) { c.catch = append(c.catch, targets...) }
}

// CatchIf is Catch with a predicate, for matching by type with errors.As.
func CatchIf(match func(error) bool) ScopeOption {
	return func(c *scopeConfig) {
		if match != nil {
			c.catchIf = append(c.catchIf, match)
		}
	}
}

// StrictDelivery makes Finish return the DeliveryError when no user error is
// being propagated. By default delivery failures are only logged.
func StrictDelivery() ScopeOption {
	return func(c *scopeConfig) { c.strict = true }
}

func withFooterLabel(label string) ScopeOption {
	return func(c *scopeConfig) { c.footerLabel = label }
}

// Scope reports on one bounded unit of work. Populate Fields while the work
// runs; Finish sends the report. A Scope is not safe for concurrent use.
type Scope struct {
	Fields Fields

	n        *Notifier
	ctx      context.Context
	cfg      scopeConfig
	start    time.Time
	footer   string
	finished bool
}

// Start opens a scope and records the start time.
func (n *Notifier) Start(ctx context.Context, opts ...ScopeOption) *Scope {
	cfg := scopeConfig{name: defaultSenderName, timer: true, footerLabel: footerScopeLabel}
	for _, opt := range opts {
		opt(&cfg)
	}
	start := n.now()
	hash := FooterHash(cfg.name, cfg.footerLabel, start, n.origin.PID)
	s := &Scope{
		n:      n,
		ctx:    context.WithoutCancel(ctx),
		cfg:    cfg,
		start:  start,
		footer: fmt.Sprintf("%s %s #%s", defaultSenderName, cfg.footerLabel, hash),
	}
	if cfg.notifyStart && !cfg.disabled && !cfg.onlyOnFailure {
		_ = s.deliver(Message{Text: msgStarted, Level: LevelInfo})
	}
	return s
}

// SetResult replaces the fields with v normalized by NormalizeFields.
// Repeated titles in v are all kept.
func (s *Scope) SetResult(v any) {
	s.Fields.Reset()
	for _, f := range NormalizeFields(v) {
		s.Fields.Add(f)
	}
}

func (s *Scope) Footer() string {
	return s.footer
}

// Finish closes the scope with the block's outcome and sends at most one
// report. It returns err unless err matches a Catch rule, in which case it
// returns nil. Delivery failures never replace err. Calling Finish again
// returns err untouched and sends nothing.
func (s *Scope) Finish(err error) error {
	if s.finished {
		return err
	}
	s.finished = true

	fields := s.Fields.List()
	if s.cfg.timer {
		elapsed := s.n.now().Sub(s.start)
		if elapsed < 0 {
			elapsed = 0
		}
		fields = append(fields, Field{Title: fieldDuration, Value: elapsed.String(), Short: true})
	}
	quiet := s.cfg.disabled || s.cfg.onlyOnFailure

	switch {
	case err == nil:
		if quiet {
			metricSuppressedTotal.Add(1)
			return nil
		}
		return s.deliver(Message{Text: msgFinished, Level: LevelSuccess, Fields: fields})
	case s.caught(err):
		if quiet {
			metricSuppressedTotal.Add(1)
			return nil
		}
		fields = append(fields, Field{Title: fieldCaughtType, Value: errorKind(err), Short: true})
		return s.deliver(Message{Text: describeFailure(err), Level: LevelInfo, Title: titleCaught, Fields: fields})
	default:
		if s.cfg.disabled {
			metricSuppressedTotal.Add(1)
			return err
		}
		level := LevelError
		if isWarning(err) {
			level = LevelWarning
		}
		fields = append(fields, Field{Title: fieldErrorType, Value: errorKind(err), Short: true})
		_ = s.deliver(Message{Text: describeFailure(err), Level: level, Fields: fields})
		return err
	}
}

func (s *Scope) deliver(msg Message) error {
	msg.Name = s.cfg.name
	msg.Footer = s.footer
	if msg.Title == "" {
		msg.Title = s.cfg.title
	}
	id, err := s.n.Notify(s.ctx, msg)
	if err == nil {
		return nil
	}
	log.Error().
		Err(err).
		Str("delivery_id", id).
		Str("scope", s.cfg.name).
		Str("footer", s.footer).
		Msg("scope notification failed")
	if s.cfg.strict {
		return err
	}
	return nil
}

func (s *Scope) caught(err error) bool {
	for _, target := range s.cfg.catch {
		if target != nil && errors.Is(err, target) {
			return true
		}
	}
	for _, match := range s.cfg.catchIf {
		if match(err) {
			return true
		}
	}
	return false
}

// Run executes fn inside a scope. Errors returned by fn follow Finish. A
// panic is recovered, reported as a *PanicError and, unless caught,
// re-raised with its original value.
func (n *Notifier) Run(ctx context.Context, fn func(ctx context.Context, s *Scope) error, opts ...ScopeOption) (err error) {
	s := n.Start(ctx, opts...)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		perr := &PanicError{Value: r, Stack: debug.Stack()}
		ferr := s.Finish(perr)
		if ferr == error(perr) {
			panic(r)
		}
		err = ferr
	}()
	return s.Finish(fn(ctx, s))
}

type warning interface {
	Warning() bool
}

func isWarning(err error) bool {
	var w warning
	return errors.As(err, &w) && w.Warning()
}

// plainErrorTypes carry no identity beyond their message.
var plainErrorTypes = map[string]bool{
	"*errors.errorString": true,
	"*errors.joinError":   true,
	"*fmt.wrapError":      true,
	"*fmt.wrapErrors":     true,
}

// errorKind names the innermost typed error of a single-wrap chain, or the
// panic value's type. A chain made only of errors.New and fmt.Errorf values is
// named by its innermost message, which for a sentinel is its identity.
func errorKind(err error) string {
	var perr *PanicError
	if errors.As(err, &perr) {
		if inner := perr.Unwrap(); inner != nil {
			return errorKind(inner)
		}
		return fmt.Sprintf("%T", perr.Value)
	}
	var named string
	for {
		if t := fmt.Sprintf("%T", err); !plainErrorTypes[t] {
			named = t
		}
		next := errors.Unwrap(err)
		if next == nil {
			break
		}
		err = next
	}
	if named != "" {
		return named
	}
	return err.Error()
}

func describeFailure(err error) string {
	var perr *PanicError
	if errors.As(err, &perr) {
		return fmt.Sprintf("```panic: %v\n\n%s```", perr.Value, perr.Stack)
	}
	return fmt.Sprintf("```%v```", err)
}
