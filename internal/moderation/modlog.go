package moderation

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/PancyStudios/SentryBot/pkg/errors"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

// Entry is a completed moderation action as reported to log sinks.
type Entry struct {
	GuildID   string    `json:"guildId"`
	Kind      Kind      `json:"action"`
	Target    Subject   `json:"target"`
	Moderator Subject   `json:"moderator"`
	Reason    string    `json:"reason"`
	Extra     string    `json:"extra,omitempty"`
	At        time.Time `json:"at"`
}

// Line is the console rendering of the entry.
func (e Entry) Line() string {
	line := fmt.Sprintf("%s | Target: %s | Moderator: %s | Reason: %s",
		StyleFor(e.Kind).Name, e.Target.Label(), e.Moderator.Tag, e.Reason)
	if e.Extra != "" {
		line += " | " + e.Extra
	}
	return line
}

// Sink receives log entries. Publish failures are advisory only.
type Sink interface {
	Name() string
	Publish(ctx context.Context, e Entry) error
}

type sinkFunc struct {
	name string
	fn   func(ctx context.Context, e Entry) error
}

func (s sinkFunc) Name() string                               { return s.name }
func (s sinkFunc) Publish(ctx context.Context, e Entry) error { return s.fn(ctx, e) }

// NewSink adapts a function to the Sink interface.
func NewSink(name string, fn func(ctx context.Context, e Entry) error) Sink {
	return sinkFunc{name: name, fn: fn}
}

// Advisory is the discardable outcome of a best-effort step.
type Advisory struct {
	Step string
	Err  error
}

func (a Advisory) OK() bool { return a.Err == nil }

// Attempt runs a best-effort step. Failures and panics are logged and
// returned, never propagated.
func Attempt(step string, fn func() error) (adv Advisory) {
	adv.Step = step
	defer func() {
		if r := recover(); r != nil {
			apperrors.Capture("Moderation", r)
			adv.Err = fmt.Errorf("%s panicked: %v", step, r)
		}
	}()
	if err := fn(); err != nil {
		logger.Warn(fmt.Sprintf("%s failed: %v", step, err), "Moderation")
		adv.Err = err
	}
	return adv
}

// Delivery tracks an in-flight fan-out to sinks.
type Delivery struct {
	done       chan struct{}
	advisories []Advisory
}

// Wait blocks until every sink returned. Safe on a nil Delivery.
func (d *Delivery) Wait() []Advisory {
	if d == nil {
		return nil
	}
	<-d.done
	return d.advisories
}

// ModLogger reports completed actions to the console and to its sinks.
type ModLogger struct {
	sinks   []Sink
	timeout time.Duration
}

// NewModLogger creates a logger fanning out to sinks.
func NewModLogger(sinks ...Sink) *ModLogger {
	return &ModLogger{sinks: sinks, timeout: 10 * time.Second}
}

// Log writes the console line and starts publishing to every sink in the
// background. The returned Delivery may be ignored.
func (l *ModLogger) Log(ctx context.Context, e Entry) *Delivery {
	logger.Info(e.Line(), "Moderation")

	d := &Delivery{
		done:       make(chan struct{}),
		advisories: make([]Advisory, len(l.sinks)),
	}

	// Sinks outlive the interaction that triggered them.
	base := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i, sink := range l.sinks {
		wg.Add(1)
		go func(i int, sink Sink) {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(base, l.timeout)
			defer cancel()
			d.advisories[i] = Attempt("mod log sink "+sink.Name(), func() error {
				return sink.Publish(sctx, e)
			})
		}(i, sink)
	}

	go func() {
		wg.Wait()
		close(d.done)
	}()
	return d
}
