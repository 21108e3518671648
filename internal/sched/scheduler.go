// Package sched bounds the outbound command rate. However fast the joystick
// produces input, the drone sees at most one discrete and one movement
// command per tick, and always sees the latest operator intent.
package sched

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/GiovanniGrieco/joy/internal/command"
	"github.com/GiovanniGrieco/joy/internal/drone"
)

// DefaultTickInterval matches the stick update cadence Tello-class drones
// expect; slower than ~100ms risks tripping the drone's link-loss failsafe.
const DefaultTickInterval = 50 * time.Millisecond

// WithLogger sets the logger for the scheduler.
func WithLogger(logger *slog.Logger) func(*Scheduler) {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithTickInterval sets the dispatch cadence.
func WithTickInterval(interval time.Duration) func(*Scheduler) {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithSendObserver registers a hook invoked after every transmit attempt,
// on the dispatch goroutine. Observers must not block.
func WithSendObserver(fn func(cmd command.Command, err error)) func(*Scheduler) {
	return func(s *Scheduler) {
		s.observer = fn
	}
}

// Scheduler coalesces mapped commands into two single-command slots and
// drains them on a fixed tick. The movement slot always reflects the latest
// stick state and is re-sent every tick as the link heartbeat; the discrete
// slot is one-shot. Emergency bypasses the tick entirely.
type Scheduler struct {
	link     drone.Link
	interval time.Duration
	observer func(command.Command, error)
	logger   *slog.Logger

	mu       sync.Mutex
	movement *command.Command
	discrete *command.Command
}

// New creates a Scheduler dispatching over link.
func New(link drone.Link, options ...func(*Scheduler)) *Scheduler {
	s := Scheduler{
		link:     link,
		interval: DefaultTickInterval,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

// SetMovement overwrites the movement slot with the latest Move or Hover.
// Calls between two ticks coalesce; only the final value is transmitted.
func (s *Scheduler) SetMovement(cmd command.Command) {
	s.mu.Lock()
	s.movement = &cmd
	s.mu.Unlock()
}

// SetDiscrete overwrites the discrete slot. A button mashed faster than the
// tick still yields a single transmitted command.
func (s *Scheduler) SetDiscrete(cmd command.Command) {
	s.mu.Lock()
	s.discrete = &cmd
	s.mu.Unlock()
}

// Emergency sends the emergency stop immediately, outside the tick cadence,
// and clears both slots so no stale command follows the stop.
func (s *Scheduler) Emergency() error {
	s.mu.Lock()
	s.movement = nil
	s.discrete = nil
	s.mu.Unlock()

	s.logger.Warn("emergency stop")
	return s.send(command.Command{Kind: command.Emergency})
}

// Run drives the tick loop until ctx is cancelled. Transport errors are
// logged and the loop continues; the next tick retries with current state.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("dispatch loop started", slog.Duration("tick", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("dispatch loop stopped")
			return nil
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick drains the discrete slot, then transmits the current movement state.
// Movement falls back to Hover so every tick produces a heartbeat.
func (s *Scheduler) tick() {
	s.mu.Lock()
	discrete := s.discrete
	s.discrete = nil

	movement := command.Command{Kind: command.Hover}
	if s.movement != nil {
		movement = *s.movement
	}
	s.mu.Unlock()

	if discrete != nil {
		if err := s.send(*discrete); err != nil {
			s.logger.Error("sending command failed", slog.String("kind", discrete.Kind.String()), slog.Any("error", err))
		}
	}

	if err := s.send(movement); err != nil {
		s.logger.Error("sending movement failed", slog.Any("error", err))
	}
}

func (s *Scheduler) send(cmd command.Command) error {
	err := s.link.Send(cmd)
	if s.observer != nil {
		s.observer(cmd, err)
	}
	return err
}
