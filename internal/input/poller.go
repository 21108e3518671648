package input

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

const defaultPollInterval = 10 * time.Millisecond

// WithLogger sets the logger for the poller.
func WithLogger(logger *slog.Logger) func(*Poller) {
	return func(p *Poller) {
		p.logger = logger.With(slog.String("device", p.dev.Name()))
	}
}

// WithPollInterval sets the sleep between device reads. It should be kept
// below the dispatcher's tick interval so a fresh snapshot is available at
// every tick.
func WithPollInterval(interval time.Duration) func(*Poller) {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// Poller repeatedly reads the full device state and reports it to the
// supplied callbacks: onState receives the complete axis snapshot on every
// poll, onPress receives the index of each button on its press edge.
// Callbacks run on the poll goroutine, so they must be quick.
type Poller struct {
	dev      Device
	interval time.Duration

	onState func(axes []int16)
	onPress func(button int)

	prevButtons uint32
	logger      *slog.Logger
}

// NewPoller creates a Poller for dev. onState and onPress may be nil if the
// caller has no use for that stream.
func NewPoller(dev Device, onState func(axes []int16), onPress func(button int), options ...func(*Poller)) *Poller {
	p := Poller{
		dev:      dev,
		interval: defaultPollInterval,
		onState:  onState,
		onPress:  onPress,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&p)
	}

	return &p
}

// Run polls the device until ctx is cancelled or the device fails. A device
// read error is fatal to the session: there is no safe way to keep flying
// without input, so Run surfaces the error and stops.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("input polling started")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("input polling stopped")
			return nil
		case <-ticker.C:
		}

		state, err := p.dev.Read()
		if err != nil {
			return fmt.Errorf("reading joystick state: %w", err)
		}

		p.dispatch(state)
	}
}

func (p *Poller) dispatch(state State) {
	if p.onPress != nil {
		pressed := state.Buttons &^ p.prevButtons
		for i := 0; pressed != 0; i++ {
			if pressed&1 != 0 {
				p.onPress(i)
			}
			pressed >>= 1
		}
	}
	p.prevButtons = state.Buttons

	if p.onState != nil {
		p.onState(state.Axes)
	}
}
