package command

import (
	"io"
	"log/slog"
	"math"

	"github.com/GiovanniGrieco/joy/internal/input"
)

// WithLogger sets the logger for the mapper.
func WithLogger(logger *slog.Logger) func(*Mapper) {
	return func(m *Mapper) {
		m.logger = logger
	}
}

// Mapper converts filtered joystick input into drone commands. Button
// presses map through a static table to discrete commands; the axis snapshot
// maps to a Move vector, or Hover when every channel is at rest.
type Mapper struct {
	filter  *input.Filter
	mapping Mapping
	logger  *slog.Logger
}

// NewMapper creates a Mapper using the given dead-zone filter and device
// mapping.
func NewMapper(filter *input.Filter, mapping Mapping, options ...func(*Mapper)) *Mapper {
	m := Mapper{
		filter:  filter,
		mapping: mapping,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&m)
	}

	return &m
}

// MapButton resolves a pressed button to its discrete command. Unmapped
// buttons produce no command; that is operator noise, not an error.
func (m *Mapper) MapButton(button int) (Command, bool) {
	kind, ok := m.mapping.Buttons[button]
	if !ok {
		m.logger.Debug("unmapped button ignored", slog.Int("button", button))
		return Command{}, false
	}
	return Command{Kind: kind}, true
}

// MapAxes derives the movement command from a full axis snapshot. Axes the
// mapping points at but the device does not report are treated as centred.
func (m *Mapper) MapAxes(axes []int16) Command {
	l := m.mapping.Axes
	vec := Vector{
		LeftRight: m.channel(axes, l.Roll, l.InvertRoll),
		FwdBack:   m.channel(axes, l.Pitch, l.InvertPitch),
		UpDown:    m.channel(axes, l.Throttle, l.InvertThrottle),
		Yaw:       m.channel(axes, l.Yaw, l.InvertYaw),
	}

	if vec.Zero() {
		return Command{Kind: Hover}
	}
	return Command{Kind: Move, Vec: vec}
}

func (m *Mapper) channel(axes []int16, axis int, invert bool) int {
	if axis < 0 || axis >= len(axes) {
		m.logger.Debug("axis not reported by device", slog.Int("axis", axis))
		return 0
	}

	v := m.filter.Apply(axis, axes[axis])
	if invert {
		v = -v
	}
	return int(math.Round(v * 100))
}
