// Package command defines the drone command vocabulary and the mapping from
// filtered joystick input onto it.
package command

import "fmt"

// Kind discriminates the command variants.
type Kind uint8

const (
	// Hover is an explicit zero-movement command. It is not "no command":
	// the drone must keep receiving stick updates or its link-loss failsafe
	// kicks in.
	Hover Kind = iota
	// Move carries the four stick channels as signed percentages.
	Move
	// Takeoff requests a normal takeoff.
	Takeoff
	// Land requests a normal landing.
	Land
	// Emergency cuts the motors immediately. It bypasses normal scheduling.
	Emergency
	// EnterSDK switches the drone into command mode. It must be sent before
	// any other command is accepted.
	EnterSDK
)

func (k Kind) String() string {
	switch k {
	case Hover:
		return "hover"
	case Move:
		return "move"
	case Takeoff:
		return "takeoff"
	case Land:
		return "land"
	case Emergency:
		return "emergency"
	case EnterSDK:
		return "enter-sdk"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind resolves a command name from configuration. Only kinds that make
// sense on a button are accepted.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "takeoff":
		return Takeoff, nil
	case "land":
		return Land, nil
	case "emergency":
		return Emergency, nil
	case "enter-sdk":
		return EnterSDK, nil
	default:
		return 0, fmt.Errorf("unknown command %q", name)
	}
}

// Vector holds the four movement channels as percentages in [-100,100].
// The field order follows the drone's rc command: roll, pitch, throttle, yaw.
type Vector struct {
	LeftRight int // roll: positive banks right
	FwdBack   int // pitch: positive flies forward
	UpDown    int // throttle: positive climbs
	Yaw       int // positive rotates clockwise
}

// Zero reports whether all four channels are at rest.
func (v Vector) Zero() bool {
	return v.LeftRight == 0 && v.FwdBack == 0 && v.UpDown == 0 && v.Yaw == 0
}

// Command is a value object; it carries no identity beyond the scheduler
// slot that briefly holds it. Vec is only meaningful when Kind is Move.
type Command struct {
	Kind Kind
	Vec  Vector
}

// Discrete reports whether the command is a one-shot action rather than a
// continuous movement update.
func (c Command) Discrete() bool {
	return c.Kind != Move && c.Kind != Hover
}
