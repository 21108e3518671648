// Package input reads raw joystick state and turns it into normalized,
// dead-zone filtered axis values plus button press edges. It only requires
// a minimal Device surface, so device discovery and driver binding stay
// outside the package.
package input

// State is a full snapshot of the device controls at one poll. Axis values
// are in the device-native range (-32768..32767). A snapshot is transient;
// the poll loop consumes it once and derives button edges by diffing against
// the previous one.
type State struct {
	Axes    []int16
	Buttons uint32 // bitmask, bit N set while button N is held
}

// Device is the boundary to the joystick driver. Read returns the complete
// current state of the device; it may block briefly but must not block
// longer than the driver's own poll granularity.
type Device interface {
	Name() string
	AxisCount() int
	ButtonCount() int
	Read() (State, error)
	Close() error
}
