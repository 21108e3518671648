package input

import (
	"fmt"

	"github.com/simulatedsimian/joystick"
)

// joystickDevice adapts the simulatedsimian/joystick driver to the Device
// interface used by the rest of the package.
type joystickDevice struct {
	js joystick.Joystick
}

// OpenDevice opens the joystick with the given driver ID.
func OpenDevice(id int) (Device, error) {
	js, err := joystick.Open(id)
	if err != nil {
		return nil, fmt.Errorf("opening joystick %d: %w", id, err)
	}
	return &joystickDevice{js: js}, nil
}

func (d *joystickDevice) Name() string     { return d.js.Name() }
func (d *joystickDevice) AxisCount() int   { return d.js.AxisCount() }
func (d *joystickDevice) ButtonCount() int { return d.js.ButtonCount() }

func (d *joystickDevice) Read() (State, error) {
	js, err := d.js.Read()
	if err != nil {
		return State{}, err
	}

	axes := make([]int16, len(js.AxisData))
	for i, v := range js.AxisData {
		switch {
		case v > axisMax:
			axes[i] = axisMax
		case v < -axisMax-1:
			axes[i] = -axisMax - 1
		default:
			axes[i] = int16(v)
		}
	}

	return State{Axes: axes, Buttons: js.Buttons}, nil
}

func (d *joystickDevice) Close() error {
	d.js.Close()
	return nil
}
