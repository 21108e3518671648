package command

import "fmt"

// AxisLayout names the device axis index feeding each movement channel.
// Inverted axes flip sign before mapping, for sticks where pushing forward
// reports a negative value.
type AxisLayout struct {
	Roll, Pitch, Throttle, Yaw int

	InvertRoll, InvertPitch, InvertThrottle, InvertYaw bool
}

// Mapping ties a named joystick model to an axis layout and a static
// button-to-command table.
type Mapping struct {
	Name    string
	Axes    AxisLayout
	Buttons map[int]Kind
}

// Built-in mappings for known controllers. Axis and button indexes follow
// the Linux joystick driver numbering for each model.
var mappings = map[string]Mapping{
	"xbox": {
		Name: "xbox",
		Axes: AxisLayout{
			Roll: 0, Pitch: 1, Yaw: 3, Throttle: 4,
			InvertPitch: true, InvertThrottle: true,
		},
		Buttons: map[int]Kind{
			0: Emergency, // A
			3: EnterSDK,  // Y
			6: Land,      // Select
			7: Takeoff,   // Start
		},
	},
	"dualshock4": {
		Name: "dualshock4",
		Axes: AxisLayout{
			Yaw: 0, Throttle: 1, Roll: 3, Pitch: 4,
			InvertPitch: true, InvertThrottle: true,
		},
		Buttons: map[int]Kind{
			0: Land,      // X
			1: Emergency, // Circle
			2: Takeoff,   // Triangle
			3: EnterSDK,  // Square
		},
	},
	"hotas-x": {
		Name: "hotas-x",
		Axes: AxisLayout{
			Roll: 0, Pitch: 1, Throttle: 2, Yaw: 4,
			InvertPitch: true, InvertThrottle: true,
		},
		Buttons: map[int]Kind{
			4: EnterSDK,  // Square
			5: Land,      // X
			6: Emergency, // Circle
			7: Takeoff,   // Triangle
		},
	},
}

// MappingByName returns a copy of the named built-in mapping.
func MappingByName(name string) (Mapping, error) {
	m, ok := mappings[name]
	if !ok {
		return Mapping{}, fmt.Errorf("unknown joystick mapping %q", name)
	}

	buttons := make(map[int]Kind, len(m.Buttons))
	for b, k := range m.Buttons {
		buttons[b] = k
	}
	m.Buttons = buttons
	return m, nil
}

// MappingNames lists the built-in mapping names, for error messages.
func MappingNames() []string {
	names := make([]string, 0, len(mappings))
	for name := range mappings {
		names = append(names, name)
	}
	return names
}
