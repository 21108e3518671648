// Package drone serializes commands into the Tello text control protocol
// and transmits them over the drone's UDP control endpoint.
package drone

import (
	"fmt"

	"github.com/GiovanniGrieco/joy/internal/command"
)

// Encode renders a command as a Tello SDK control string. Movement uses the
// rc command with the four channels as signed percentages; Hover is an rc
// update with all channels at zero, which doubles as the link heartbeat.
func Encode(c command.Command) (string, error) {
	switch c.Kind {
	case command.Hover:
		return "rc 0 0 0 0", nil
	case command.Move:
		v := c.Vec
		return fmt.Sprintf("rc %d %d %d %d", v.LeftRight, v.FwdBack, v.UpDown, v.Yaw), nil
	case command.Takeoff:
		return "takeoff", nil
	case command.Land:
		return "land", nil
	case command.Emergency:
		return "emergency", nil
	case command.EnterSDK:
		return "command", nil
	default:
		return "", fmt.Errorf("cannot encode command kind %s", c.Kind)
	}
}
