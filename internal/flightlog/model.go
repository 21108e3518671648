package flightlog

import "time"

// Session describes one piloting session with a specific joystick.
type Session struct {
	ID         int64
	StartTime  time.Time
	DeviceName string
	Mapping    string
	Config     *string // session configuration in JSON format, if recorded
}

// Record is one transmitted (or attempted) command. The movement channels
// are zero for discrete commands. SendError carries the transport error
// text when the send failed.
type Record struct {
	Timestamp time.Time
	Kind      string
	LeftRight int
	FwdBack   int
	UpDown    int
	Yaw       int
	SendError *string
}
