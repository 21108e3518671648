package drone

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/GiovanniGrieco/joy/internal/command"
)

const (
	// DefaultHost and DefaultPort address the Tello control endpoint when it
	// acts as a WiFi access point.
	DefaultHost = "192.168.10.1"
	DefaultPort = 8889

	defaultSendTimeout = 200 * time.Millisecond
)

// Link transmits encoded commands to the drone. Send failures are
// recoverable: the caller's next dispatch supersedes the lost command, so no
// retry queue is kept anywhere.
type Link interface {
	Send(cmd command.Command) error
	Close() error
}

// WithLogger sets the logger for the link.
func WithLogger(logger *slog.Logger) func(*UDPLink) {
	return func(l *UDPLink) {
		l.logger = logger
	}
}

// WithSendTimeout bounds a single datagram write. A blocked send must not
// stall the dispatch loop longer than this.
func WithSendTimeout(timeout time.Duration) func(*UDPLink) {
	return func(l *UDPLink) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

// UDPLink sends command strings over an established UDP socket to a fixed
// drone address.
type UDPLink struct {
	conn    *net.UDPConn
	timeout time.Duration
	logger  *slog.Logger
}

// Dial resolves the drone control address and opens the UDP socket.
func Dial(host string, port int, options ...func(*UDPLink)) (*UDPLink, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("resolving drone address: %w", err)
	}

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to drone: %w", err)
	}

	l := UDPLink{
		conn:    conn,
		timeout: defaultSendTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&l)
	}

	return &l, nil
}

// Send serializes cmd and writes it as a single datagram.
func (l *UDPLink) Send(cmd command.Command) error {
	payload, err := Encode(cmd)
	if err != nil {
		return err
	}

	if err := l.conn.SetWriteDeadline(time.Now().Add(l.timeout)); err != nil {
		return fmt.Errorf("setting send deadline: %w", err)
	}
	if _, err := l.conn.Write([]byte(payload)); err != nil {
		return fmt.Errorf("sending %q: %w", payload, err)
	}

	l.logger.Debug("command sent", slog.String("payload", payload))
	return nil
}

// Close releases the socket. The link cannot be reused afterwards.
func (l *UDPLink) Close() error {
	return l.conn.Close()
}
