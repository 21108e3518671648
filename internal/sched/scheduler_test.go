package sched

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GiovanniGrieco/joy/internal/command"
)

type fakeLink struct {
	mu   sync.Mutex
	sent []command.Command
	fail bool
}

func (l *fakeLink) Send(cmd command.Command) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = append(l.sent, cmd)
	if l.fail {
		return errors.New("send failed")
	}
	return nil
}

func (l *fakeLink) Close() error { return nil }

func (l *fakeLink) commands() []command.Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]command.Command(nil), l.sent...)
}

func TestScheduler_TickSendsHeartbeatWhenIdle(t *testing.T) {
	link := &fakeLink{}
	s := New(link)

	s.tick()

	sent := link.commands()
	if len(sent) != 1 {
		t.Fatalf("Expected 1 command per idle tick, got %d", len(sent))
	}
	if sent[0].Kind != command.Hover {
		t.Errorf("Expected Hover heartbeat, got %s", sent[0].Kind)
	}
}

func TestScheduler_MovementCoalescing(t *testing.T) {
	link := &fakeLink{}
	s := New(link)

	// A wiggling stick produces many mapped commands between two ticks;
	// only the latest one may go out.
	for i := 1; i <= 50; i++ {
		s.SetMovement(command.Command{Kind: command.Move, Vec: command.Vector{FwdBack: i}})
	}
	s.tick()

	sent := link.commands()
	if len(sent) != 1 {
		t.Fatalf("Expected 1 command for 50 updates, got %d", len(sent))
	}
	if sent[0].Vec.FwdBack != 50 {
		t.Errorf("Expected latest value 50, got %d", sent[0].Vec.FwdBack)
	}
}

func TestScheduler_MovementPersistsAcrossTicks(t *testing.T) {
	link := &fakeLink{}
	s := New(link)

	s.SetMovement(command.Command{Kind: command.Move, Vec: command.Vector{Yaw: 30}})
	s.tick()
	s.tick()

	sent := link.commands()
	if len(sent) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(sent))
	}
	for i, cmd := range sent {
		if cmd.Vec.Yaw != 30 {
			t.Errorf("Tick %d: expected movement re-sent as heartbeat, got %+v", i, cmd)
		}
	}
}

func TestScheduler_DiscreteIsOneShot(t *testing.T) {
	link := &fakeLink{}
	s := New(link)

	// Pressing the button twice within one tick interval still yields
	// exactly one Land command.
	s.SetDiscrete(command.Command{Kind: command.Land})
	s.SetDiscrete(command.Command{Kind: command.Land})
	s.tick()
	s.tick()

	var lands int
	for _, cmd := range link.commands() {
		if cmd.Kind == command.Land {
			lands++
		}
	}
	if lands != 1 {
		t.Errorf("Expected exactly 1 Land command, got %d", lands)
	}
}

func TestScheduler_AtMostTwoSendsPerTick(t *testing.T) {
	link := &fakeLink{}
	s := New(link)

	for i := 0; i < 20; i++ {
		s.SetMovement(command.Command{Kind: command.Move, Vec: command.Vector{UpDown: i}})
		s.SetDiscrete(command.Command{Kind: command.Takeoff})
	}
	s.tick()

	if sent := link.commands(); len(sent) != 2 {
		t.Errorf("Expected at most 2 commands per tick, got %d", len(sent))
	}
}

func TestScheduler_EmergencyBypassesTickAndClearsSlots(t *testing.T) {
	link := &fakeLink{}
	s := New(link)

	s.SetMovement(command.Command{Kind: command.Move, Vec: command.Vector{FwdBack: 80}})
	s.SetDiscrete(command.Command{Kind: command.Takeoff})

	if err := s.Emergency(); err != nil {
		t.Fatalf("Emergency failed: %v", err)
	}

	sent := link.commands()
	if len(sent) != 1 || sent[0].Kind != command.Emergency {
		t.Fatalf("Expected immediate Emergency send, got %v", sent)
	}

	// The next tick must not replay the pre-emergency state.
	s.tick()
	sent = link.commands()
	if len(sent) != 2 {
		t.Fatalf("Expected 1 command on the tick after emergency, got %d", len(sent)-1)
	}
	if sent[1].Kind != command.Hover {
		t.Errorf("Expected Hover after emergency, got %s %+v", sent[1].Kind, sent[1].Vec)
	}
}

func TestScheduler_FailedSendRetriedNextTick(t *testing.T) {
	link := &fakeLink{fail: true}
	s := New(link)

	s.SetMovement(command.Command{Kind: command.Move, Vec: command.Vector{LeftRight: 10}})
	s.tick()

	link.mu.Lock()
	link.fail = false
	link.mu.Unlock()

	s.tick()

	sent := link.commands()
	if len(sent) != 2 {
		t.Fatalf("Expected a send attempt on both ticks, got %d", len(sent))
	}
	if sent[1].Vec.LeftRight != 10 {
		t.Errorf("Expected unchanged state re-sent after failure, got %+v", sent[1])
	}
}

func TestScheduler_ObserverSeesOutcome(t *testing.T) {
	link := &fakeLink{fail: true}

	var observed []error
	s := New(link, WithSendObserver(func(_ command.Command, err error) {
		observed = append(observed, err)
	}))

	s.tick()

	if len(observed) != 1 {
		t.Fatalf("Expected 1 observation, got %d", len(observed))
	}
	if observed[0] == nil {
		t.Error("Expected observer to see the send error")
	}
}

func TestScheduler_RunBoundsRate(t *testing.T) {
	link := &fakeLink{}
	s := New(link, WithTickInterval(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Hammer the movement slot far faster than the tick.
	deadline := time.After(110 * time.Millisecond)
hammer:
	for i := 0; ; i++ {
		select {
		case <-deadline:
			break hammer
		default:
			s.SetMovement(command.Command{Kind: command.Move, Vec: command.Vector{Yaw: i % 100}})
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	sent := link.commands()
	if len(sent) == 0 {
		t.Fatal("Expected at least one transmitted command")
	}
	// ~110ms at a 20ms tick is at most 5-6 ticks; leave generous slack for
	// scheduler jitter but catch per-event flooding.
	if len(sent) > 10 {
		t.Errorf("Expected transmit rate bounded by tick interval, got %d sends", len(sent))
	}
}
