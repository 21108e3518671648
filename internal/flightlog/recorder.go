package flightlog

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/GiovanniGrieco/joy/internal/command"
)

const recorderBuffer = 256

// WithRecorderLogger sets the logger for the recorder.
func WithRecorderLogger(logger *slog.Logger) func(*Recorder) {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// Recorder decouples flight log writes from the dispatch loop. Observe is
// safe to call from the dispatch goroutine: records go through a buffered
// channel to a writer goroutine, and are dropped rather than ever blocking
// the control path.
type Recorder struct {
	store     *Store
	sessionID int64
	logger    *slog.Logger

	records chan Record
	done    sync.WaitGroup
	once    sync.Once
}

// NewRecorder creates a Recorder appending to the given session and starts
// its writer goroutine.
func NewRecorder(store *Store, sessionID int64, options ...func(*Recorder)) *Recorder {
	r := Recorder{
		store:     store,
		sessionID: sessionID,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		records:   make(chan Record, recorderBuffer),
	}

	for _, option := range options {
		option(&r)
	}

	r.done.Add(1)
	go r.writeLoop()

	return &r
}

// Observe records the outcome of one transmit attempt. It never blocks.
func (r *Recorder) Observe(cmd command.Command, sendErr error) {
	rec := Record{
		Timestamp: time.Now(),
		Kind:      cmd.Kind.String(),
		LeftRight: cmd.Vec.LeftRight,
		FwdBack:   cmd.Vec.FwdBack,
		UpDown:    cmd.Vec.UpDown,
		Yaw:       cmd.Vec.Yaw,
	}
	if sendErr != nil {
		msg := sendErr.Error()
		rec.SendError = &msg
	}

	select {
	case r.records <- rec:
	default:
		r.logger.Warn("flight log buffer full, dropping record", slog.String("kind", rec.Kind))
	}
}

// Close stops accepting records, waits for buffered ones to be written and
// returns. The underlying store is left open; the caller owns it.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.records)
	})
	r.done.Wait()
}

func (r *Recorder) writeLoop() {
	defer r.done.Done()

	for rec := range r.records {
		if err := r.store.InsertRecord(context.Background(), r.sessionID, rec); err != nil {
			r.logger.Error("writing flight log record", slog.Any("error", err))
		}
	}
}
