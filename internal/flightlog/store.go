// Package flightlog persists piloting sessions and the commands sent during
// them to a local sqlite database. It sits off the dispatch path: the core
// control loop works unchanged when no flight log is configured.
package flightlog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const (
	insertSessionSQL = `
INSERT INTO sessions (start_time, device_name, mapping, config)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?)`

	insertCommandSQL = `
INSERT INTO commands (session_id, timestamp, kind, left_right, fwd_back, up_down, yaw, send_error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	selectSessionSQL = `
SELECT id, start_time, device_name, mapping, config
FROM sessions
WHERE id = ?`

	selectLastSessionSQL = `
SELECT id, start_time, device_name, mapping, config
FROM sessions
ORDER BY id DESC
LIMIT 1`

	selectCommandsSQL = `
SELECT timestamp, kind, left_right, fwd_back, up_down, yaw, send_error
FROM commands
WHERE session_id = ?
ORDER BY timestamp, id`
)

// Store handles flight log database operations. Write and read connections
// are opened lazily and independently, so a render-only consumer never
// touches the schema.
type Store struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// New creates a Store for the database at dbPath. No connection is opened
// until the first operation.
func New(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

func (s *Store) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(schemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *Store) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// CreateSession records the start of a new piloting session and returns its
// ID. config may be a string, []byte or any JSON-serializable value.
func (s *Store) CreateSession(ctx context.Context, deviceName, mapping string, config any) (sessionID int64, err error) {
	var configData sql.NullString
	switch c := config.(type) {
	case nil:
	case string:
		configData = sql.NullString{String: c, Valid: true}
	case []byte:
		configData = sql.NullString{String: string(c), Valid: true}
	default:
		var p []byte
		if p, err = json.Marshal(config); err != nil {
			return 0, fmt.Errorf("marshaling config: %w", err)
		}
		configData = sql.NullString{String: string(p), Valid: true}
	}

	db, err := s.getWriteDB()
	if err != nil {
		return 0, err
	}

	result, err := db.ExecContext(ctx, insertSessionSQL, deviceName, mapping, configData)
	if err != nil {
		return 0, fmt.Errorf("inserting session: %w", err)
	}

	if sessionID, err = result.LastInsertId(); err != nil {
		return 0, fmt.Errorf("getting session ID: %w", err)
	}
	return sessionID, nil
}

// InsertRecord stores one command transmission attempt.
func (s *Store) InsertRecord(ctx context.Context, sessionID int64, r Record) error {
	db, err := s.getWriteDB()
	if err != nil {
		return err
	}

	var sendError sql.NullString
	if r.SendError != nil {
		sendError = sql.NullString{String: *r.SendError, Valid: true}
	}

	_, err = db.ExecContext(ctx, insertCommandSQL,
		sessionID, r.Timestamp.UTC(), r.Kind,
		r.LeftRight, r.FwdBack, r.UpDown, r.Yaw,
		sendError)
	if err != nil {
		return fmt.Errorf("inserting command: %w", err)
	}
	return nil
}

// Session retrieves a session by ID. id 0 selects the most recent session.
func (s *Store) Session(ctx context.Context, id int64) (*Session, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, err
	}

	query, args := selectSessionSQL, []any{id}
	if id == 0 {
		query, args = selectLastSessionSQL, nil
	}

	var sess Session
	var config sql.NullString
	err = db.QueryRowContext(ctx, query, args...).
		Scan(&sess.ID, &sess.StartTime, &sess.DeviceName, &sess.Mapping, &config)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	if config.Valid {
		sess.Config = &config.String
	}

	return &sess, nil
}

// Commands returns every command recorded for the session in send order.
func (s *Store) Commands(ctx context.Context, sessionID int64) (records []Record, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectCommandsSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying commands: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var r Record
		var sendError sql.NullString
		if err = rows.Scan(&r.Timestamp, &r.Kind, &r.LeftRight, &r.FwdBack, &r.UpDown, &r.Yaw, &sendError); err != nil {
			return nil, fmt.Errorf("scanning command: %w", err)
		}
		if sendError.Valid {
			r.SendError = &sendError.String
		}
		records = append(records, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading commands: %w", err)
	}

	return records, nil
}

// Close releases both database connections. It is safe to call Close
// multiple times.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.writeDB != nil {
			if err := s.writeDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing write connection: %w", err))
			}
		}
		if s.readDB != nil {
			if err := s.readDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("closing read connection: %w", err))
			}
		}
		s.closeErr = errors.Join(errs...)
	})

	return s.closeErr
}

func closeWithError(c io.Closer, err *error) {
	if cErr := c.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
