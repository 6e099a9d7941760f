// Package store persists recorded telemetry sessions.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"traces/pkg/db"
	"traces/pkg/sim"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02 15:04:05.000000000"

// Session describes one recording.
type Session struct {
	ID         string    `json:"id"`
	SampleRate int       `json:"sample_rate"`
	FocusedCar int       `json:"focused_car"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	Samples    int       `json:"samples"`
}

// Store is the repository used by the recorder and the replay client.
type Store interface {
	CreateSession(ctx context.Context, sampleRate, focusedCar int, note string) (Session, error)
	AppendSamples(ctx context.Context, sessionID string, firstSeq int, frames []sim.Telemetry) error
	GetSession(ctx context.Context, id string) (Session, error)
	ListSessions(ctx context.Context) ([]Session, error)
	LoadSamples(ctx context.Context, sessionID string) ([]sim.Telemetry, error)
	Close() error
}

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(d *db.DB) *SQLiteStore {
	return &SQLiteStore{db: d}
}

// Open initializes the database at path and wraps it in a store.
func Open(path string) (*SQLiteStore, error) {
	d, err := db.Init(path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(d), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Sessions ---

func (s *SQLiteStore) CreateSession(ctx context.Context, sampleRate, focusedCar int, note string) (Session, error) {
	sess := Session{
		ID:         uuid.New().String(),
		SampleRate: sampleRate,
		FocusedCar: focusedCar,
		Note:       note,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (id, sample_rate, focused_car, note, created_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.SampleRate, sess.FocusedCar, sess.Note, sess.CreatedAt.Format(timeLayout))
	if err != nil {
		return Session{}, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, sessionQuery+` WHERE s.id = ? GROUP BY s.id`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, err
}

func (s *SQLiteStore) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, sessionQuery+` GROUP BY s.id ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

const sessionQuery = `SELECT s.id, s.sample_rate, s.focused_car, s.note, s.created_at, count(x.seq)
	FROM session s LEFT JOIN sample x ON x.session_id = s.id`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var sess Session
	var created string
	if err := row.Scan(&sess.ID, &sess.SampleRate, &sess.FocusedCar, &sess.Note, &created, &sess.Samples); err != nil {
		return Session{}, err
	}
	t, err := parseTime(created)
	if err != nil {
		return Session{}, fmt.Errorf("session %s: %w", sess.ID, err)
	}
	sess.CreatedAt = t
	return sess, nil
}

// parseTime reads created_at. Databases made before the column became TEXT
// hand back DATETIME values as RFC3339.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_at %q", s)
	}
	return t.UTC(), nil
}

// --- Samples ---

// AppendSamples writes frames with consecutive sequence numbers starting at
// firstSeq in a single transaction.
func (s *SQLiteStore) AppendSamples(ctx context.Context, sessionID string, firstSeq int, frames []sim.Telemetry) error {
	if len(frames) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sample (session_id, seq, throttle, brake, clutch, steering, ffb, speed_kmh, gear, time_mul)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range frames {
		f := &frames[i]
		if _, err := stmt.ExecContext(ctx, sessionID, firstSeq+i,
			f.Throttle, f.Brake, f.Clutch, f.Steering, f.FFB, f.SpeedKMH, f.Gear, f.ReplayTimeMultiplier); err != nil {
			return fmt.Errorf("failed to insert sample %d: %w", firstSeq+i, err)
		}
	}

	return tx.Commit()
}

// LoadSamples returns all frames of a session in recording order.
func (s *SQLiteStore) LoadSamples(ctx context.Context, sessionID string) ([]sim.Telemetry, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT throttle, brake, clutch, steering, ffb, speed_kmh, gear, time_mul
		 FROM sample WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples: %w", err)
	}
	defer rows.Close()

	out := make([]sim.Telemetry, 0, sess.Samples)
	for rows.Next() {
		var f sim.Telemetry
		if err := rows.Scan(&f.Throttle, &f.Brake, &f.Clutch, &f.Steering, &f.FFB, &f.SpeedKMH, &f.Gear, &f.ReplayTimeMultiplier); err != nil {
			return nil, err
		}
		f.FocusedCar = sess.FocusedCar
		out = append(out, f)
	}
	return out, rows.Err()
}
