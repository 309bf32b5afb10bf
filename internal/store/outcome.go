package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/psyprep/psyprep/internal/exercise"
	"github.com/psyprep/psyprep/internal/session"
)

// Outcome is a locally recorded finished session: the responses plus
// the server-assigned identifier. It exists only after a successful
// remote submission.
type Outcome struct {
	ID          int
	SessionID   string
	Exercise    exercise.Kind
	Responses   []session.Response
	CompletedAt time.Time
}

// OutcomeRepo records and lists finished sessions.
type OutcomeRepo interface {
	// Append records a finished session.
	Append(ctx context.Context, o *Outcome) error

	// List returns outcomes most recent first, up to limit (0 = all).
	List(ctx context.Context, limit int) ([]Outcome, error)
}

type outcomeRepo struct {
	db *sql.DB
}

func (r *outcomeRepo) Append(ctx context.Context, o *Outcome) error {
	responses, err := json.Marshal(o.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO outcomes (session_id, exercise, responses, completed_at)
		VALUES (?, ?, ?, ?)`,
		o.SessionID, string(o.Exercise), string(responses), o.CompletedAt.UTC())
	if err != nil {
		return fmt.Errorf("save outcome: %w", err)
	}
	return nil
}

func (r *outcomeRepo) List(ctx context.Context, limit int) ([]Outcome, error) {
	q := `SELECT id, session_id, exercise, responses, completed_at
		FROM outcomes ORDER BY completed_at DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []Outcome
	for rows.Next() {
		var (
			o         Outcome
			kind      string
			responses string
		)
		if err := rows.Scan(&o.ID, &o.SessionID, &kind, &responses, &o.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Exercise = exercise.Kind(kind)
		if err := json.Unmarshal([]byte(responses), &o.Responses); err != nil {
			return nil, fmt.Errorf("unmarshal responses for outcome %d: %w", o.ID, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
