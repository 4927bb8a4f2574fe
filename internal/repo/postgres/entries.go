package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shrustiadlak/digital-dear-diary/internal/domain/entry"
	"github.com/shrustiadlak/digital-dear-diary/internal/observability"
)

type EntriesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEntriesRepo(pool *pgxpool.Pool, prom *observability.Prom) *EntriesRepo {
	return &EntriesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *EntriesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}

	return fn()
}

func (r *EntriesRepo) Create(ctx context.Context, userID, content, theme string, emotion entry.Emotion) (entry.Entry, error) {
	e := entry.New(userID, content, theme, emotion)

	err := r.observe("entries.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO entries (id, user_id, content, emotion, theme, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			e.ID, e.UserID, e.Content, e.Emotion, e.Theme, e.CreatedAt,
		)
		return err
	})

	if err != nil {
		return entry.Entry{}, err
	}

	return e, nil
}

// ListByUser returns every entry owned by userID, newest first. The id
// tiebreak keeps the order stable when two entries share a timestamp.
func (r *EntriesRepo) ListByUser(ctx context.Context, userID string) (out []entry.Entry, err error) {
	var rows pgx.Rows

	err = r.observe("entries.list_by_user", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT id, user_id, content, emotion, theme, created_at
			 FROM entries
			 WHERE user_id = $1
			 ORDER BY created_at DESC, id DESC`,
			userID,
		)
		return err
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	out = make([]entry.Entry, 0)

	for rows.Next() {
		var e entry.Entry

		err = rows.Scan(&e.ID, &e.UserID, &e.Content, &e.Emotion, &e.Theme, &e.CreatedAt)

		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	err = rows.Err()

	if err != nil {
		return nil, err
	}

	return out, nil
}

// DeleteByID removes an entry only if userID owns it. The owner is looked up
// first so a missing entry and someone else's entry fail differently.
func (r *EntriesRepo) DeleteByID(ctx context.Context, userID, entryID string) error {
	var ownerID string

	err := r.observe("entries.delete.owner_check", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT user_id FROM entries WHERE id = $1`,
			entryID,
		).Scan(&ownerID)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entry.ErrNotFound
		}

		return err
	}

	if ownerID != userID {
		return entry.ErrNotOwner
	}

	err = r.observe("entries.delete", func() error {
		_, e := r.pool.Exec(ctx,
			`DELETE FROM entries WHERE id = $1 AND user_id = $2`,
			entryID, userID,
		)
		return e
	})

	return err
}
