package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shrustiadlak/digital-dear-diary/internal/domain/user"
	"github.com/shrustiadlak/digital-dear-diary/internal/observability"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}

	return fn()
}

// Create persists a new user. Username and email uniqueness is enforced by
// the table constraints; the conflicting one decides which error comes back.
func (r *UsersRepo) Create(ctx context.Context, username, email, passwordHash string) (user.User, error) {
	u := user.New(username, email, passwordHash)

	err := r.observe("users.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO users (id, username, email, password_hash, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt,
		)
		return e
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "users_username_key":
				return user.User{}, user.ErrUsernameTaken
			case "users_email_key":
				return user.User{}, user.ErrEmailTaken
			}
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_username", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, username, email, password_hash, created_at
			 FROM users
			 WHERE username = $1`,
			username,
		).Scan(
			&u.ID,
			&u.Username,
			&u.Email,
			&u.PasswordHash,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}
