package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

const uniqueViolation = "23505"

type UserStore interface {
	CreateUser(ctx context.Context, login, email, passwordHash string) (int, error)
	GetByLogin(ctx context.Context, login string) (id int, passwordHash string, err error)
}

// Calculation is one saved wall evaluation. Input and Result are stored as
// the JSON the API returned.
type Calculation struct {
	ID        uuid.UUID       `json:"id"`
	UserID    int             `json:"user_id"`
	Project   string          `json:"project"`
	CreatedAt time.Time       `json:"created_at"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result"`
}

type CalculationStore interface {
	SaveCalculation(ctx context.Context, c Calculation) (Calculation, error)
	ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error)
	GetCalculation(ctx context.Context, userID int, id uuid.UUID) (Calculation, error)
}

type PostgresRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id       SERIAL PRIMARY KEY,
	login    TEXT NOT NULL UNIQUE,
	email    TEXT NOT NULL,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS calculations (
	id         UUID PRIMARY KEY,
	user_id    INTEGER NOT NULL REFERENCES users(id),
	project    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	input      JSONB NOT NULL,
	result     JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS calculations_user_created ON calculations (user_id, created_at DESC);
`

func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, passwordHash string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, passwordHash).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, fmt.Errorf("user %q: %w", login, ErrDuplicate)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"
	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrNotFound
		}
		return 0, "", fmt.Errorf("get user: %w", err)
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveCalculation(ctx context.Context, c Calculation) (Calculation, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now().UTC()
	}
	query := `INSERT INTO calculations (id, user_id, project, created_at, input, result)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.UserID, c.Project, c.CreatedAt, string(c.Input), string(c.Result))
	if err != nil {
		return Calculation{}, fmt.Errorf("save calculation: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListCalculations(ctx context.Context, userID, limit int) ([]Calculation, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, user_id, project, created_at, input, result FROM calculations
WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	defer rows.Close()

	out := []Calculation{}
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetCalculation(ctx context.Context, userID int, id uuid.UUID) (Calculation, error) {
	query := `SELECT id, user_id, project, created_at, input, result FROM calculations
WHERE id=$1 AND user_id=$2`
	c, err := scanCalculation(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Calculation{}, ErrNotFound
	}
	return c, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCalculation(s scanner) (Calculation, error) {
	var c Calculation
	var input, result []byte
	if err := s.Scan(&c.ID, &c.UserID, &c.Project, &c.CreatedAt, &input, &result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Calculation{}, err
		}
		return Calculation{}, fmt.Errorf("scan calculation: %w", err)
	}
	c.Input = input
	c.Result = result
	return c, nil
}
