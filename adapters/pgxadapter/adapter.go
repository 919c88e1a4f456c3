// Package pgxadapter persists users in PostgreSQL through a pgx connection
// pool with a fixed schema. Fields outside the canonical set are stored in
// an attributes JSONB column.
package pgxadapter

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-gatekeeper"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	user_role TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	attributes JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Adapter implements gatekeeper.StorageAdapter on a pgx pool
type Adapter struct {
	pool *pgxpool.Pool
}

var _ gatekeeper.StorageAdapter = (*Adapter)(nil)

// New wraps an existing connection pool
func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{pool: pool}
}

// Connect establishes a pool against the given DSN and wraps it
func Connect(ctx context.Context, dsn string) (*Adapter, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return New(pool), nil
}

// Close drains the connection pool
func (a *Adapter) Close() {
	if a != nil && a.pool != nil {
		a.pool.Close()
	}
}

// CreateSchema creates the users table if missing
func (a *Adapter) CreateSchema(ctx context.Context) error {
	_, err := a.pool.Exec(ctx, schema)
	return err
}

// CreateUser satisfies the StorageAdapter interface
func (a *Adapter) CreateUser(ctx context.Context, data gatekeeper.UserRecord) (gatekeeper.UserRecord, error) {
	row, err := fromRecord(data)
	if err != nil {
		return nil, err
	}

	if row.id == uuid.Nil {
		row.id = uuid.New()
	}

	const query = `
INSERT INTO users (id, email, user_role, password_hash, attributes)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, email, user_role, password_hash, attributes
`
	created, err := scanUser(a.pool.QueryRow(ctx, query,
		row.id,
		row.email,
		row.role,
		row.passwordHash,
		row.attributes,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, gatekeeper.NewDuplicateEmailError(row.email)
		}
		return nil, err
	}

	return created.toRecord(), nil
}

// FindUserByEmail satisfies the StorageAdapter interface
func (a *Adapter) FindUserByEmail(ctx context.Context, email string) (gatekeeper.UserRecord, error) {
	const query = `
SELECT id, email, user_role, password_hash, attributes
FROM users WHERE email = $1
`
	row, err := scanUser(a.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, gatekeeper.NewUserNotFoundError(email)
		}
		return nil, err
	}
	return row.toRecord(), nil
}

// FindUserByID satisfies the StorageAdapter interface
func (a *Adapter) FindUserByID(ctx context.Context, id string) (gatekeeper.UserRecord, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gatekeeper.NewUserNotFoundError(id)
	}

	const query = `
SELECT id, email, user_role, password_hash, attributes
FROM users WHERE id = $1
`
	row, err := scanUser(a.pool.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, gatekeeper.NewUserNotFoundError(id)
		}
		return nil, err
	}
	return row.toRecord(), nil
}

// UpdateUser satisfies the StorageAdapter interface
func (a *Adapter) UpdateUser(ctx context.Context, id string, data gatekeeper.UserRecord) (gatekeeper.UserRecord, error) {
	existing, err := a.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := existing.Clone()
	for k, v := range data {
		if k == gatekeeper.FieldID {
			continue
		}
		merged[k] = v
	}

	row, err := fromRecord(merged)
	if err != nil {
		return nil, err
	}

	const query = `
UPDATE users
SET email = $2, user_role = $3, password_hash = $4, attributes = $5, updated_at = now()
WHERE id = $1
RETURNING id, email, user_role, password_hash, attributes
`
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gatekeeper.NewUserNotFoundError(id)
	}

	updated, err := scanUser(a.pool.QueryRow(ctx, query,
		uid,
		row.email,
		row.role,
		row.passwordHash,
		row.attributes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, gatekeeper.NewUserNotFoundError(id)
		}
		if isUniqueViolation(err) {
			return nil, gatekeeper.NewDuplicateEmailError(row.email)
		}
		return nil, err
	}

	return updated.toRecord(), nil
}

type userRow struct {
	id           uuid.UUID
	email        string
	role         string
	passwordHash string
	attributes   map[string]any
}

func scanUser(row pgx.Row) (*userRow, error) {
	u := &userRow{}
	if err := row.Scan(&u.id, &u.email, &u.role, &u.passwordHash, &u.attributes); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *userRow) toRecord() gatekeeper.UserRecord {
	record := gatekeeper.UserRecord{
		gatekeeper.FieldID:    u.id.String(),
		gatekeeper.FieldEmail: u.email,
	}

	if u.role != "" {
		record[gatekeeper.FieldRole] = u.role
	}
	if u.passwordHash != "" {
		record[gatekeeper.FieldPassword] = u.passwordHash
	}
	for k, v := range u.attributes {
		record[k] = v
	}

	return record
}

func fromRecord(data gatekeeper.UserRecord) (*userRow, error) {
	email, ok := data.Email()
	if !ok || email == "" {
		return nil, gatekeeper.NewMissingFieldError(gatekeeper.FieldEmail)
	}

	row := &userRow{
		email:      email,
		attributes: map[string]any{},
	}

	if id, ok := data.ID(); ok {
		if uid, err := uuid.Parse(id); err == nil {
			row.id = uid
		}
	}
	if role, ok := data.Role(); ok {
		row.role = role
	}
	if digest, ok := data.StoredDigest(); ok {
		row.passwordHash = digest
	}

	for k, v := range data {
		switch k {
		case gatekeeper.FieldID, gatekeeper.FieldEmail, gatekeeper.FieldPassword, gatekeeper.FieldRole:
		default:
			row.attributes[k] = v
		}
	}

	return row, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
