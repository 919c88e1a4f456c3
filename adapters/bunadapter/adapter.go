// Package bunadapter persists users through the bun ORM, satisfying the
// gatekeeper StorageAdapter contract on any database bun supports.
package bunadapter

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goliatone/go-gatekeeper"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Adapter implements gatekeeper.StorageAdapter on top of a bun.DB
type Adapter struct {
	db   *bun.DB
	repo repository.Repository[*User]
}

var _ gatekeeper.StorageAdapter = (*Adapter)(nil)

// New wraps a bun database handle
func New(db *bun.DB) *Adapter {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
	})

	return &Adapter{
		db:   db,
		repo: repo,
	}
}

// Open creates a SQLite backed adapter, mostly for examples and tests
func Open(dsn string) (*Adapter, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	return New(bun.NewDB(sqldb, sqlitedialect.New())), nil
}

// CreateSchema creates the users table if missing
func (a *Adapter) CreateSchema(ctx context.Context) error {
	_, err := a.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// CreateUser satisfies the StorageAdapter interface. Records without an id
// get a deterministic UUID derived from the email.
func (a *Adapter) CreateUser(ctx context.Context, data gatekeeper.UserRecord) (gatekeeper.UserRecord, error) {
	user, err := fromRecord(data)
	if err != nil {
		return nil, err
	}

	if user.ID == uuid.Nil {
		id, err := hashid.NewUUID(user.Email)
		if err != nil {
			return nil, err
		}
		user.ID = id
	}

	created, err := a.repo.CreateTx(ctx, a.db, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, gatekeeper.NewDuplicateEmailError(user.Email)
		}
		return nil, err
	}

	return toRecord(created), nil
}

// FindUserByEmail satisfies the StorageAdapter interface
func (a *Adapter) FindUserByEmail(ctx context.Context, email string) (gatekeeper.UserRecord, error) {
	user := &User{}
	err := a.db.NewSelect().
		Model(user).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, gatekeeper.NewUserNotFoundError(email)
		}
		return nil, err
	}

	return toRecord(user), nil
}

// FindUserByID satisfies the StorageAdapter interface
func (a *Adapter) FindUserByID(ctx context.Context, id string) (gatekeeper.UserRecord, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gatekeeper.NewUserNotFoundError(id)
	}

	user := &User{}
	err = a.db.NewSelect().
		Model(user).
		Where("?TableAlias.id = ?", uid).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, gatekeeper.NewUserNotFoundError(id)
		}
		return nil, err
	}

	return toRecord(user), nil
}

// UpdateUser satisfies the StorageAdapter interface. Only the fields present
// in data are replaced.
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

	user, err := fromRecord(merged)
	if err != nil {
		return nil, err
	}
	user.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, gatekeeper.NewUserNotFoundError(id)
	}

	updated, err := a.repo.UpdateTx(ctx, a.db, user, repository.UpdateByID(id))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, gatekeeper.NewUserNotFoundError(id)
		}
		if isUniqueViolation(err) {
			return nil, gatekeeper.NewDuplicateEmailError(user.Email)
		}
		return nil, err
	}

	return toRecord(updated), nil
}

func fromRecord(data gatekeeper.UserRecord) (*User, error) {
	email, ok := data.Email()
	if !ok || email == "" {
		return nil, fmt.Errorf("user record requires an email")
	}

	user := &User{
		Email:    email,
		Metadata: map[string]any{},
	}

	if id, ok := data.ID(); ok {
		if uid, err := uuid.Parse(id); err == nil {
			user.ID = uid
		}
	}

	if role, ok := data.Role(); ok {
		user.Role = role
	}

	if digest, ok := data.StoredDigest(); ok {
		user.PasswordHash = digest
	}

	for k, v := range data {
		switch k {
		case gatekeeper.FieldID, gatekeeper.FieldEmail, gatekeeper.FieldPassword, gatekeeper.FieldRole:
		default:
			user.Metadata[k] = v
		}
	}

	return user, nil
}

func toRecord(user *User) gatekeeper.UserRecord {
	record := gatekeeper.UserRecord{
		gatekeeper.FieldID:    user.ID.String(),
		gatekeeper.FieldEmail: user.Email,
	}

	if user.Role != "" {
		record[gatekeeper.FieldRole] = user.Role
	}

	if user.PasswordHash != "" {
		record[gatekeeper.FieldPassword] = user.PasswordHash
	}

	for k, v := range user.Metadata {
		record[k] = v
	}

	return record
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
