// Package memoryadapter keeps users in process memory. It exists for tests
// and examples; nothing survives a restart.
package memoryadapter

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-gatekeeper"
	"github.com/google/uuid"
)

// Adapter implements gatekeeper.StorageAdapter backed by maps
type Adapter struct {
	mu      sync.RWMutex
	byID    map[string]gatekeeper.UserRecord
	byEmail map[string]string
}

var _ gatekeeper.StorageAdapter = (*Adapter)(nil)

// New returns an empty in-memory adapter
func New() *Adapter {
	return &Adapter{
		byID:    map[string]gatekeeper.UserRecord{},
		byEmail: map[string]string{},
	}
}

// CreateUser satisfies the StorageAdapter interface. Emails are unique and
// matched case insensitively; records without an id get a random UUID.
func (a *Adapter) CreateUser(ctx context.Context, data gatekeeper.UserRecord) (gatekeeper.UserRecord, error) {
	email, ok := data.Email()
	if !ok || email == "" {
		return nil, gatekeeper.NewMissingFieldError(gatekeeper.FieldEmail)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := emailKey(email)
	if _, exists := a.byEmail[key]; exists {
		return nil, gatekeeper.NewDuplicateEmailError(email)
	}

	record := data.Clone()
	id, ok := record.ID()
	if !ok {
		id = uuid.NewString()
		record.SetID(id)
	}

	a.byID[id] = record
	a.byEmail[key] = id

	return record.Clone(), nil
}

// FindUserByEmail satisfies the StorageAdapter interface
func (a *Adapter) FindUserByEmail(ctx context.Context, email string) (gatekeeper.UserRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	id, ok := a.byEmail[emailKey(email)]
	if !ok {
		return nil, gatekeeper.NewUserNotFoundError(email)
	}

	return a.byID[id].Clone(), nil
}

// FindUserByID satisfies the StorageAdapter interface
func (a *Adapter) FindUserByID(ctx context.Context, id string) (gatekeeper.UserRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	record, ok := a.byID[id]
	if !ok {
		return nil, gatekeeper.NewUserNotFoundError(id)
	}

	return record.Clone(), nil
}

// UpdateUser satisfies the StorageAdapter interface. Fields present in data
// replace the stored values; the id field is immutable. The merge is staged
// on a clone so a conflicting email leaves the store untouched.
func (a *Adapter) UpdateUser(ctx context.Context, id string, data gatekeeper.UserRecord) (gatekeeper.UserRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	record, ok := a.byID[id]
	if !ok {
		return nil, gatekeeper.NewUserNotFoundError(id)
	}

	oldEmail, _ := record.Email()

	merged := record.Clone()
	for k, v := range data {
		if k == gatekeeper.FieldID {
			continue
		}
		merged[k] = v
	}

	newKey := ""
	if newEmail, ok := merged.Email(); ok && emailKey(newEmail) != emailKey(oldEmail) {
		newKey = emailKey(newEmail)
		if other, exists := a.byEmail[newKey]; exists && other != id {
			return nil, gatekeeper.NewDuplicateEmailError(newEmail)
		}
	}

	if newKey != "" {
		delete(a.byEmail, emailKey(oldEmail))
		a.byEmail[newKey] = id
	}
	a.byID[id] = merged

	return merged.Clone(), nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
