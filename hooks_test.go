package gatekeeper_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/goliatone/go-gatekeeper"
	"github.com/stretchr/testify/assert"
)

func TestHookRegistryDispatchOrder(t *testing.T) {
	registry := gatekeeper.NewHookRegistry()
	var calls []string

	registry.Register(gatekeeper.HookBeforeRegister, func(ctx context.Context, record gatekeeper.UserRecord) error {
		calls = append(calls, "first")
		return nil
	})
	registry.Register(gatekeeper.HookBeforeRegister, func(ctx context.Context, record gatekeeper.UserRecord) error {
		calls = append(calls, "second")
		return nil
	})

	registry.Dispatch(context.Background(), gatekeeper.HookBeforeRegister, gatekeeper.UserRecord{})

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestHookRegistryIsolatesFailures(t *testing.T) {
	registry := gatekeeper.NewHookRegistry()
	var calls []string

	registry.Register(gatekeeper.HookAfterLogin, func(ctx context.Context, record gatekeeper.UserRecord) error {
		calls = append(calls, "errored")
		return fmt.Errorf("notification service down")
	})
	registry.Register(gatekeeper.HookAfterLogin, func(ctx context.Context, record gatekeeper.UserRecord) error {
		calls = append(calls, "panicked")
		panic("boom")
	})
	registry.Register(gatekeeper.HookAfterLogin, func(ctx context.Context, record gatekeeper.UserRecord) error {
		calls = append(calls, "ran")
		return nil
	})

	assert.NotPanics(t, func() {
		registry.Dispatch(context.Background(), gatekeeper.HookAfterLogin, gatekeeper.UserRecord{})
	})

	assert.Equal(t, []string{"errored", "panicked", "ran"}, calls)
}

func TestHookRegistryIgnoresNilAndUnknown(t *testing.T) {
	registry := gatekeeper.NewHookRegistry()
	registry.Register(gatekeeper.HookBeforeLogin, nil)

	assert.NotPanics(t, func() {
		registry.Dispatch(context.Background(), gatekeeper.HookBeforeLogin, gatekeeper.UserRecord{})
		registry.Dispatch(context.Background(), gatekeeper.HookName("unknown"), gatekeeper.UserRecord{})
	})
}

func TestHookRegistryNamedHelpers(t *testing.T) {
	registry := gatekeeper.NewHookRegistry()
	var calls []string

	note := func(name string) gatekeeper.HookFunc {
		return func(ctx context.Context, record gatekeeper.UserRecord) error {
			calls = append(calls, name)
			return nil
		}
	}

	registry.
		BeforeRegister(note("beforeRegister")).
		AfterRegister(note("afterRegister")).
		BeforeLogin(note("beforeLogin")).
		AfterLogin(note("afterLogin"))

	ctx := context.Background()
	registry.Dispatch(ctx, gatekeeper.HookBeforeRegister, nil)
	registry.Dispatch(ctx, gatekeeper.HookAfterRegister, nil)
	registry.Dispatch(ctx, gatekeeper.HookBeforeLogin, nil)
	registry.Dispatch(ctx, gatekeeper.HookAfterLogin, nil)

	assert.Equal(t, []string{"beforeRegister", "afterRegister", "beforeLogin", "afterLogin"}, calls)
}

func TestHooksObserveLiveRecord(t *testing.T) {
	registry := gatekeeper.NewHookRegistry()
	var seenEmail string

	registry.Register(gatekeeper.HookBeforeRegister, func(ctx context.Context, record gatekeeper.UserRecord) error {
		seenEmail, _ = record.Email()
		return nil
	})

	registry.Dispatch(context.Background(), gatekeeper.HookBeforeRegister, gatekeeper.UserRecord{
		"email": "tester@example.com",
	})

	assert.Equal(t, "tester@example.com", seenEmail)
}
