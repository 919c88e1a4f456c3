package gatekeeper_test

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-gatekeeper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request gatekeeper.LoginRequest
		wantErr bool
	}{
		{
			name: "valid request",
			request: gatekeeper.LoginRequest{
				Email:    "tester@example.com",
				Password: "secret99",
			},
		},
		{
			name: "missing email",
			request: gatekeeper.LoginRequest{
				Password: "secret99",
			},
			wantErr: true,
		},
		{
			name: "invalid email",
			request: gatekeeper.LoginRequest{
				Email:    "not-an-email",
				Password: "secret99",
			},
			wantErr: true,
		},
		{
			name: "missing password",
			request: gatekeeper.LoginRequest{
				Email: "tester@example.com",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPhoneNumberRule(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		region  string
		wantErr bool
	}{
		{
			name:   "valid US number",
			value:  "+1 650-253-0000",
			region: "US",
		},
		{
			name:   "national format with region",
			value:  "(650) 253-0000",
			region: "US",
		},
		{
			name:   "empty value passes",
			value:  "",
			region: "US",
		},
		{
			name:    "garbage is rejected",
			value:   "not-a-phone",
			region:  "US",
			wantErr: true,
		},
		{
			name:    "too short",
			value:   "12345",
			region:  "US",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, gatekeeper.PhoneNumber(tt.region))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateStringEquals(t *testing.T) {
	rule := gatekeeper.ValidateStringEquals("secret99")

	assert.NoError(t, rule("secret99"))
	assert.Error(t, rule("different"))
	assert.Error(t, rule(42))
}

func TestNewAuthController(t *testing.T) {
	core := newTestCore(t, newFakeAdapter(), nil)

	t.Run("defaults", func(t *testing.T) {
		controller := gatekeeper.NewAuthController(core)

		require.NotNil(t, controller.Routes)
		assert.Equal(t, "/signup", controller.Routes.Signup)
		assert.Equal(t, "/login", controller.Routes.Login)
		assert.Equal(t, "US", controller.PhoneRegion)
		assert.False(t, controller.Debug)
	})

	t.Run("options apply", func(t *testing.T) {
		controller := gatekeeper.NewAuthController(core,
			gatekeeper.WithControllerDebug(true),
			gatekeeper.WithPhoneRegion("GB"),
			gatekeeper.WithControllerRoutes(&gatekeeper.AuthControllerRoutes{
				Signup: "/auth/register",
				Login:  "/auth/session",
			}),
		)

		assert.True(t, controller.Debug)
		assert.Equal(t, "GB", controller.PhoneRegion)
		assert.Equal(t, "/auth/register", controller.Routes.Signup)
		assert.Equal(t, "/auth/session", controller.Routes.Login)
	})

	t.Run("missing core panics", func(t *testing.T) {
		assert.Panics(t, func() {
			gatekeeper.NewAuthController(nil)
		})
	})
}
