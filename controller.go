package gatekeeper

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// AuthControllerRoutes holds the mount paths for the JSON endpoints
type AuthControllerRoutes struct {
	Signup string
	Login  string
}

// AuthController exposes the engine's signup and login operations as JSON
// endpoints. Registered overrides take precedence over the engine defaults.
type AuthController struct {
	Debug       bool
	Logger      Logger
	Routes      *AuthControllerRoutes
	PhoneRegion string
	core        *Core
}

// AuthControllerOption configures the controller
type AuthControllerOption func(*AuthController) *AuthController

// WithControllerLogger sets the controller logger
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerRoutes overrides the default mount paths
func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

// WithControllerDebug enables request payload dumping
func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// WithPhoneRegion sets the default region for phone number validation
func WithPhoneRegion(region string) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if region != "" {
			c.PhoneRegion = region
		}
		return c
	}
}

// NewAuthController creates a controller bound to the given engine
func NewAuthController(core *Core, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:      defLogger{},
		PhoneRegion: "US",
		Routes: &AuthControllerRoutes{
			Signup: "/signup",
			Login:  "/login",
		},
		core: core,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.core == nil {
		panic("Missing Core in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the controller endpoints on the given router
func RegisterAuthRoutes[T any](app router.Router[T], controller *AuthController) {
	app.
		Post(controller.Routes.Signup, controller.SignupPost).
		SetName("signup.post")

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("login.post")
}

// SignupPost handles registration. The body is an open JSON object; required
// fields come from the policy, not from this handler. Password digests never
// leave through the response.
func (a *AuthController) SignupPost(ctx router.Context) error {
	payload := UserRecord{}

	if err := ctx.Bind(&payload); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]string{
			"error": "invalid request payload",
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload.Sanitized()))
		fmt.Println("==========================")
	}

	if phone, ok := payload["phone_number"].(string); ok && phone != "" {
		if err := validation.Validate(phone, PhoneNumber(a.PhoneRegion)); err != nil {
			return ctx.JSON(fiber.StatusBadRequest, map[string]string{
				"error": "phone_number " + err.Error(),
			})
		}
	}

	var result *SignupResult
	var err error

	if handler, ok := a.core.Overrides().Registrations(); ok {
		result, err = handler(ctx.Context(), payload)
	} else {
		result, err = a.core.Signup(ctx.Context(), payload)
	}

	if err != nil {
		return a.renderError(ctx, err)
	}

	result.User = result.User.Sanitized()

	return ctx.JSON(fiber.StatusOK, result)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginPost handles authentication
func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]string{
			"error": "invalid request payload",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(map[string]string{"email": payload.Email}))
		fmt.Println("=========================")
	}

	var result *LoginResult
	var err error

	if handler, ok := a.core.Overrides().Sessions(); ok {
		result, err = handler(ctx.Context(), payload.Email, payload.Password)
	} else {
		result, err = a.core.Login(ctx.Context(), payload.Email, payload.Password)
	}

	if err != nil {
		return a.renderError(ctx, err)
	}

	result.User = result.User.Sanitized()

	return ctx.JSON(fiber.StatusOK, result)
}

func (a *AuthController) renderError(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"auth controller error: %s (text_code=%s category=%s)",
		richErr.Message, richErr.TextCode, richErr.Category,
	)

	status := richErr.Code
	if status == 0 {
		status = fiber.StatusBadRequest
	}

	return ctx.JSON(status, map[string]string{
		"error": richErr.Message,
	})
}
