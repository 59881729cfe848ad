package gatherly

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-gatherly/command"
	"github.com/goliatone/go-print"
)

// RegisterAuthRoutes mounts the auth endpoints on the app. The protected
// middleware guards the current user route only; login and register are
// public by definition.
func RegisterAuthRoutes(app fiber.Router, protected fiber.Handler, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Get(controller.Routes.CurrentUser, protected, controller.CurrentUserGet)

	return controller
}

type AuthControllerRoutes struct {
	Login       string
	CurrentUser string
	Register    string
}

type AuthController struct {
	Debug      bool
	Logger     Logger
	Dispatcher *command.Dispatcher
	Routes     *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerDispatcher(d *command.Dispatcher) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Dispatcher = d
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login:       "/login",
			CurrentUser: "/currentUser",
			Register:    "/register",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Dispatcher == nil {
		panic("Missing Dispatcher in auth controller...")
	}

	return c
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginQuery)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: %s", err)
		return a.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body"))
	}

	user, err := command.DispatchTyped[*AuthenticatedUser](a.Dispatcher, ctx.UserContext(), *payload)
	if err != nil {
		return a.renderError(ctx, err)
	}

	a.debugResponse("AUTH LOGIN", user)

	return ctx.Status(fiber.StatusOK).JSON(user)
}

func (a *AuthController) CurrentUserGet(ctx *fiber.Ctx) error {
	user, err := command.DispatchTyped[*AuthenticatedUser](a.Dispatcher, ctx.UserContext(), CurrentUserQuery{})
	if err != nil {
		return a.renderError(ctx, err)
	}

	a.debugResponse("AUTH CURRENT USER", user)

	return ctx.Status(fiber.StatusOK).JSON(user)
}

func (a *AuthController) RegisterPost(ctx *fiber.Ctx) error {
	payload := new(RegisterUserMessage)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload: %s", err)
		return a.renderError(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body"))
	}

	user, err := command.DispatchTyped[*AuthenticatedUser](a.Dispatcher, ctx.UserContext(), *payload)
	if err != nil {
		return a.renderError(ctx, err)
	}

	a.debugResponse("AUTH REGISTER", user)

	return ctx.Status(fiber.StatusCreated).JSON(user)
}

// renderError maps dispatch failures to wire responses. Auth failures stay
// generic; the body never distinguishes a missing account from a wrong
// password.
func (a *AuthController) renderError(ctx *fiber.Ctx, err error) error {
	if fields, ok := command.ValidationFieldErrors(err); ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": fields,
		})
	}

	if IsUnauthorizedError(err) {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid credentials",
		})
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		switch rich.Category {
		case goerrors.CategoryConflict:
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "account already exists",
			})
		case goerrors.CategoryBadInput:
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": rich.Message,
			})
		}
	}

	a.Logger.Error("auth controller error: %s", err)

	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}

// debugResponse prints response payloads only. Request payloads carry
// credentials and are never printed.
func (a *AuthController) debugResponse(label string, v any) {
	if !a.Debug {
		return
	}
	fmt.Println("======= " + label + " ======")
	fmt.Println(print.MaybePrettyJSON(v))
	fmt.Println("=========================")
}
