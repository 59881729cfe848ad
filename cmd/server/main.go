package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	gatherly "github.com/goliatone/go-gatherly"
	"github.com/goliatone/go-gatherly/command"
	"github.com/goliatone/go-logger/glog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// AuthConfig is loaded once at startup; the signing key never changes for
// the lifetime of the process.
type AuthConfig struct {
	SigningKey      string   `env:"GATHERLY_SIGNING_KEY,required"`
	SigningMethod   string   `env:"GATHERLY_SIGNING_METHOD" envDefault:"HS256"`
	ContextKey      string   `env:"GATHERLY_CONTEXT_KEY" envDefault:"user"`
	TokenExpiration int      `env:"GATHERLY_TOKEN_EXPIRATION" envDefault:"168"`
	TokenLookup     string   `env:"GATHERLY_TOKEN_LOOKUP" envDefault:"header:Authorization"`
	AuthScheme      string   `env:"GATHERLY_AUTH_SCHEME" envDefault:"Bearer"`
	Issuer          string   `env:"GATHERLY_ISSUER" envDefault:"gatherly"`
	Audience        []string `env:"GATHERLY_AUDIENCE" envDefault:"gatherly"`

	DSN     string `env:"GATHERLY_DSN" envDefault:"file::memory:?cache=shared"`
	Address string `env:"GATHERLY_ADDRESS" envDefault:":8572"`
	Debug   bool   `env:"GATHERLY_DEBUG" envDefault:"false"`
}

var _ gatherly.Config = (*AuthConfig)(nil)

func (c *AuthConfig) GetSigningKey() string    { return c.SigningKey }
func (c *AuthConfig) GetSigningMethod() string { return c.SigningMethod }
func (c *AuthConfig) GetContextKey() string    { return c.ContextKey }
func (c *AuthConfig) GetTokenExpiration() int  { return c.TokenExpiration }
func (c *AuthConfig) GetTokenLookup() string   { return c.TokenLookup }
func (c *AuthConfig) GetAuthScheme() string    { return c.AuthScheme }
func (c *AuthConfig) GetIssuer() string        { return c.Issuer }
func (c *AuthConfig) GetAudience() []string    { return c.Audience }

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("gatherly"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := &AuthConfig{}
	if err := env.Parse(cfg); err != nil {
		lgr.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		lgr.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := ensureSchema(context.Background(), db); err != nil {
		lgr.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	repo := gatherly.NewRepositoryManager(db)
	repo.MustValidate()

	store := gatherly.NewUserStore(repo.Users())

	tokens := gatherly.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		lgr.GetLogger("tokens"),
	)

	dispatcher := command.NewDispatcher()

	login := gatherly.NewLoginHandler(store, tokens).
		WithLogger(lgr.GetLogger("auth:login"))

	currentUser := gatherly.NewCurrentUserHandler(store, tokens, gatherly.NewContextUserAccessor()).
		WithLogger(lgr.GetLogger("auth:current"))

	register := gatherly.NewRegisterUserHandler(repo, tokens).
		WithLogger(lgr.GetLogger("auth:register"))

	must(command.Register(dispatcher, login.Execute))
	must(command.Register(dispatcher, currentUser.Execute))
	must(command.Register(dispatcher, register.Execute))

	app := fiber.New(fiber.Config{
		AppName: "gatherly",
	})

	protected := gatherly.ProtectedRoute(cfg, tokens)

	gatherly.RegisterAuthRoutes(app, protected,
		gatherly.WithControllerDispatcher(dispatcher),
		gatherly.WithControllerLogger(lgr.GetLogger("auth:ctrl")),
		gatherly.WithControllerDebug(cfg.Debug),
	)

	go func() {
		if err := app.Listen(cfg.Address); err != nil {
			lgr.Error("server stopped", "error", err)
		}
	}()

	WaitExitSignal()

	if err := app.Shutdown(); err != nil {
		lgr.Error("shutdown error", "error", err)
	}
}

func ensureSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*gatherly.User)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
