package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fsnd-projects/fsnd/core"
	"github.com/fsnd-projects/fsnd/core/booking"
	"github.com/fsnd-projects/fsnd/core/coffee"
	"github.com/fsnd-projects/fsnd/core/trivia"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		TokenValidator TokenValidator
		Registry       prometheus.Registerer

		BookingSvc booking.ServiceInterface
		TriviaSvc  trivia.ServiceInterface
		CoffeeSvc  coffee.ServiceInterface
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(ctx context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil) // interface compliance check

func NewServer(deps ServerDeps) (Server, error) {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	if err := s.setup(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *server) setup() error {
	conf := s.deps.Conf
	if s.deps.Registry == nil {
		s.deps.Registry = prometheus.NewRegistry()
	}

	s.app.HideBanner = conf.TestMode
	s.app.HidePort = conf.TestMode
	s.app.Debug = conf.Debug
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(newMetrics(s.deps.Registry).middleware)
	s.app.Use(middleware.CORSWithConfig(corsConfig))

	if conf.HasApp(core.AppFyyur) {
		renderer, err := newTemplateRenderer()
		if err != nil {
			return errors.Wrap(err, "loading templates")
		}
		s.app.Renderer = renderer
		registerFyyurSite(s.app.Group(""), s.deps.BookingSvc, s.deps.Logger, s.deps.Validate, s.deps.Translator)
	} else {
		s.app.GET("/", home)
	}
	if conf.HasApp(core.AppTrivia) {
		registerTriviaAPI(s.app.Group(""), s.deps.TriviaSvc, s.deps.Validate)
	}
	if conf.HasApp(core.AppCoffee) {
		registerCoffeeAPI(s.app.Group(""), s.deps.TokenValidator, s.deps.CoffeeSvc, s.deps.Validate)
	}
	return nil
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}
