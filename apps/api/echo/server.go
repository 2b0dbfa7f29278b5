package echoapi

import (
	"context"
	"net/http"
	"net/url"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/Einzelgaanger/darasa/core"
	"github.com/Einzelgaanger/darasa/core/rank"
	"github.com/Einzelgaanger/darasa/core/track"
	"github.com/Einzelgaanger/darasa/core/unit"
	"github.com/Einzelgaanger/darasa/core/user"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Logger   core.Logger
		UserSvc  *user.Service
		UnitSvc  *unit.Service
		TrackSvc *track.Service
		RankSvc  *rank.Service
		Files    core.FileStorage
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options, shutdown chan os.Signal) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: shutdown,
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerUnitAPI(v1, jwt, s.opts.UnitSvc, s.opts.Files)
	registerTrackAPI(v1, jwt, s.opts.TrackSvc)
	registerRankAPI(v1, jwt, s.opts.RankSvc)
}

// signalShutdown sends a SIGTERM to the main process to initiate a graceful shutdown.
func (s *server) signalShutdown() {
	if s.shutdown != nil {
		s.shutdown <- os.Interrupt
	}
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Darasa API!")
}

// paramCode returns the :code path param with percent-escapes decoded;
// unit codes carry a space, e.g. "MAT 2101".
func paramCode(ctx echo.Context) string {
	raw := ctx.Param("code")
	code, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return code
}
