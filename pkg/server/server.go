package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/littleshelf/littleshelf/pkg/binder"
	"github.com/littleshelf/littleshelf/pkg/books"
	"github.com/littleshelf/littleshelf/pkg/config"
	"github.com/littleshelf/littleshelf/pkg/errcodes"
	"github.com/littleshelf/littleshelf/pkg/journals"
	"github.com/littleshelf/littleshelf/pkg/lookup"
	"github.com/littleshelf/littleshelf/pkg/members"
	"github.com/littleshelf/littleshelf/pkg/validations"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, lookupClient lookup.Client) (*http.Server, error) {
	e, err := newEcho(cfg, db, lookupClient)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB, lookupClient lookup.Client) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	if len(cfg.CORSAllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSAllowOrigins}))
	} else {
		e.Use(middleware.CORS())
	}

	health.RegisterRoutes(e)

	// The browser client calls every operation by name under /api.
	api := e.Group("/api")
	syncer := newJournalSyncer(db)
	books.RegisterRoutesWithGroup(api, db, syncer)
	members.RegisterRoutesWithGroup(api, db, syncer)
	journals.RegisterRoutesWithGroup(api, db)
	validations.RegisterRoutesWithGroup(api, db)
	lookup.RegisterRoutesWithGroup(api, lookupClient)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
