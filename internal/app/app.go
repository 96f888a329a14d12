package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/skyworth-dev/flightgw/internal/pkg/pkgconfig"
	"github.com/skyworth-dev/flightgw/internal/pkg/pkglog"
	"github.com/skyworth-dev/flightgw/internal/pkg/pkgrouter"
	"github.com/skyworth-dev/flightgw/internal/pkg/pkguid"
)

type App struct {
	config     pkgconfig.Config
	uuid       pkguid.StringID
	router     *pkgrouter.Router
	httpServer *http.Server
	redis      *redis.Client
	closerFn   map[string]func(context.Context) error
}

func New() *App {
	app := &App{}
	pkglog.InitLogging()
	app.initConfig()
	app.initHTTPServer()
	app.initRedis()
	app.initModules()
	app.initClosers()
	return app
}
