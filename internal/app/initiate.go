package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/skyworth-dev/flightgw/internal/pkg/pkgconfig"
	"github.com/skyworth-dev/flightgw/internal/pkg/pkgrouter"
	"github.com/skyworth-dev/flightgw/internal/pkg/pkguid"
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initHTTPServer() {
	a.uuid = pkguid.NewUUID()
	a.router = pkgrouter.NewRouter(a.uuid)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// initRedis builds the shared durable-store client. A Redis that is down at
// boot only logs a warning: token and result caching degrade to live
// computation, the gateway still serves searches.
func (a *App) initRedis() {
	a.redis = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", a.config.GetString("redis.host"), a.config.GetString("redis.port")),
		Password: a.config.GetString("redis.password"),
		DB:       a.config.GetInt("redis.db"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.redis.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unreachable at startup, caching degraded", "error", err)
	}
}

func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
	a.closerFn["Redis"] = func(context.Context) error {
		return a.redis.Close()
	}
}
