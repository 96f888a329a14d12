package app

import (
	"log/slog"
	"os"

	fgw "github.com/skyworth-dev/flightgw/internal/flightgw"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.flight-search.enabled") {
		if err := fgw.New(fgw.Dependency{
			Config: a.config,
			Router: a.router,
			Redis:  a.redis,
		}); err != nil {
			slog.Error("failed to init module flight-search", "error", err)
			os.Exit(1)
		}
	}
}
