// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	componentsFeature "github.com/leapstack-labs/flowlens/internal/ui/features/components"
	"github.com/leapstack-labs/flowlens/internal/ui/notifier"
	"github.com/leapstack-labs/flowlens/internal/ui/resources"
	"github.com/leapstack-labs/flowlens/pkg/core"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	loader core.ComponentLoader,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	isDev bool,
	logger *slog.Logger,
) error {
	// Hot reload endpoint for dev mode
	if isDev {
		setupReload(router)
	}

	// Static assets
	router.Handle(resources.URLPrefix+"*", resources.Handler())

	// Feature routes
	if err := componentsFeature.SetupRoutes(router, loader, sessionStore, notify, isDev, logger); err != nil {
		return err
	}

	return nil
}

// setupReload mounts the dev reload stream and its trigger. Every open tab
// reloads when /hotreload is hit, and the first tab to connect after a
// restart reloads once.
func setupReload(router chi.Router) {
	reloads := notifier.New()
	var restarted sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		restarted.Do(reload)

		ch := reloads.Subscribe()
		defer reloads.Unsubscribe(ch)
		select {
		case <-ch:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		reloads.Broadcast()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
