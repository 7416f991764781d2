package components

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/flowlens/internal/ui/notifier"
	"github.com/leapstack-labs/flowlens/pkg/core"
)

// SetupRoutes registers the components routes on the router.
func SetupRoutes(
	router chi.Router,
	loader core.ComponentLoader,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	isDev bool,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(loader, sessionStore, notify, isDev, logger)

	router.Get("/", handlers.Index)

	// Page routes (full page render)
	router.Get(Path, handlers.ComponentsPage)
	router.Get("/component/{id}", handlers.ComponentPage)

	// SSE routes (long-lived streams)
	router.Get(Path+"/updates", handlers.ComponentsPageUpdates)

	return nil
}
