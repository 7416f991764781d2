package components

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/flowlens/internal/ui/features/components/pages"
	"github.com/leapstack-labs/flowlens/internal/ui/layout"
	"github.com/leapstack-labs/flowlens/internal/ui/notifier"
	"github.com/leapstack-labs/flowlens/pkg/core"
)

const (
	sessionName      = "flowlens-ui"
	healthFilterKey  = "components.health"
	healthFilterAll  = "all"
	healthQueryParam = "health"
)

// Handlers provides HTTP handlers for the components feature.
type Handlers struct {
	loader       core.ComponentLoader
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	isDev        bool
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(loader core.ComponentLoader, sessionStore sessions.Store, notify *notifier.Notifier, isDev bool, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		loader:       loader,
		sessionStore: sessionStore,
		notifier:     notify,
		isDev:        isDev,
		logger:       logger,
	}
}

// Index redirects the root URL to the Components page.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, Path, http.StatusSeeOther)
}

// ComponentsPage renders the Components page with the current records.
func (h *Handlers) ComponentsPage(w http.ResponseWriter, r *http.Request) {
	opts := ListOptions{Health: h.resolveHealthFilter(w, r)}

	items, err := h.loader.LoadComponents(r.Context())
	if err != nil {
		h.logger.Error("failed to load components", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := NewPageView(items, opts).Component()
	h.writeDocument(w, r, http.StatusOK, layout.DocumentOptions{
		Title:       Descriptor.Name,
		CurrentPath: Path,
		UpdatesURL:  Path + "/updates",
		IsDev:       h.isDev,
	}, page)
}

// ComponentsPageUpdates is the long-lived SSE endpoint for the Components page.
// Content is already server-rendered by ComponentsPage, so nothing is sent
// until the notifier reports a change.
func (h *Handlers) ComponentsPageUpdates(w http.ResponseWriter, r *http.Request) {
	opts := ListOptions{Health: h.storedHealthFilter(r)}
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			items, err := h.loader.LoadComponents(ctx)
			if err != nil {
				h.logger.Warn("failed to reload components", "error", err)
				_ = sse.ConsoleError(err)
				continue
			}
			if err := sse.PatchElementTempl(pages.ComponentList(items, opts)); err != nil {
				h.logger.Debug("failed to patch component list", "error", err)
			}
		}
	}
}

// ComponentPage renders the detail page of one component.
func (h *Handlers) ComponentPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}

	rec, err := h.findComponent(r, id)
	switch {
	case errors.Is(err, core.ErrComponentNotFound):
		h.writeDocument(w, r, http.StatusNotFound, layout.DocumentOptions{
			Title: "Component not found",
			IsDev: h.isDev,
		}, pages.NotFoundPage(id))
		return
	case err != nil:
		h.logger.Error("failed to load component", "id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeDocument(w, r, http.StatusOK, layout.DocumentOptions{
		Title:       rec.ID,
		CurrentPath: Path,
		IsDev:       h.isDev,
	}, pages.DetailPage(NewDetailViewData(*rec)))
}

// findComponent uses the loader's direct lookup when it has one.
func (h *Handlers) findComponent(r *http.Request, id string) (*core.ComponentRecord, error) {
	if getter, ok := h.loader.(interface {
		GetComponent(ctx context.Context, id string) (*core.ComponentRecord, error)
	}); ok {
		return getter.GetComponent(r.Context(), id)
	}
	return core.FindComponent(r.Context(), h.loader, id)
}

// writeDocument renders content inside the HTML document into a buffer first
// so a render failure can still produce a clean 500.
func (h *Handlers) writeDocument(w http.ResponseWriter, r *http.Request, status int, opts layout.DocumentOptions, content templ.Component) {
	var buf bytes.Buffer
	if err := layout.Wrap(layout.Document(opts), content).Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// resolveHealthFilter reads the filter from the query string, remembering it
// in the session, and falls back to the remembered value.
func (h *Handlers) resolveHealthFilter(w http.ResponseWriter, r *http.Request) core.HealthState {
	if !r.URL.Query().Has(healthQueryParam) {
		return h.storedHealthFilter(r)
	}

	var filter core.HealthState
	if raw := r.URL.Query().Get(healthQueryParam); raw != healthFilterAll {
		filter = core.ParseHealthState(raw)
	}

	if h.sessionStore == nil {
		return filter
	}
	session, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		h.logger.Debug("discarding unreadable session", "error", err)
	}
	if session == nil {
		return filter
	}
	session.Values[healthFilterKey] = string(filter)
	if err := session.Save(r, w); err != nil {
		h.logger.Warn("failed to save session", "error", err)
	}
	return filter
}

func (h *Handlers) storedHealthFilter(r *http.Request) core.HealthState {
	if h.sessionStore == nil {
		return ""
	}
	session, err := h.sessionStore.Get(r, sessionName)
	if err != nil || session == nil {
		return ""
	}
	if v, ok := session.Values[healthFilterKey].(string); ok && v != "" {
		return core.ParseHealthState(v)
	}
	return ""
}
