package main

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/gate"
	"github.com/diewo77/tvstock/internal/policy"
	"github.com/diewo77/tvstock/view"
)

const requestIDHeader = "X-Request-ID"

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	routerCfg *policy.RouterConfig
	log       *zap.Logger
	handler   http.Handler
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *policy.RouterConfig, log *zap.Logger) *App {
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
		log:       log.Named("http"),
	}
	view.SetCanResolver(routerCfg.AuthGate.CanRequest)
	app.setupRoutes()
	app.handler = app.withRequestLog(routerCfg.Sessions.Middleware(app.mux))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	ah := a.routerCfg.AuthHandler

	a.mux.HandleFunc("GET /{$}", a.landing)
	a.mux.HandleFunc("GET /login", ah.Login)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("GET /logout", ah.Logout)
	a.mux.HandleFunc("POST /logout", ah.Logout)

	hh := a.routerCfg.HealthHandler
	a.mux.HandleFunc("GET /health", hh.Live)
	a.mux.HandleFunc("GET /healthz", hh.Ready)

	dh := a.routerCfg.DashboardHandler
	a.mux.Handle("GET /dashboard", a.protect(gate.ResourceStock, gate.ActionView, dh.Show))

	// Stock intake
	sh := a.routerCfg.StockHandler
	a.mux.Handle("GET /stock/new", a.protect(gate.ResourceStock, gate.ActionCreate, sh.New))
	a.mux.Handle("POST /stock/tv", a.protect(gate.ResourceStock, gate.ActionCreate, sh.AddTV))
	a.mux.Handle("POST /stock/tv/edit", a.protect(gate.ResourceStock, gate.ActionUpdate, sh.EditTV))
	a.mux.Handle("POST /stock/accessories", a.protect(gate.ResourceStock, gate.ActionCreate, sh.AddAccessory))

	// Sales, transfers and reversals
	sa := a.routerCfg.SalesHandler
	a.mux.Handle("POST /sales/tv/{channel}", a.protect(gate.ResourceSale, gate.ActionSell, sa.SellTV))
	a.mux.Handle("POST /sales/accessories", a.protect(gate.ResourceSale, gate.ActionSell, sa.SellAccessory))
	a.mux.Handle("POST /sales/delete", a.protect(gate.ResourceSale, gate.ActionDelete, sa.Delete))
	a.mux.Handle("POST /transfers", a.protect(gate.ResourceTransfer, gate.ActionTransfer, sa.Transfer))

	// History and exports
	hi := a.routerCfg.HistoryHandler
	a.mux.Handle("GET /sales/history", a.protect(gate.ResourceHistory, gate.ActionView, hi.List))
	a.mux.Handle("GET /sales/export/tv", a.protect(gate.ResourceHistory, gate.ActionExport, hi.ExportTV))
	a.mux.Handle("GET /sales/export/accessories", a.protect(gate.ResourceHistory, gate.ActionExport, hi.ExportAccessories))

	// JSON lookups
	api := a.routerCfg.APIHandler
	a.mux.Handle("GET /api/serials", a.protect(gate.ResourceStock, gate.ActionView, api.Serials))
	a.mux.Handle("GET /api/items", a.protect(gate.ResourceStock, gate.ActionView, api.Items))

	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}

// protect requires a signed-in principal holding resource:action.
func (a *App) protect(resource string, action gate.Action, h http.HandlerFunc) http.Handler {
	return auth.RequireAuth(a.routerCfg.AuthGate.RequirePermission(resource, action)(h))
}

func (a *App) landing(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.PrincipalFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withRequestLog tags each request with an id, echoed in X-Request-ID, and
// logs it once served. A client-supplied id is kept only if it is a UUID.
func (a *App) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.log.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
