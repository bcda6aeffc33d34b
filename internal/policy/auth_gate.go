package policy

import (
	"context"
	"net/http"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/gate"
	"github.com/diewo77/tvstock/httpx"
	"github.com/diewo77/tvstock/view"
)

// AuthGate checks the request principal against the role gate.
type AuthGate struct {
	Gate *gate.Gate[auth.Principal]
}

func NewAuthGate(g *gate.Gate[auth.Principal]) *AuthGate {
	return &AuthGate{Gate: g}
}

// Authorize checks the principal in ctx. Anonymous requests are unauthorized.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string) error {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, p, action, resourceType)
}

// Can is Authorize as a bool.
func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string) bool {
	return ag.Authorize(ctx, action, resourceType) == nil
}

// CanRequest adapts Can to the view's "can" template func.
func (ag *AuthGate) CanRequest(r *http.Request, resourceType, action string) bool {
	return ag.Can(r.Context(), gate.Action(action), resourceType)
}

// RequirePermission returns middleware answering 403 when the principal
// lacks resourceType:action.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ag.Can(r.Context(), action, resourceType) {
				forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter, r *http.Request) {
	if auth.WantsJSON(r) {
		httpx.JSONError(w, http.StatusForbidden, "unauthorized", nil)
		return
	}
	data := map[string]any{"Status": http.StatusForbidden, "Error": "You are not allowed to do that."}
	if err := view.RenderStatus(w, r, http.StatusForbidden, "error.html", data); err != nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
	}
}
