package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/tvstock/auth"
	"github.com/diewo77/tvstock/httpx"
	"github.com/diewo77/tvstock/internal/db"
	"github.com/diewo77/tvstock/internal/models"
)

type AuthHandler struct {
	db            *gorm.DB
	sessions      *auth.Sessions
	log           *zap.Logger
	checkPassword func(hash, plain string) bool
}

func NewAuthHandler(conn *gorm.DB, sessions *auth.Sessions, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: conn, sessions: sessions, log: log.Named("auth"), checkPassword: db.CheckPassword}
}

// unknownUserHash is compared against when no user matches, so a miss costs
// the same bcrypt work as a wrong password.
var unknownUserHash = sync.OnceValue(func() string {
	hash, _ := db.HashPassword("no such user")
	return hash
})

// Login signs a user in by username or phone number.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if _, ok := auth.PrincipalFromContext(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		render(w, r, h.log, "login.html", nil)
		return
	}

	form, err := formValues(w, r)
	if err != nil {
		badRequest(w, r, h.log, err)
		return
	}
	login := strings.TrimSpace(form.Get("username"))
	password := form.Get("password")

	user, err := h.lookup(r.Context(), login)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		h.log.Error("login lookup", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	hash := unknownUserHash()
	if user != nil {
		hash = user.Password
	}
	if !h.checkPassword(hash, password) || user == nil {
		h.log.Info("login rejected", zap.String("login", login))
		if auth.WantsJSON(r) {
			httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
			return
		}
		renderStatus(w, r, h.log, http.StatusUnauthorized, "login.html", map[string]any{"Error": "Invalid credentials", "Username": login})
		return
	}

	p := auth.Principal{UserID: user.ID, Role: string(user.Role)}
	if err := h.sessions.CreateSession(w, p); err != nil {
		h.log.Error("create session", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.log.Info("login", zap.Uint("user_id", user.ID), zap.String("role", p.Role))
	succeed(w, r, http.StatusOK, "/dashboard", map[string]any{"user_id": user.ID, "role": p.Role})
}

func (h *AuthHandler) lookup(ctx context.Context, login string) (*models.User, error) {
	if login == "" {
		return nil, nil
	}
	var user models.User
	err := h.db.WithContext(ctx).
		Where("username = ? OR phone_no = ?", login, login).
		Order("id").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// VerifyUser rejects sessions whose user was removed or changed role.
func VerifyUser(db *gorm.DB) auth.UserVerifier {
	return func(ctx context.Context, p auth.Principal) bool {
		var count int64
		err := db.WithContext(ctx).Model(&models.User{}).
			Where("id = ? AND role = ?", p.UserID, p.Role).
			Count(&count).Error
		return err == nil && count > 0
	}
}
