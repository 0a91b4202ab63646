package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"yatube/internal/models"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, http.StatusOK, "signup", map[string]any{"User": s.currentUser(r)})
	case http.MethodPost:
		email := strings.TrimSpace(r.FormValue("email"))
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		if email == "" || username == "" || password == "" {
			s.renderSignupError(w, "all fields are required")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			s.serverError(w, err)
			return
		}
		err = models.CreateUser(s.DB, email, username, string(hash))
		switch {
		case errors.Is(err, models.ErrDuplicateEmail), errors.Is(err, models.ErrDuplicateUsername):
			s.renderSignupError(w, err.Error())
			return
		case err != nil:
			s.serverError(w, err)
			return
		}
		http.Redirect(w, r, "/auth/login/", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderSignupError(w http.ResponseWriter, msg string) {
	s.render(w, http.StatusUnprocessableEntity, "signup", map[string]any{"Error": msg})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, http.StatusOK, "login", map[string]any{
			"Next": r.URL.Query().Get("next"),
			"User": s.currentUser(r),
		})
	case http.MethodPost:
		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		next := r.FormValue("next")

		user, err := models.GetUserByEmail(s.DB, email)
		if errors.Is(err, models.ErrNotFound) {
			s.renderLoginError(w, next)
			return
		}
		if err != nil {
			s.serverError(w, err)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			s.renderLoginError(w, next)
			return
		}

		sid := uuid.NewString()
		expires := time.Now().Add(s.SessionTTL)
		if err := models.CreateSession(s.DB, user.ID, sid, expires); err != nil {
			s.serverError(w, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     s.CookieName,
			Value:    sid,
			Path:     "/",
			Expires:  expires,
			HttpOnly: true,
		})
		http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderLoginError(w http.ResponseWriter, next string) {
	s.render(w, http.StatusUnprocessableEntity, "login", map[string]any{
		"Error": "invalid email or password",
		"Next":  next,
	})
}

// safeNext keeps the post-login redirect on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie(s.CookieName); err == nil {
		if err := models.RevokeSession(s.DB, cookie.Value); err != nil {
			s.serverError(w, err)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: s.CookieName, Path: "/", MaxAge: -1})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
