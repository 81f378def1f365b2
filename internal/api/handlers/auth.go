package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/brfrastenen/brfweb/internal/api/middleware"
	"github.com/brfrastenen/brfweb/internal/config"
	"github.com/brfrastenen/brfweb/internal/identity"
	"github.com/brfrastenen/brfweb/internal/obs"
	"github.com/brfrastenen/brfweb/internal/service"
	"github.com/brfrastenen/brfweb/internal/web"
)

type AuthHandler struct {
	authService *service.AuthService
	audit       *service.AuditService
	// local is the development login provider; nil in production.
	local    *identity.LocalVerifier
	renderer *web.Renderer
	cfg      *config.Config
}

func NewAuthHandler(authService *service.AuthService, audit *service.AuditService, local *identity.LocalVerifier, renderer *web.Renderer, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		audit:       audit,
		local:       local,
		renderer:    renderer,
		cfg:         cfg,
	}
}

type loginRequest struct {
	IDToken  string `json:"idToken"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success  bool       `json:"success"`
	Redirect string     `json:"redirect,omitempty"`
	Message  string     `json:"message,omitempty"`
	Details  string     `json:"details,omitempty"`
	User     *loginUser `json:"user,omitempty"`
}

type loginUser struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// LoginPage renders the login form. A caller who already holds a
// valid artifact goes straight to the dashboard.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := h.authService.VerifyArtifact(cookie.Value); err == nil {
			http.Redirect(w, r, h.cfg.BaseURL+"/admin/dashboard", http.StatusFound)
			return
		}
		middleware.ClearSessionCookies(w, h.cfg.IsProduction())
	}

	h.renderer.Render(w, http.StatusOK, "admin/login", web.Data{
		Title:       "Styrelse-inloggning",
		CurrentPage: "/admin/login",
		Flash:       web.PopFlash(w, r),
	})
}

// BeginSession exchanges a one-time ID token for the session cookies.
// In development an email/password pair is accepted and exchanged
// against the local provider first.
func (h *AuthHandler) BeginSession(w http.ResponseWriter, r *http.Request) {
	req, isJSON := h.decodeLogin(r)

	idToken := req.IDToken
	if idToken == "" && h.local != nil && req.Email != "" {
		token, err := h.local.IssueIDToken(req.Email, req.Password)
		if err != nil {
			h.loginFailed(w, r, isJSON, err)
			return
		}
		idToken = token
	}

	tokens, principal, err := h.authService.BeginSession(r.Context(), idToken)
	if err != nil {
		h.loginFailed(w, r, isJSON, err)
		return
	}

	obs.IncAuthOutcome("ok")
	h.setSessionCookies(w, tokens)
	h.audit.Record(r.Context(), principal.UID, "auth.login", "", map[string]any{
		"email": principal.Email,
	})

	redirect := h.cfg.BaseURL + "/admin/dashboard"
	if isJSON {
		writeJSON(w, http.StatusOK, loginResponse{
			Success:  true,
			Redirect: redirect,
			User:     &loginUser{UID: principal.UID, Email: principal.Email},
		})
		return
	}
	http.Redirect(w, r, redirect, http.StatusFound)
}

// Dashboard renders the admin landing page for a gated principal.
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	h.renderer.Render(w, http.StatusOK, "admin/dashboard", web.Data{
		Title:       "Admin Dashboard",
		CurrentPage: "/admin/dashboard",
		User:        principal,
		Flash:       web.PopFlash(w, r),
	})
}

// Logout clears the client-held cookies and redirects to the login
// page. It succeeds even when no valid session was present.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.WebSessionCookieName); err == nil {
		if principal, err := h.authService.ReadWebSession(cookie.Value); err == nil {
			h.audit.Record(r.Context(), principal.UID, "auth.logout", "", nil)
		}
	}

	obs.IncAuthOutcome("logout")
	middleware.ClearSessionCookies(w, h.cfg.IsProduction())
	http.Redirect(w, r, h.cfg.BaseURL+"/admin/login?logout=success", http.StatusFound)
}

func (h *AuthHandler) decodeLogin(r *http.Request) (loginRequest, bool) {
	var req loginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR [handlers.Auth] decoding login body: %v", err)
		}
		return req, true
	}

	if err := r.ParseForm(); err != nil {
		log.Printf("ERROR [handlers.Auth] parsing login form: %v", err)
	}
	req.IDToken = r.PostFormValue("idToken")
	req.Email = r.PostFormValue("email")
	req.Password = r.PostFormValue("password")
	return req, false
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, isJSON bool, cause error) {
	// Operator logs get the cause; clients get the generic message.
	log.Printf("ERROR [handlers.Auth] authentication failed: %v", cause)
	obs.IncAuthOutcome("rejected")

	if isJSON {
		resp := loginResponse{Success: false, Message: "Autentiseringsfel"}
		if h.cfg.IsDevelopment() {
			resp.Details = cause.Error()
		}
		writeJSON(w, http.StatusUnauthorized, resp)
		return
	}

	web.SetFlash(w, web.Flash{Type: "danger", Text: "Autentiseringsfel"}, h.cfg.IsProduction())
	http.Redirect(w, r, h.cfg.BaseURL+"/admin/login", http.StatusFound)
}

func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, tokens *service.SessionTokens) {
	secure := h.cfg.IsProduction()
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    tokens.Artifact,
		Path:     "/",
		MaxAge:   int(h.cfg.SessionCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.WebSessionCookieName,
		Value:    tokens.WebSession,
		Path:     "/",
		MaxAge:   int(h.cfg.WebSessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR [handlers] encoding response: %v", err)
	}
}
