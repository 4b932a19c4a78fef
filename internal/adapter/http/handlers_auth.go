package adapthttp

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"jobboard/internal/app"
	"jobboard/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
)

type identityResponse struct {
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func identityPayload(identity *domain.Identity) identityResponse {
	return identityResponse{ID: identity.ID, Email: identity.Email, Role: identity.Role}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=72"`
		Role     string `json:"role" validate:"required,oneof=CANDIDATE EMPLOYER"`
		Mobile   string `json:"mobile" validate:"omitempty,e164"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := checkStruct(req); err != nil {
		s.writeError(w, err)
		return
	}

	identity, token, err := s.auth.Signup(r.Context(), req.Email, req.Password, domain.Role(req.Role), req.Mobile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "user": identityPayload(identity)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := checkStruct(req); err != nil {
		s.writeError(w, err)
		return
	}

	identity, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": identityPayload(identity)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		_ = s.auth.Logout(r.Context(), cookie.Value)
	}
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, err := app.RequireIdentity(IdentityFromContext(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": identityPayload(identity)})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, err := app.RequireIdentity(IdentityFromContext(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword" validate:"required"`
		NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
	}
	if err := parseJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := checkStruct(req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.auth.ChangePassword(r.Context(), identity.ID, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeError(w, err)
		return
	}
	// Every session is gone, including this one.
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if !s.oidcConfig.Enabled {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "sso disabled"})
		return
	}
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.production,
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   300,
	})
	http.Redirect(w, r, s.oidcConfig.OAuth2Config.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if !s.oidcConfig.Enabled {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "sso disabled"})
		return
	}

	state, err := r.Cookie("oauth_state")
	if err != nil || r.URL.Query().Get("state") != state.Value {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid state"})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", MaxAge: -1, Path: "/"})

	token, err := s.oidcConfig.OAuth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to exchange token"})
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no id_token"})
		return
	}

	idToken, err := s.oidcConfig.Provider.Verifier(&oidc.Config{ClientID: s.oidcConfig.OAuth2Config.ClientID}).Verify(r.Context(), rawIDToken)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to verify token"})
		return
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err = idToken.Claims(&claims); err != nil || claims.Email == "" {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to parse claims"})
		return
	}

	sessionToken, err := s.auth.LoginWithSSO(r.Context(), claims.Email)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.setSessionCookie(w, sessionToken)
	http.Redirect(w, r, "/", http.StatusFound)
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
