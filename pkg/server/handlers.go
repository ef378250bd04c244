package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nutnell/marketminds/pkg/auth"
	"github.com/nutnell/marketminds/pkg/providers"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleToken implements the password login flow: form-encoded
// username/password in, bearer token out.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form data")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if err := s.deps.Users.Authenticate(r.Context(), username, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		slog.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, _, err := s.deps.Tokens.Issue(username)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if err := s.deps.Users.Create(r.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeError(w, http.StatusConflict, "username already registered")
			return
		}
		slog.Error("signup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "signup failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "user created"})
}

type queryRequest struct {
	Input string `json:"input"`
}

// handleQuery answers one research query. Provider exhaustion surfaces
// as a normal answer; only extraction or routing failures are 500s.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	sessionKey := "anonymous"
	if claims := auth.GetClaims(r); claims != nil {
		sessionKey = claims.Subject
	}

	answer, err := s.deps.Orchestrator.Answer(r.Context(), req.Input, sessionKey)
	if err != nil {
		slog.Error("query failed", "session", sessionKey, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.deps.Sessions != nil {
		if _, err := s.deps.Sessions.Record(r.Context(), sessionKey, req.Input, answer); err != nil {
			slog.Warn("failed to record exchange", "session", sessionKey, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"result": answer,
		"user":   sessionKey,
	})
}

// handleInternalNews runs the news chain directly. Unauthenticated;
// meant for internal automation, not public exposure.
func (s *Server) handleInternalNews(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result := s.deps.NewsChain.Invoke(r.Context(), providers.Params{Company: query})
	writeJSON(w, http.StatusOK, map[string]string{"news_summary": result.Display()})
}
