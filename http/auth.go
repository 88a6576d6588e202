package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"hottakes/auth"
	"hottakes/domain"
	"hottakes/errs"
)

// registerAuthRoutes is a helper for registering all routes of the
// identity provider: account creation, login, logout and the profile echo.
func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.requireAuth(s.handleLogout)).Methods("POST")
	r.HandleFunc("/me", s.requireAuth(s.handleMe)).Methods("GET")
}

// registerRequest is the json body of a registration request.
// Username is optional, a missing one gets generated.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// loginRequest is the json body of a login request.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is returned by register and login: the user plus a
// bearer token for subsequent requests.
type sessionResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// handleRegister handles the route "POST /register".
// It creates a new user account and signs it in right away.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := domain.User{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	}
	if err := s.us.Create(&user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&sessionResponse{User: &user, Token: token}); err != nil {
		errs.LogError(r, err)
	}
}

// handleLogin handles the route "POST /login".
// It checks the credentials and issues a fresh bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user, err := s.us.Authenticate(req.Email, req.Password)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(&sessionResponse{User: user, Token: token}); err != nil {
		errs.LogError(r, err)
	}
}

// handleLogout handles the route "POST /logout".
// It puts the presented token on the denylist, so it stops authenticating
// even though it hasn't expired yet.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.tokens.Revoke(bearerToken(r)); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	response := map[string]string{"message": "Successfully logged out."}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// handleMe handles the route "GET /me".
// It echoes the authenticated user.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
	}
}
