package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"hottakes/auth"
	"hottakes/domain"
	"hottakes/errs"
)

// registerTakeRoutes is a helper for registering all Take routes.
func (s *Server) registerTakeRoutes(r *mux.Router) {
	// Post a new take.
	r.HandleFunc("/take", s.requireAuth(s.handleCreateTake)).Methods("POST")

	// Delete an existing take. Only its owner may do that.
	r.HandleFunc("/take/delete/{id:[0-9]+}", s.requireAuth(s.handleDeleteTake)).Methods("DELETE")
}

// createTakeRequest is the json body of a take creation request.
type createTakeRequest struct {
	Contents string `json:"contents"`
}

// handleCreateTake handles the route "POST /take".
// It applies the posting gate, validates and persists the take, and
// broadcasts the created take to all feed subscribers.
func (s *Server) handleCreateTake(w http.ResponseWriter, r *http.Request) {
	// The gate runs fresh on every attempt, it is deliberately not cached.
	if !domain.PostingAllowed(s.now(), s.gateOverride) {
		errs.ReturnError(w, r, errs.Errorf(errs.EFORBIDDEN, "It's not Thursday."))
		return
	}

	var req createTakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := auth.GetUser(r.Context())
	take := domain.Take{
		UserID:   user.ID,
		Contents: req.Contents,
	}
	if err := s.ts.Create(&take); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	view, err := s.fs.View(take.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	s.hub.Publish(domain.EventTakeCreated, view)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(view); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteTake handles the route "DELETE /take/delete/{id}".
// It deletes the take and all of its likes, provided the authed user owns it.
func (s *Server) handleDeleteTake(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := auth.GetUser(r.Context())
	if err := s.ts.Delete(id, user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	response := map[string]string{"message": "Take deleted."}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}
