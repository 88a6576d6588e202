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

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Like a take.
	r.HandleFunc("/like/{take_id:[0-9]+}", s.requireAuth(s.handleLike)).Methods("POST")

	// Unlike a previously liked take.
	r.HandleFunc("/unlike/{take_id:[0-9]+}", s.requireAuth(s.handleUnlike)).Methods("POST")
}

// handleLike handles the route "POST /like/{take_id}".
// The toggle is idempotent: liking a take twice changes nothing and is not
// an error. Only a toggle that actually changed state gets broadcast.
func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	s.handleToggle(w, r, s.ls.Add, domain.EventTakeLiked)
}

// handleUnlike handles the route "POST /unlike/{take_id}".
// Unliking a take that was never liked is a no-op.
func (s *Server) handleUnlike(w http.ResponseWriter, r *http.Request) {
	s.handleToggle(w, r, s.ls.Remove, domain.EventTakeUnliked)
}

// handleToggle runs one side of the like toggle and broadcasts the take's
// fresh feed view when the toggle changed anything.
func (s *Server) handleToggle(
	w http.ResponseWriter,
	r *http.Request,
	toggle func(userID, takeID int) (bool, error),
	event string,
) {
	takeID, err := strconv.Atoi(mux.Vars(r)["take_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := auth.GetUser(r.Context())
	changed, err := toggle(user.ID, takeID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	view, err := s.fs.View(takeID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if changed {
		s.hub.Publish(event, view)
	}

	if err := json.NewEncoder(w).Encode(view); err != nil {
		errs.LogError(r, err)
	}
}
