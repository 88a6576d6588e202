package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"hottakes/domain"
	"hottakes/errs"
	"hottakes/feed"
)

// registerFeedRoutes is a helper for registering all feed routes.
// The feed is a public read path, none of these require authentication.
func (s *Server) registerFeedRoutes(r *mux.Router) {
	// The whole feed, or a slice of it when from/until are given.
	r.HandleFunc("/feed", s.handleFeed).Methods("GET")

	// Today's takes, on a fixed rolling window.
	r.HandleFunc("/feed/today", s.handleFeedToday).Methods("GET")

	// Live feed subscription via websocket.
	r.HandleFunc("/feed/subscribe", s.handleFeedSubscribe).Methods("GET")
}

// handleFeed handles the route "GET /feed".
// Without parameters it returns all takes, most recent first. An optional
// closed window can be given with the query parameters "from" and "until"
// as RFC 3339 timestamps, both must be present together.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	views, err := s.fs.Query(window)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(views); err != nil {
		errs.LogError(r, err)
	}
}

// handleFeedToday handles the route "GET /feed/today".
// It returns the takes of the rolling 27-hours-back, 3-hours-ahead window.
func (s *Server) handleFeedToday(w http.ResponseWriter, r *http.Request) {
	window := domain.TodayWindow(s.now())
	views, err := s.fs.Query(&window)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(views); err != nil {
		errs.LogError(r, err)
	}
}

// handleFeedSubscribe handles the route "GET /feed/subscribe".
// It upgrades the connection to a websocket and joins it to the live feed.
func (s *Server) handleFeedSubscribe(w http.ResponseWriter, r *http.Request) {
	feed.ServeWS(s.hub, w, r)
}

// windowFromQuery parses the optional from/until query parameters.
// Returns nil when neither is present.
func windowFromQuery(r *http.Request) (*domain.TimeRange, error) {
	fromParam := r.URL.Query().Get("from")
	untilParam := r.URL.Query().Get("until")
	if fromParam == "" && untilParam == "" {
		return nil, nil
	}
	if fromParam == "" || untilParam == "" {
		return nil, errs.Errorf(errs.EINVALID, "Both from and until are required for a windowed feed.")
	}
	from, err := time.Parse(time.RFC3339, fromParam)
	if err != nil {
		return nil, errs.Errorf(errs.EINVALID, "Invalid from timestamp, use RFC 3339.")
	}
	until, err := time.Parse(time.RFC3339, untilParam)
	if err != nil {
		return nil, errs.Errorf(errs.EINVALID, "Invalid until timestamp, use RFC 3339.")
	}
	if until.Before(from) {
		return nil, errs.Errorf(errs.EINVALID, "The window must not end before it starts.")
	}
	return &domain.TimeRange{From: from, Until: until}, nil
}
