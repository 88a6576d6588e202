package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"hottakes/auth"
	"hottakes/crud"
	"hottakes/domain"
	"hottakes/errs"
	"hottakes/feed"
)

// Server provides the http functionality of the app, namely routing,
// request handling, and middleware. It authenticates requests and applies
// the posting gate before handing things over to the crud services, and
// pushes feed events into the hub after successful writes.
type Server struct {
	server *http.Server
	router *mux.Router
	logger zerolog.Logger

	us domain.UserService
	ts domain.TakeService
	ls domain.LikeService
	fs domain.FeedService

	hub    *feed.Hub
	tokens *auth.TokenManager

	// gateOverride bypasses the Thursday rule in non-production deployments.
	gateOverride bool

	// now is the server's clock, swapped out in tests.
	now func() time.Time
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the services passed in.
func NewServer(
	services *crud.Services,
	hub *feed.Hub,
	tokens *auth.TokenManager,
	gateOverride bool,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		router:       mux.NewRouter(),
		logger:       logger,
		us:           services.User,
		ts:           services.Take,
		ls:           services.Like,
		fs:           services.Feed,
		hub:          hub,
		tokens:       tokens,
		gateOverride: gateOverride,
		now:          time.Now,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)

	// Register routes of the take feed.
	s.registerTakeRoutes(s.router)
	s.registerLikeRoutes(s.router)
	s.registerFeedRoutes(s.router)

	// Set up middleware that needs to run on every request.
	s.router.Use(setContentTypeJSON, s.withUser)
	return s
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The withUser middleware resolves a bearer token to its user and puts the
// user into the request context. Requests without a valid token pass through
// unauthenticated, requireAuth is what rejects them.
func (s *Server) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := s.tokens.Verify(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByID(userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects any request that didn't resolve to a user.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Authentication required."))
			return
		}
		next.ServeHTTP(w, r)
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// ListenAndServe starts to listen and serve on the specified port.
// It blocks until Shutdown is called or the listener fails.
func (s *Server) ListenAndServe(port int) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	s.logger.Info().Int("port", port).Msg("http: listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
