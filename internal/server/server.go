package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hyunwoopark/meritpoint/internal/actors"
	"github.com/hyunwoopark/meritpoint/internal/auth"
	"github.com/hyunwoopark/meritpoint/internal/handler"
	"github.com/hyunwoopark/meritpoint/internal/middleware"
	"github.com/hyunwoopark/meritpoint/internal/points"
	"github.com/hyunwoopark/meritpoint/internal/store"
	ws "github.com/hyunwoopark/meritpoint/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	pointH      *handler.PointHandler
	actorH      *handler.ActorHandler
	actorStore  *store.ActorStore
	rateLimiter *middleware.RateLimiter
	jwtSecret   []byte
	logger      *slog.Logger
}

func New(db *sql.DB, jwtSecret []byte, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	actorStore := store.NewActorStore(db)
	pointStore := store.NewPointStore(db)
	redemptionStore := store.NewRedemptionStore(db)

	pointSvc := points.NewService(actorStore, pointStore, redemptionStore, logger.With("component", "points"))
	actorSvc := actors.NewService(actorStore, logger.With("component", "actors"))

	return &Server{
		db:          db,
		hub:         hub,
		pointH:      handler.NewPointHandler(pointSvc, hub, logger.With("component", "point_handler")),
		actorH:      handler.NewActorHandler(actorSvc, actorStore, logger.With("component", "actor_handler")),
		actorStore:  actorStore,
		rateLimiter: middleware.NewRateLimiter(),
		jwtSecret:   jwtSecret,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.actorStore, s.jwtSecret)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// rateLimitedHandler throttles mutation endpoints per actor so a stuck
// client cannot flood the ledger.
func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		if actor, ok := auth.ActorFromContext(r.Context()); ok {
			return actor.SN
		}
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 30, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Points API
	mux.HandleFunc("POST /api/points", s.rateLimitedHandler(s.pointH.Create))
	mux.HandleFunc("GET /api/points", s.pointH.List)
	mux.HandleFunc("GET /api/points/pending", s.pointH.Pending)
	mux.HandleFunc("GET /api/points/counts", s.pointH.Counts)
	mux.HandleFunc("GET /api/points/summary/{sn}", s.pointH.Summary)
	mux.HandleFunc("POST /api/points/{id}/verify", s.pointH.Verify)
	mux.HandleFunc("DELETE /api/points/{id}", s.pointH.Delete)

	// Redemptions API
	mux.HandleFunc("POST /api/redemptions", s.rateLimitedHandler(s.pointH.Redeem))

	// Actors API
	mux.HandleFunc("GET /api/commanders", s.actorH.Commanders)
	mux.HandleFunc("PUT /api/actors/{sn}/capabilities", s.actorH.UpdateCapabilities)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
