// internal/server/router.go
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"quiz-platform/internal/answer"
	"quiz-platform/internal/auth"
	"quiz-platform/internal/cabinet"
	"quiz-platform/pkg/monitoring"
	"quiz-platform/pkg/security"
	"quiz-platform/pkg/tracing"
	"quiz-platform/pkg/websocket"
)

const DeleteAnswersPermission = "answers:delete"

type Deps struct {
	Answers        *answer.Handler
	Cabinet        *cabinet.Handler
	Hub            *websocket.Hub
	SubmitLimiter  *security.RateLimiter
	JWTSecret      string
	AllowedOrigins []string
}

func NewRouter(d Deps) http.Handler {
	router := mux.NewRouter()
	router.Use(tracing.Middleware, monitoring.Middleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", monitoring.Handler()).Methods(http.MethodGet)

	if d.Hub != nil {
		router.HandleFunc("/ws", d.Hub.HandleWebSocket)
	}

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(d.JWTSecret))

	submitGuard := func(next http.Handler) http.Handler { return next }
	if d.SubmitLimiter != nil {
		submitGuard = d.SubmitLimiter.Middleware
	}
	d.Answers.RegisterRoutes(apiRouter, auth.RequirePermission(DeleteAnswersPermission), submitGuard)
	d.Cabinet.RegisterRoutes(apiRouter)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return corsMiddleware.Handler(router)
}
