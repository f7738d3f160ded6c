package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jcbcommunity/internal/metrics"
	"jcbcommunity/internal/middleware"
)

// Route names referenced by middleware.
const (
	RouteReactToPost  = "reactToPost"
	RouteReactToReply = "reactToReply"
)

// ExemptFromRateLimit lists the routes a RateLimiter must let through.
var ExemptFromRateLimit = []string{RouteReactToPost, RouteReactToReply}

func protected(f http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(f)
}

// Routes builds the API router. Authentication runs first so the request log
// carries the caller; metrics and the rate limiter need the matched route.
func (h *Handlers) Routes(parser middleware.TokenParser, limiter *middleware.RateLimiter, m *metrics.Metrics) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "route not found", http.StatusNotFound)
	})

	router.Use(
		mux.MiddlewareFunc(middleware.Authenticate(parser)),
		mux.MiddlewareFunc(middleware.LoggingMiddleware(h.Logger)),
		mux.MiddlewareFunc(middleware.MetricsMiddleware(m)),
		limiter.Middleware,
	)

	router.HandleFunc("/", h.HomeHandler).Methods(http.MethodGet).Name("home")
	router.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet).Name("health")
	router.HandleFunc("/tables", h.TablesHandler).Methods(http.MethodGet).Name("tables")
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("metrics")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/hello", h.Hello).Methods(http.MethodGet).Name("hello")

	api.HandleFunc("/auth/signup", h.Signup).Methods(http.MethodPost).Name("signup")
	api.HandleFunc("/auth/signin", h.Signin).Methods(http.MethodPost).Name("signin")
	api.HandleFunc("/auth/refresh-token", h.RefreshToken).Methods(http.MethodPost).Name("refreshToken")

	api.Handle("/me", protected(h.GetCurrentUser)).Methods(http.MethodGet).Name("me")
	api.Handle("/me", protected(h.UpdateCurrentUser)).Methods(http.MethodPut).Name("updateProfile")
	api.HandleFunc("/users/{userId}", h.GetUser).Methods(http.MethodGet).Name("getUser")

	api.HandleFunc("/posts", h.GetPosts).Methods(http.MethodGet).Name("listPosts")
	api.Handle("/posts", protected(h.CreatePost)).Methods(http.MethodPost).Name("createPost")
	api.Handle("/posts/latest", protected(h.GetLatestPost)).Methods(http.MethodGet).Name("getLatest")
	api.Handle("/posts/{postId}/replies", protected(h.CreateReply)).Methods(http.MethodPost).Name("createReply")
	api.Handle("/posts/{postId}/reactions", protected(h.ReactToPost)).Methods(http.MethodPost).Name(RouteReactToPost)
	api.Handle("/replies/{replyId}/reactions", protected(h.ReactToReply)).Methods(http.MethodPost).Name(RouteReactToReply)

	api.Handle("/uploads/presign", protected(h.GenerateUploadURL)).Methods(http.MethodPost).Name("generateUploadUrl")
	api.Handle("/uploads", protected(h.UploadFile)).Methods(http.MethodPost).Name("uploadFile")
	api.Handle("/uploads/url", protected(h.GetFileURL)).Methods(http.MethodGet).Name("getFileUrl")
	api.HandleFunc("/uploads/verify", h.VerifyStorageAccess).Methods(http.MethodGet).Name("verifyStorageAccess")

	return router
}
