package wire

import (
	"net/http"

	"yamdb/internal/adaptor"
	"yamdb/internal/data/repository"
	"yamdb/internal/usecase"
	"yamdb/pkg/middleware"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired HTTP router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes from the repositories.
func Wiring(
	repo *repository.Repository,
	mailer usecase.Mailer,
	limiter usecase.Limiter,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, mailer, limiter, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.StripSlashes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseMethodNotAllowed(w, "Method \""+r.Method+"\" not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(config.JWT.Secret, repo.User, logger))

		wireAuth(r, handler.Auth)
		wireUser(r, handler.User)
		wireCatalog(r, handler.Genre, handler.Category)
		wireTitle(r, handler.Title)
		wireReview(r, handler.Review, handler.Comment)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
