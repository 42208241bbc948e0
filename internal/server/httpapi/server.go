package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dkrasnov-dev/baraholka/internal/logging"
	"github.com/dkrasnov-dev/baraholka/internal/server/config"
	"github.com/dkrasnov-dev/baraholka/internal/server/services"
)

// Server bundles the services behind the JSON API.
type Server struct {
	cfg    *config.Config
	logger logging.Logger

	accounts    *services.AccountService
	resetTokens *services.ResetTokenService
	ratings     *services.RatingService
	listings    *services.ListingService
	messages    *services.MessageService
	deletions   *services.DeletionService
	photos      *services.PhotoService
}

func NewServer(
	cfg *config.Config,
	logger logging.Logger,
	accounts *services.AccountService,
	resetTokens *services.ResetTokenService,
	ratings *services.RatingService,
	listings *services.ListingService,
	messages *services.MessageService,
	deletions *services.DeletionService,
	photos *services.PhotoService,
) *Server {
	return &Server{
		cfg:         cfg,
		logger:      logger,
		accounts:    accounts,
		resetTokens: resetTokens,
		ratings:     ratings,
		listings:    listings,
		messages:    messages,
		deletions:   deletions,
		photos:      photos,
	}
}

// Router assembles the chi router: CORS, a health probe, the public auth and
// listing routes, and the bearer-protected group.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Post("/api/auth/register", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/forgot-password", s.handleForgotPassword)
	r.Post("/api/auth/reset-password", s.handleResetPassword)

	r.Get("/api/listings", s.handleListListings)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAccount)
		r.Post("/api/ratings", s.handleSubmitRating)
		r.Post("/api/messages", s.handleSendMessage)
		r.Post("/api/listings", s.handleCreateListing)
		r.Post("/api/listings/photo-url", s.handlePhotoUploadURL)
		r.Post("/api/listings/{id}/photo", s.handleAttachPhoto)
		r.Post("/api/listings/{id}/comments", s.handleAddComment)
		r.Delete("/api/account", s.handleDeleteAccount)
	})

	return r
}
