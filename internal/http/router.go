package http

import (
	"net/http"

	"jot/internal/auth"
	"jot/internal/config"
	"jot/internal/http/handler"
	mw "jot/internal/http/middleware"
	"jot/internal/note"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, codec *auth.JWT, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authSvc := &auth.Service{DB: db}
	ah := &handler.AuthHandler{Auth: authSvc, JWT: codec}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	// identity resolution only annotates; RequireUser does the rejecting
	identify := auth.Identify(codec, authSvc)

	me := &handler.MeHandler{}
	r.With(identify, auth.RequireUser).Get("/me", me.Me)

	noteH := &handler.NoteHandler{Notes: &note.Service{DB: db}}
	r.Route("/notes", func(r chi.Router) {
		r.Use(identify, auth.RequireUser)

		r.Get("/active", noteH.ListActive)
		r.Get("/archived", noteH.ListArchived)
		r.Post("/create", noteH.Create)
		r.Put("/{id}", noteH.Update)
		r.Put("/{id}/archive", noteH.ToggleArchive)
		r.Delete("/{id}", noteH.Delete)
	})

	tagH := &handler.TagHandler{Tags: &note.TagService{DB: db}}
	r.Route("/tags", func(r chi.Router) {
		r.Use(identify, auth.RequireUser)

		r.Get("/", tagH.List)
		r.Post("/", tagH.Create)
		r.Delete("/{id}", tagH.Delete)
	})

	return r
}
