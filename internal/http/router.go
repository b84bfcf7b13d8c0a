package http

import (
	"net/http"

	"chapterhub/internal/auth"
	"chapterhub/internal/catalog"
	"chapterhub/internal/chapter"
	"chapterhub/internal/config"
	"chapterhub/internal/http/handler"
	mw "chapterhub/internal/http/middleware"
	"chapterhub/internal/reminder"
	"chapterhub/internal/schedule"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, jwtSvc *auth.JWT, coord *reminder.Coordinator) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: db, JWT: jwtSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{DB: db}
	r.With(auth.RequireAuth(jwtSvc)).Get("/me", me.Me)

	catalogSvc := &catalog.Service{DB: db}
	eh := &handler.EventHandler{Catalog: catalogSvc}

	r.Route("/events", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/", eh.List)
		r.Get("/{id}", eh.Get)
	})

	ch := &handler.ChapterHandler{Svc: &chapter.Service{DB: db}}
	r.With(auth.RequireAuth(jwtSvc)).Get("/announcements", ch.Announcements)
	r.With(auth.RequireAuth(jwtSvc)).Get("/resources", ch.Resources)

	sh := &handler.ScheduleHandler{
		Store:       &schedule.Store{DB: db},
		Catalog:     catalogSvc,
		Coordinator: coord,
	}

	r.Route("/schedule", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/", sh.List)
		r.Post("/{eventID}", sh.Add)
		r.Delete("/{eventID}", sh.Remove)
		r.Patch("/{eventID}/reminder", sh.UpdateReminder)

		r.Get("/reminders/due", sh.Due)
		r.Post("/reminders/dispatch", sh.Dispatch)
	})

	return r
}
