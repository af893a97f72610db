package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmoralesdev/mediavault-backend/api/controllers"
	"github.com/rmoralesdev/mediavault-backend/api/middleware"
	authsvc "github.com/rmoralesdev/mediavault-backend/internal/auth"
	"github.com/rmoralesdev/mediavault-backend/internal/gallery"
	"github.com/rmoralesdev/mediavault-backend/internal/uploads"
	"github.com/rmoralesdev/mediavault-backend/pkg/config"
	"github.com/rmoralesdev/mediavault-backend/pkg/db"
	"github.com/rmoralesdev/mediavault-backend/pkg/enums"
	"github.com/rmoralesdev/mediavault-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	dbP db.Pinger,
	authService authsvc.Service,
	galleryService gallery.Service,
	uploadService uploads.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.NotFound(controllers.NotFound(logg))
	r.MethodNotAllowed(controllers.MethodNotAllowed(logg))

	r.Get("/", controllers.Root(cfg))
	r.Get("/health", controllers.Health(galleryService, dbP, logg))
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	imageType := enums.MediaTypeImage
	gifType := enums.MediaTypeGIF

	r.Route("/api/media", func(r chi.Router) {
		r.Get("/all-images", controllers.ListByType(galleryService, imageType, logg))
		r.Get("/all-gifs", controllers.ListByType(galleryService, gifType, logg))

		// Static segments win over {category}, so /random/image and
		// /random/gif never collide with the category form.
		r.Route("/random", func(r chi.Router) {
			r.Get("/", controllers.Random(galleryService, nil, logg))
			r.Get("/image", controllers.Random(galleryService, &imageType, logg))
			r.Get("/gif", controllers.Random(galleryService, &gifType, logg))
			r.Get("/image/{category}", controllers.Random(galleryService, &imageType, logg))
			r.Get("/gif/{category}", controllers.Random(galleryService, &gifType, logg))
			r.Get("/{category}", controllers.Random(galleryService, nil, logg))
		})

		r.Get("/image/id/{id}", controllers.GetByID(galleryService, imageType, logg))
		r.Get("/gif/id/{id}", controllers.GetByID(galleryService, gifType, logg))

		r.Get("/search/image", controllers.Search(galleryService, imageType, logg))
		r.Get("/search/gif", controllers.Search(galleryService, gifType, logg))

		r.Get("/image/{category}", controllers.ByCategory(galleryService, imageType, logg))
		r.Get("/gif/{category}", controllers.ByCategory(galleryService, gifType, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", controllers.AdminLogin(authService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireAdmin(logg))

			r.Get("/init-db", controllers.InitDB(galleryService, logg))
			r.Get("/stats", controllers.Stats(galleryService, logg))
			r.Get("/tables", controllers.Tables(galleryService, logg))
			r.Post("/bulk-upload", controllers.BulkUpload(uploadService, cfg.Media, logg))
		})
	})

	return r
}
