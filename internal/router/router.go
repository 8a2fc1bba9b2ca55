package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-care-manager/docs" // registra el spec de swagger

	"pet-care-manager/internal/adapters/blob"
	mem "pet-care-manager/internal/adapters/storage/memory"
	"pet-care-manager/internal/domain/access"
	"pet-care-manager/internal/domain/agenda"
	"pet-care-manager/internal/domain/expenses"
	"pet-care-manager/internal/domain/healthrecords"
	"pet-care-manager/internal/domain/pets"
	"pet-care-manager/internal/domain/reports"
	"pet-care-manager/internal/middleware"
	"pet-care-manager/internal/platform/logger"
	"pet-care-manager/internal/platform/metrics"
	"pet-care-manager/internal/ports/auth"
	"pet-care-manager/internal/ports/blobstore"
)

// Store es lo que necesita el router de la capa de persistencia.
// Lo implementan memory.Store y sqlstore.Store.
type Store interface {
	Pets() pets.Repository
	Agenda() agenda.Repository
	Expenses() expenses.Repository
	HealthRecords() healthrecords.Repository
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si no viene, in-memory.
	Store Store
	// Opcional: solo para el ping de /health.
	DB *sql.DB

	Blobs          blobstore.Store // default: memoria
	MaxUploadBytes int64

	DeletionRule access.DeletionRule

	Logger  logger.Logger
	Metrics *metrics.Metrics
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	store := opts.Store
	if store == nil {
		store = mem.NewStore()
	}
	var blobs blobstore.Store = blob.NewMemory()
	if opts.Blobs != nil {
		blobs = opts.Blobs
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover)
	r.Use(m.Middleware)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", healthHandler(opts.DB))
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Services por módulo
	petsSvc := pets.NewService(store.Pets())
	policy := access.NewPolicy(petsSvc,
		access.WithDeletionRule(opts.DeletionRule),
		access.WithDenialRecorder(m),
	)
	agendaSvc := agenda.NewService(store.Agenda(), policy)
	expensesSvc := expenses.NewService(store.Expenses(), policy)
	recordsSvc := healthrecords.NewService(store.HealthRecords(), policy, blobs, opts.MaxUploadBytes)
	reportsSvc := reports.NewService(policy, petsSvc, recordsSvc, expensesSvc)

	// Los adjuntos no están en la base: se limpian después del borrado en cascada.
	petsSvc.OnDelete(recordsSvc.AttachmentCleanup)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	agenda.RegisterRoutes(r, agendaSvc)
	expenses.RegisterRoutes(r, expensesSvc)
	healthrecords.RegisterRoutes(r, recordsSvc)
	reports.RegisterRoutes(r, reportsSvc)

	log.Info("router ready", logger.Fields{
		"deletion_rule": string(policy.Rule()),
		"blob_driver":   string(blobs.Driver()),
		"auth":          authMode(opts.AuthVerifier),
	})
	return r
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.FromContext(r.Context()).Error("health: db ping failed", logger.Fields{"err": err})
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("db unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

func authMode(v auth.AuthVerifier) string {
	if v == nil {
		return "dev"
	}
	return "bearer"
}
