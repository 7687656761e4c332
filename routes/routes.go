package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/GiftHanong/taxihub/app"
	"github.com/GiftHanong/taxihub/authz"
	"github.com/GiftHanong/taxihub/handlers"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(deps.DB.DB, deps.Logger)
	authHandler := handlers.NewAuthHandler(deps.Sessions, deps.Logger)
	directoryHandler := handlers.NewDirectoryHandler(deps.Directory, deps.Logger)
	rankHandler := handlers.NewRankHandler(deps.Ranks, deps.Logger)
	taxiHandler := handlers.NewTaxiHandler(deps.Taxis, deps.Logger)
	loadHandler := handlers.NewLoadHandler(deps.Loads, deps.Logger)
	paymentHandler := handlers.NewPaymentHandler(deps.Payments, deps.Logger)
	meetingHandler := handlers.NewMeetingHandler(deps.Meetings, deps.Logger)
	marshalHandler := handlers.NewMarshalHandler(deps.Marshals, deps.Logger)
	reportHandler := handlers.NewReportHandler(deps.Reports, deps.Logger)

	authmw := deps.AuthMiddleware

	// Health check endpoints
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)

	r.Route("/api/v1", func(r chi.Router) {
		// Public directory, no authentication
		r.Route("/ranks", func(r chi.Router) {
			r.Get("/", directoryHandler.HandleList)
			r.Get("/nearby", directoryHandler.HandleNearby)
			r.Get("/{id}", directoryHandler.HandleGet)
		})

		// Registration and sign-in
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.With(authmw.RequireAuth).Get("/me", authHandler.HandleMe)
		})

		// Taxi register
		r.Route("/taxis", func(r chi.Router) {
			r.Use(authmw.RequireAuth)
			r.With(authmw.RequirePermission(authz.ActionView)).Get("/", taxiHandler.HandleList)
			r.With(authmw.RequirePermission(authz.ActionView)).Get("/{id}", taxiHandler.HandleGet)
			r.With(authmw.RequirePermission(authz.ActionAddTaxis)).Post("/", taxiHandler.HandleCreate)
			r.With(authmw.RequirePermission(authz.ActionAddTaxis)).Put("/{id}", taxiHandler.HandleUpdate)
			r.With(authmw.RequirePermission(authz.ActionAddTaxis)).Delete("/{id}", taxiHandler.HandleDelete)
		})

		// Load recording
		r.Route("/loads", func(r chi.Router) {
			r.Use(authmw.RequireAuth)
			r.With(authmw.RequirePermission(authz.ActionView)).Get("/", loadHandler.HandleList)
			r.With(authmw.RequirePermission(authz.ActionRecordLoads)).Post("/", loadHandler.HandleRecord)
		})

		// Membership payments
		r.Route("/payments", func(r chi.Router) {
			r.Use(authmw.RequireAuth)
			r.With(authmw.RequirePermission(authz.ActionView)).Get("/", paymentHandler.HandleList)
			r.With(authmw.RequirePermission(authz.ActionRecordPayments)).Post("/", paymentHandler.HandleRecord)
		})

		// Meetings
		r.Route("/meetings", func(r chi.Router) {
			r.Use(authmw.RequireAuth)
			r.With(authmw.RequirePermission(authz.ActionView)).Get("/", meetingHandler.HandleList)
			r.With(authmw.RequirePermission(authz.ActionManageMeetings)).Post("/", meetingHandler.HandleCreate)
			r.With(authmw.RequirePermission(authz.ActionManageMeetings)).Put("/{id}", meetingHandler.HandleUpdate)
			r.With(authmw.RequirePermission(authz.ActionManageMeetings)).Delete("/{id}", meetingHandler.HandleDelete)
		})

		// Reports
		r.Route("/reports", func(r chi.Router) {
			r.Use(authmw.RequireAuth)
			r.Use(authmw.RequirePermission(authz.ActionViewReports))
			r.Get("/summary", reportHandler.HandleSummary)
			r.Get("/loads.csv", reportHandler.HandleExportLoads)
			r.Get("/payments.csv", reportHandler.HandleExportPayments)
		})

		// Administration
		r.Route("/admin", func(r chi.Router) {
			r.Use(authmw.RequireAuth)

			r.Route("/marshals", func(r chi.Router) {
				r.With(authmw.RequirePermission(authz.ActionManageUsers)).Get("/", marshalHandler.HandleList)
				r.With(authmw.RequirePermission(authz.ActionApproveUsers)).Get("/pending", marshalHandler.HandleListPending)
				r.With(authmw.RequirePermission(authz.ActionManageUsers)).Get("/{id}", marshalHandler.HandleGet)
				r.With(authmw.RequirePermission(authz.ActionApproveUsers)).Post("/{id}/approve", marshalHandler.HandleApprove)
				r.With(authmw.RequirePermission(authz.ActionApproveUsers)).Post("/{id}/reject", marshalHandler.HandleReject)
				r.With(authmw.RequirePermission(authz.ActionManageUsers)).Post("/{id}/suspend", marshalHandler.HandleSuspend)
				r.With(authmw.RequirePermission(authz.ActionManageUsers)).Post("/{id}/restore", marshalHandler.HandleRestore)
				r.With(authmw.RequirePermission(authz.ActionAssignRoles)).Put("/{id}", marshalHandler.HandleUpdate)
				r.With(authmw.RequirePermission(authz.ActionManageUsers)).Delete("/{id}", marshalHandler.HandleDelete)
			})

			r.Route("/ranks", func(r chi.Router) {
				r.Use(authmw.RequirePermission(authz.ActionAddRanks))
				r.Post("/", rankHandler.HandleCreate)
				r.Put("/{id}", rankHandler.HandleUpdate)
				r.Delete("/{id}", rankHandler.HandleDelete)
			})

			r.With(authmw.RequirePermission(authz.ActionSystemSettings)).Get("/activity", reportHandler.HandleActivity)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
