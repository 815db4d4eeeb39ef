package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/collabstay/collabstay-api/api"
	"github.com/collabstay/collabstay-api/api/scheduler"
	"github.com/collabstay/collabstay-api/config"
	"github.com/collabstay/collabstay-api/databases"
	"github.com/collabstay/collabstay-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	p := Project{DB: databases.NewProjectDatabase(a.dbHelper), IDB: databases.NewInvitationDatabase(a.dbHelper)}
	t := Trip{DB: databases.NewTripDatabase(a.dbHelper), IDB: databases.NewInvitationDatabase(a.dbHelper)}
	inv := Invitation{
		DB:              databases.NewInvitationDatabase(a.dbHelper),
		TDB:             databases.NewTripDatabase(a.dbHelper),
		UDB:             databases.NewUserDatabase(a.dbHelper),
		AllowDuplicates: a.Config.AllowDuplicateInvite,
	}
	views := Views{IDB: databases.NewInvitationDatabase(a.dbHelper), UDB: databases.NewUserDatabase(a.dbHelper)}
	pay := Payment{DB: databases.NewTransactionDatabase(a.dbHelper), BaseURL: a.Config.BaseUrl}
	admin := Admin{DB: databases.NewAdminDatabase(a.dbHelper), IDB: databases.NewInvitationDatabase(a.dbHelper), PDB: databases.NewProjectDatabase(a.dbHelper)}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// websocket push for invitation events
	r.HandleFunc("/ws/notifications", HandleNotificationsWebSocket)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}/media-kit", api.Middleware(http.HandlerFunc(u.UpdateMediaKitHandler))).Methods("PUT")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")

	apiCreate.Handle("/project", api.Middleware(http.HandlerFunc(p.CreateProjectHandler))).Methods("POST")
	apiCreate.Handle("/projects", api.Middleware(http.HandlerFunc(p.ProjectsHandler))).Methods("GET")
	apiCreate.Handle("/project/{project_id}", api.Middleware(http.HandlerFunc(p.ProjectByIDHandler))).Methods("GET")
	apiCreate.Handle("/project/{project_id}", api.Middleware(http.HandlerFunc(p.UpdateProjectHandler))).Methods("PATCH")
	apiCreate.Handle("/project/{project_id}/applicants", api.Middleware(http.HandlerFunc(views.ApplicantsByProjectHandler))).Methods("GET")

	apiCreate.Handle("/trip", api.Middleware(http.HandlerFunc(t.CreateTripHandler))).Methods("POST")
	apiCreate.Handle("/trips", api.Middleware(http.HandlerFunc(t.TripsHandler))).Methods("GET")
	apiCreate.Handle("/trip/{trip_id}", api.Middleware(http.HandlerFunc(t.TripByIDHandler))).Methods("GET")
	apiCreate.Handle("/trip/{trip_id}", api.Middleware(http.HandlerFunc(t.UpdateTripHandler))).Methods("PATCH")

	apiCreate.Handle("/invitation", api.Middleware(http.HandlerFunc(inv.CreateInvitationHandler))).Methods("POST")
	apiCreate.Handle("/invitation/{invitation_id}", api.Middleware(http.HandlerFunc(inv.InvitationByIDHandler))).Methods("GET")
	apiCreate.Handle("/invitation/{invitation_id}/status", api.Middleware(http.HandlerFunc(inv.TransitionStatusHandler))).Methods("PUT")
	apiCreate.Handle("/invitations", api.Middleware(http.HandlerFunc(views.InvitationsByIdentityHandler))).Methods("GET")

	apiCreate.Handle("/payment/create-checkout-session", api.Middleware(http.HandlerFunc(pay.CreateCheckoutSessionHandler))).Methods("POST")
	apiCreate.Handle("/payment/success", http.HandlerFunc(pay.HandleSuccessRedirect)).Methods("GET")
	apiCreate.Handle("/payment/cancel", http.HandlerFunc(pay.HandleCancelRedirect)).Methods("GET")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")
	apiCreate.Handle("/upload", api.Middleware(http.HandlerFunc(cloudinaryHandler.UploadHandler))).Methods("POST")

	apiCreate.Handle("/admin/login", http.HandlerFunc(admin.LoginHandler)).Methods("POST")
	apiCreate.Handle("/admin/invitation/{invitation_id}", admin.JWTMiddleware(http.HandlerFunc(admin.DeleteInvitationHandler))).Methods("DELETE")
	apiCreate.Handle("/admin/project/{project_id}", admin.JWTMiddleware(http.HandlerFunc(admin.OverrideProjectHandler))).Methods("PATCH")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("collabstay-api has connected to the database")

	// initialize stripe
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		return fmt.Errorf("stripe secret key is not set")
	}
	stripe.Key = stripeKey

	// background jobs: stale invitation expiry, filled project closing
	a.Scheduler = scheduler.NewScheduler(
		databases.NewInvitationDatabase(a.dbHelper),
		databases.NewProjectDatabase(a.dbHelper),
		databases.NewUserDatabase(a.dbHelper),
		databases.NewSchedulerLockDatabase(a.dbHelper),
		a.Config.PendingInviteTTLDays,
	)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
