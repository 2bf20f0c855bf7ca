package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/claim-reports-api/api"
	"github.com/linesmerrill/claim-reports-api/api/scheduler"
	"github.com/linesmerrill/claim-reports-api/casework"
	"github.com/linesmerrill/claim-reports-api/config"
	"github.com/linesmerrill/claim-reports-api/databases"
	"github.com/linesmerrill/claim-reports-api/models"
	"github.com/linesmerrill/claim-reports-api/notifications"
)

// RequestTimeout bounds a whole api request
const RequestTimeout = 30 * time.Second

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Service   *casework.Service
	Metrics   *api.MetricsCollector
	Scheduler *scheduler.Scheduler

	client   databases.ClientHelper
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	if a.Metrics == nil {
		a.Metrics = api.NewMetricsCollector()
	}

	// case keys arrive escaped (7%2F42); handlers unescape them
	r := mux.NewRouter().UseEncodedPath()

	report := Report{Service: a.Service}
	cases := CaseFolder{Service: a.Service}
	metrics := Metrics{Collector: a.Metrics}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(a.Metrics.MetricsMiddleware, api.TimeoutMiddleware(RequestTimeout), api.ActorMiddleware)

	apiCreate.HandleFunc("/reports", report.CreateReportHandler).Methods("POST")
	apiCreate.HandleFunc("/reports", report.ListReportsHandler).Methods("GET")
	apiCreate.HandleFunc("/reports/{report_id}", report.ReportHandler).Methods("GET")
	apiCreate.HandleFunc("/reports/{report_id}", report.UpdateReportHandler).Methods("PATCH")
	apiCreate.HandleFunc("/reports/{report_id}", report.DeleteReportHandler).Methods("DELETE")
	apiCreate.HandleFunc("/reports/{report_id}/transition", report.TransitionReportHandler).Methods("POST")
	apiCreate.HandleFunc("/reports/{report_id}/lock", report.LockReportHandler).Methods("POST")
	apiCreate.HandleFunc("/reports/{report_id}/lock", report.UnlockReportHandler).Methods("DELETE")
	apiCreate.HandleFunc("/reports/{report_id}/extensions", report.ExtendLockHandler).Methods("POST")
	apiCreate.HandleFunc("/reports/{report_id}/restore", report.RestoreReportHandler).Methods("POST")

	apiCreate.HandleFunc("/cases/{case_key}", cases.CaseHandler).Methods("GET")
	apiCreate.HandleFunc("/cases/{case_key}/next-number", cases.NextNumberHandler).Methods("GET")
	apiCreate.HandleFunc("/cases/{case_key}/close", cases.CloseCaseHandler).Methods("POST")
	apiCreate.HandleFunc("/cases/{case_key}/reopen", cases.ReopenCaseHandler).Methods("POST")
	apiCreate.HandleFunc("/cases/{case_key}/re-template", cases.ReTemplateHandler).Methods("PUT")

	apiCreate.HandleFunc("/metrics", metrics.MetricsHandler).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().Errorw("failed to create new client", "error", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), api.StoreTimeout)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().Errorw("failed to connect to database", "error", err)
		return err
	}
	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("claim-reports-api has connected to the database")

	var notifier notifications.Notifier = notifications.NopNotifier{}
	if a.Config.SendGridAPIKey != "" {
		notifier = notifications.NewSendGridNotifier(a.Config.SendGridAPIKey, a.Config.NotifyFromName, a.Config.NotifyFromEmail)
	} else {
		zap.S().Warn("SENDGRID_API_KEY is not set, report notifications are disabled")
	}

	a.Service = casework.NewService(databases.NewMongoStore(a.dbHelper), notifier, a.Config.Policy())
	a.Scheduler = scheduler.NewScheduler(a.Service, databases.NewSchedulerLockDatabase(a.dbHelper), a.Config.RetentionCron)

	// initialize api router
	a.initializeRoutes()
	return nil
}

// Close disconnects from the database
func (a *App) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	return a.client.Disconnect(ctx)
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
