package config

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/claim-reports-api/lifecycle"
	"github.com/linesmerrill/claim-reports-api/models"
)

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string
	Env          string

	// RetentionCron is the cron spec the retention sweep runs on
	RetentionCron string

	AutoLockDays             int
	SoftDeleteRetentionHours int
	ArchiveAfterHours        int
	PurgeSentAfterHours      int

	SendGridAPIKey  string
	NotifyFromEmail string
	NotifyFromName  string
}

// New sets up all config related services
func New() *Config {
	// a missing .env is fine, the environment wins either way
	_ = godotenv.Load()

	env := getenv("ENV", "production")

	//setup zap logger and replace default logger
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:          os.Getenv("DB_URI"),
		DatabaseName: getenv("DB_NAME", "claim-reports"),
		BaseURL:      os.Getenv("BASE_URL"),
		Port:         getenv("PORT", "8080"),
		Env:          env,

		RetentionCron: getenv("RETENTION_CRON", "*/15 * * * *"),

		AutoLockDays:             getenvInt("AUTO_LOCK_DAYS", 35),
		SoftDeleteRetentionHours: getenvInt("SOFT_DELETE_RETENTION_HOURS", 7*24),
		ArchiveAfterHours:        getenvInt("ARCHIVE_AFTER_HOURS", 48),
		PurgeSentAfterHours:      getenvInt("PURGE_SENT_AFTER_HOURS", 30*24),

		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		NotifyFromEmail: getenv("NOTIFY_FROM_EMAIL", "no-reply@claim-reports.local"),
		NotifyFromName:  getenv("NOTIFY_FROM_NAME", "Claim Reports"),
	}
}

// Policy converts the configured thresholds into the engine policy
func (c *Config) Policy() lifecycle.Policy {
	return lifecycle.Policy{
		AutoLockAfter:       time.Duration(c.AutoLockDays) * lifecycle.Day,
		SoftDeleteRetention: time.Duration(c.SoftDeleteRetentionHours) * time.Hour,
		ArchiveAfter:        time.Duration(c.ArchiveAfterHours) * time.Hour,
		PurgeSentAfter:      time.Duration(c.PurgeSentAfterHours) * time.Hour,
	}
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	ErrorStatusWithCode(message, "", nil, httpStatusCode, w, err)
}

// ErrorStatusWithCode is ErrorStatus with a machine readable code and details for
// the client to branch on
func ErrorStatusWithCode(message, code string, details interface{}, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().Errorw(message, "code", code, "status", httpStatusCode, "error", err)

	body := models.ErrorMessageResponse{Response: models.MessageError{
		Code:    code,
		Message: message,
		Details: details,
	}}
	if err != nil {
		body.Response.Error = err.Error()
	}
	b, _ := json.Marshal(body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	w.Write(b)
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
