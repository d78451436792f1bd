package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Logger LoggerConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Provisioning ProvisioningConfig
	Identity     IdentityConfig
	OIDC         OIDCConfig
}

type LoggerConfig struct {
	Level string
}

// ProvisioningConfig carries everything the workspace orchestrator needs to
// talk to the external site provider and run its lock/state machine.
type ProvisioningConfig struct {
	// APIBaseURL is the provider API endpoint; Hostname is the tenant-scoped
	// hostname the sites are created under.
	APIBaseURL  string
	Hostname    string
	BearerToken string
	OwnerEmail  string

	StaleLockTTL time.Duration
	PollAttempts int
	PollInterval time.Duration

	OperatorCompanyID  string
	ProtectedCompanyID string
}

type IdentityConfig struct {
	BaseURL     string
	BearerToken string
	PageSize    int
}

type OIDCConfig struct {
	IssuerURL string
	ClientID  string
}

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Load loads configuration from environment variables, a .env file, and the
// layered provisioning config file (environment wins).
func Load() Config {
	_ = godotenv.Load()

	layer := newFileLayer()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "digitalkontroll"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: strings.ToLower(getenv("ENVIRONMENT", EnvDevelopment)),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		Logger: LoggerConfig{
			Level: getenv("LOG_LEVEL", "info"),
		},
		DBType:     getenv("DATABASE_TYPE", "postgres"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "digitalkontroll"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),
		Provisioning: ProvisioningConfig{
			APIBaseURL:         layer.resolve("SHAREPOINT_API_BASE_URL", "provisioning.apiBaseUrl", "https://graph.microsoft.com"),
			Hostname:           layer.resolve("SHAREPOINT_HOSTNAME", "provisioning.hostname", ""),
			BearerToken:        layer.resolve("SHAREPOINT_TOKEN", "provisioning.token", ""),
			OwnerEmail:         layer.resolve("SHAREPOINT_OWNER_EMAIL", "provisioning.ownerEmail", "drift@digitalkontroll.se"),
			StaleLockTTL:       getenvDuration("PROVISIONING_STALE_LOCK_TTL", 15*time.Minute),
			PollAttempts:       getenvInt("PROVISIONING_POLL_ATTEMPTS", 5),
			PollInterval:       getenvDuration("PROVISIONING_POLL_INTERVAL", 1500*time.Millisecond),
			OperatorCompanyID:  getenv("OPERATOR_COMPANY_ID", "digitalkontroll"),
			ProtectedCompanyID: getenv("PROTECTED_COMPANY_ID", "digitalkontroll"),
		},
		Identity: IdentityConfig{
			BaseURL:     layer.resolve("IDENTITY_API_BASE_URL", "identity.baseUrl", ""),
			BearerToken: layer.resolve("IDENTITY_TOKEN", "identity.token", ""),
			PageSize:    getenvInt("IDENTITY_PAGE_SIZE", 1000),
		},
		OIDC: OIDCConfig{
			IssuerURL: getenv("OIDC_ISSUER_URL", ""),
			ClientID:  getenv("OIDC_CLIENT_ID", ""),
		},
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// IsDevelopment reports whether destructive operator tooling may run.
func (c Config) IsDevelopment() bool {
	switch c.Environment {
	case EnvDevelopment, "local", "test":
		return true
	default:
		return false
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
