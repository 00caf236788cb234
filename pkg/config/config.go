package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Remote network provider
	ProviderBaseURL      string
	ProviderAPIKey       string
	ProviderClientID     string
	ProviderClientSecret string

	// Sync tuning
	SyncIntervalMinutes int
	PageSize            int
	MaxPages            int
	FetchRetryAttempts  int

	// Storage budget for full-history conversations.
	// FullSyncThreshold is derived from the budget unless overridden.
	StorageBudgetMB   int
	FullConvCostMB    int
	FullSyncThreshold int

	// Monthly extraction quota
	MonthlyQuotaCap int

	// Soft warning thresholds (percent of a limit), e.g. 80,90
	QuotaWarnThresholds []int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		ProviderBaseURL:     getEnv("PROVIDER_BASE_URL", "https://api.network-provider.local"),
		ProviderAPIKey:       getEnv("PROVIDER_API_KEY", ""),
		ProviderClientID:     getEnv("PROVIDER_CLIENT_ID", ""),
		ProviderClientSecret: getEnv("PROVIDER_CLIENT_SECRET", ""),
		SyncIntervalMinutes: getEnvInt("SYNC_INTERVAL_MINUTES", 60),
		PageSize:            getEnvInt("PAGE_SIZE", 100),
		MaxPages:            getEnvInt("MAX_PAGES", 200),
		FetchRetryAttempts:  getEnvInt("FETCH_RETRY_ATTEMPTS", 3),
		StorageBudgetMB:     getEnvInt("STORAGE_BUDGET_MB", 500),
		FullConvCostMB:      getEnvInt("FULL_CONV_COST_MB", 1),
		MonthlyQuotaCap:     getEnvInt("MONTHLY_QUOTA_CAP", 3000),
		QuotaWarnThresholds: getEnvIntList("QUOTA_WARN_THRESHOLDS", []int{80, 90}),
	}

	// The full-sync threshold follows the storage budget unless set explicitly.
	derived := 500
	if cfg.FullConvCostMB > 0 {
		derived = cfg.StorageBudgetMB / cfg.FullConvCostMB
	}
	cfg.FullSyncThreshold = getEnvInt("FULL_SYNC_THRESHOLD", derived)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvIntList(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		parsed, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		out = append(out, parsed)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
