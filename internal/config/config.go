package config

import (
	"fmt"
	"strings"
	"time"

	"estate-backend/internal/application/personalization"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                  string
	Port                 string
	SessionSecret        string
	DatabaseURL          string
	RedisURL             string
	FrontendURLEndsWith  string
	DevPassword          string
	AllowCrossSiteDev    bool
	HealthAdminKey       string
	LogLevel             string
	LogFormat            string
	NoPreferenceFallback personalization.FallbackPolicy // NO_PREFERENCE_FALLBACK: "all" returns unfiltered listings, "empty" returns none
	PreferenceCacheTTL   time.Duration                  // PREFERENCE_CACHE_TTL; 0 disables the Redis preference cache
	CandidateLimit       int                            // CANDIDATE_LIMIT caps listings loaded per personalized request
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("NO_PREFERENCE_FALLBACK", string(personalization.FallbackAll))
	viper.SetDefault("PREFERENCE_CACHE_TTL", "5m")
	viper.SetDefault("CANDIDATE_LIMIT", 500)

	env := viper.GetString("APP_ENV")
	logFormat := viper.GetString("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "console"
		if env == "production" {
			logFormat = "json"
		}
	}

	fallback := personalization.FallbackPolicy(strings.ToLower(strings.TrimSpace(viper.GetString("NO_PREFERENCE_FALLBACK"))))
	if fallback != personalization.FallbackAll && fallback != personalization.FallbackEmpty {
		return nil, fmt.Errorf("NO_PREFERENCE_FALLBACK must be %q or %q, got %q",
			personalization.FallbackAll, personalization.FallbackEmpty, fallback)
	}

	limit := viper.GetInt("CANDIDATE_LIMIT")
	if limit <= 0 {
		return nil, fmt.Errorf("CANDIDATE_LIMIT must be positive, got %d", limit)
	}

	return &Config{
		Env:                  env,
		Port:                 viper.GetString("PORT"),
		SessionSecret:        viper.GetString("SESSION_SECRET"),
		DatabaseURL:          viper.GetString("DATABASE_URL"),
		RedisURL:             viper.GetString("REDIS_URL"),
		FrontendURLEndsWith:  viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:          viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:    strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:       viper.GetString("HEALTH_ADMIN_KEY"),
		LogLevel:             viper.GetString("LOG_LEVEL"),
		LogFormat:            logFormat,
		NoPreferenceFallback: fallback,
		PreferenceCacheTTL:   viper.GetDuration("PREFERENCE_CACHE_TTL"),
		CandidateLimit:       limit,
	}, nil
}
