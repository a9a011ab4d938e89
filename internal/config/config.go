package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"pipeline-lab/internal/survival"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath string

	// Default input files used when a tool call does not name one.
	SurvivalFile string
	DealsFile    string

	// Analysis defaults.
	TimeUnit   survival.TimeUnit
	Confidence float64
	LookAhead  int

	// Resource ceilings for adversarial input.
	MaxRows    int
	MaxFutures int
}

// Load reads configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// Binary-relative .env takes priority; MCP hosts rarely set a cwd.
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file in working directory, relying on environment variables")
	}

	dataPath := getEnv("DATA_PATH", "")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	cfg := &AppConfig{
		DataPath:     dataPath,
		SurvivalFile: getEnv("SURVIVAL_FILE", filepath.Join(dataPath, "survival_data.csv")),
		DealsFile:    getEnv("DEALS_FILE", filepath.Join(dataPath, "deals_data.json")),
		TimeUnit:     survival.TimeUnit(getEnv("TIME_UNIT", string(survival.UnitWeek))),
		Confidence:   getEnvFloat("CONFIDENCE_LEVEL", 0.95),
		LookAhead:    getEnvInt("LOOK_AHEAD_PERIODS", 8),
		MaxRows:      getEnvInt("MAX_ROWS", 100000),
		MaxFutures:   getEnvInt("MAX_FUTURES", 200000),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer environment value")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric environment value")
	}
	return fallback
}
