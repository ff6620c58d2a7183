package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the tracked grid coordinate (Gyeonggi, nx/ny per the KMA grid
// conversion sheet) and the video rotation.
const (
	defaultGridX = 55
	defaultGridY = 127
)

var defaultVideoIDs = []string{"dQw4w9WgXcQ", "JGwWNGJdvx8", "kJQP7kiw5Fk"}

type AppConfig struct {
	// KMA short-term forecast API access.
	KMAServiceKey string
	KMABaseURL    string

	// Grid coordinate the service tracks.
	GridX int
	GridY int

	// RefreshInterval controls how often the scheduler fetches a bulletin.
	RefreshInterval time.Duration

	// RetentionDays bounds how long past bulletins are kept (0 = forever).
	RetentionDays int

	// HTTPTimeout applies to outbound upstream calls.
	HTTPTimeout time.Duration

	// DBPath is the SQLite database file.
	DBPath string

	Port string

	// VideoIDs rotated by the dashboard.
	VideoIDs []string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.KMAServiceKey = os.Getenv("KMA_SERVICE_KEY")
	cfg.KMABaseURL = getenvDefault("KMA_BASE_URL",
		"http://apis.data.go.kr/1360000/VilageFcstInfoService_2.0/getVilageFcst")

	cfg.GridX = getenvInt("KMA_GRID_X", defaultGridX)
	cfg.GridY = getenvInt("KMA_GRID_Y", defaultGridY)

	// Refresh interval: default 5 minutes, matching the bulletin cadence.
	intervalStr := getenvDefault("REFRESH_INTERVAL", "5m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.RetentionDays = getenvInt("RETENTION_DAYS", 0)

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.DBPath = getenvDefault("DB_PATH", "weather_forecasts.db")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.VideoIDs = loadVideoIDs()

	return cfg, nil
}

func loadVideoIDs() []string {
	raw := os.Getenv("VIDEO_IDS")
	if raw == "" {
		return defaultVideoIDs
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return defaultVideoIDs
	}
	return ids
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
