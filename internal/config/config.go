package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port       int
	LogLevel   string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	LogDir     string
	APIKey     string // API key for authentication

	// TrustedProxies lists source IPs exempt from per-IP security tracking,
	// typically the reverse proxy in front of the engine.
	TrustedProxies []string

	// Database pool tuning
	DBMaxConns    int
	DBMaxIdleTime time.Duration
	DBMaxLifetime time.Duration

	// Event delivery
	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string

	// GiftCatalogPath is the JSON file the gift catalog is synced from at
	// startup. Empty disables the sync.
	GiftCatalogPath string

	Games GameSettings
}

// GameSettings is the server-configurable steering for the gift bonus and the
// two mini-games. Rates are percentages in [0,100]; multipliers are whole
// payout factors.
type GameSettings struct {
	LuckyGiftWinRate       int64
	LuckyGiftRefundPercent int64
	WheelWinRate           int64
	SlotsWinRate           int64
	WheelJackpotX          int64
	WheelNormalX           int64
	SlotsSevenX            int64
	SlotsFruitX            int64
}

// Infrastructure defaults.
const (
	DefaultDBMaxConns          = 25
	DefaultDBMaxIdleTime       = 5 * time.Minute
	DefaultDBMaxLifetime       = 30 * time.Minute
	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = 2 * time.Second
	DefaultEventDeadLetterPath = "logs/event_deadletter.jsonl"
	DefaultGiftCatalogPath     = "configs/gifts.json"
)

// Defaults matching the reference client behavior.
const (
	DefaultLuckyGiftWinRate       = 30
	DefaultLuckyGiftRefundPercent = 200
	DefaultWheelWinRate           = 45
	DefaultSlotsWinRate           = 35
	DefaultWheelJackpotX          = 8
	DefaultWheelNormalX           = 2
	DefaultSlotsSevenX            = 20
	DefaultSlotsFruitX            = 5
)

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:   getEnv("LOG_LEVEL", "INFO"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "pulseroom"),
		LogDir:     getEnv("LOG_DIR", "logs"),
		APIKey:     getEnv("API_KEY", ""),

		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", DefaultEventDeadLetterPath),
		GiftCatalogPath:     getEnv("GIFT_CATALOG_PATH", DefaultGiftCatalogPath),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, trimmed)
			}
		}
	}

	var err error
	if cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", DefaultDBMaxConns); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleTime, err = getEnvDuration("DB_MAX_IDLE_TIME", DefaultDBMaxIdleTime); err != nil {
		return nil, err
	}
	if cfg.DBMaxLifetime, err = getEnvDuration("DB_MAX_LIFETIME", DefaultDBMaxLifetime); err != nil {
		return nil, err
	}
	if cfg.EventMaxRetries, err = getEnvInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries); err != nil {
		return nil, err
	}
	if cfg.EventRetryDelay, err = getEnvDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay); err != nil {
		return nil, err
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	games, err := loadGameSettings()
	if err != nil {
		return nil, err
	}
	cfg.Games = games

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	if err := cfg.Games.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadGameSettings() (GameSettings, error) {
	gs := GameSettings{}
	var err error
	fields := []struct {
		dst *int64
		key string
		def int64
	}{
		{&gs.LuckyGiftWinRate, "LUCKY_GIFT_WIN_RATE", DefaultLuckyGiftWinRate},
		{&gs.LuckyGiftRefundPercent, "LUCKY_GIFT_REFUND_PERCENT", DefaultLuckyGiftRefundPercent},
		{&gs.WheelWinRate, "WHEEL_WIN_RATE", DefaultWheelWinRate},
		{&gs.SlotsWinRate, "SLOTS_WIN_RATE", DefaultSlotsWinRate},
		{&gs.WheelJackpotX, "WHEEL_JACKPOT_X", DefaultWheelJackpotX},
		{&gs.WheelNormalX, "WHEEL_NORMAL_X", DefaultWheelNormalX},
		{&gs.SlotsSevenX, "SLOTS_SEVEN_X", DefaultSlotsSevenX},
		{&gs.SlotsFruitX, "SLOTS_FRUIT_X", DefaultSlotsFruitX},
	}
	for _, f := range fields {
		*f.dst, err = getEnvInt64(f.key, f.def)
		if err != nil {
			return gs, err
		}
	}
	return gs, nil
}

// Validate checks the game settings are inside their allowed ranges.
func (gs GameSettings) Validate() error {
	rates := map[string]int64{
		"LUCKY_GIFT_WIN_RATE": gs.LuckyGiftWinRate,
		"WHEEL_WIN_RATE":      gs.WheelWinRate,
		"SLOTS_WIN_RATE":      gs.SlotsWinRate,
	}
	for name, v := range rates {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s must be between 0 and 100, got %d", name, v)
		}
	}
	if gs.LuckyGiftRefundPercent < 0 {
		return fmt.Errorf("LUCKY_GIFT_REFUND_PERCENT must not be negative, got %d", gs.LuckyGiftRefundPercent)
	}
	multipliers := map[string]int64{
		"WHEEL_JACKPOT_X": gs.WheelJackpotX,
		"WHEEL_NORMAL_X":  gs.WheelNormalX,
		"SLOTS_SEVEN_X":   gs.SlotsSevenX,
		"SLOTS_FRUIT_X":   gs.SlotsFruitX,
	}
	for name, v := range multipliers {
		if v < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", name, v)
		}
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
