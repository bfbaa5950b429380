package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config is the environment-driven configuration for the whole service.
type Config struct {
	Port         string
	DatabaseURL  string
	AllowOrigins []string

	// Timezone is the fixed reference timezone for "today" comparisons
	// and month keys; never the server's local time.
	Timezone string

	OCREndpoint string
	OCRAPIKey   string
	OCRTimeout  time.Duration

	WebhookURL    string
	NotifyTimeout time.Duration

	RewardPolicy    string
	PerKillRate     int64
	PerDeathRate    int64
	DeathBonusCap   int
	ModeBonusAmount int64
	BonusMode       string
	PoolRate        int64

	StrictClassifier bool

	// Operators extend the vocabulary without a deploy: comma-separated
	// weapon names and kill-verb misreadings.
	ExtraWeapons   []string
	ExtraKillVerbs []string
	ExtraModes     []string
}

func Load() *Config {
	return &Config{
		Port:         envStr("PORT", "8080"),
		DatabaseURL:  envStr("DATABASE_URL", "host=localhost user=postgres dbname=guild port=5432 sslmode=disable"),
		AllowOrigins: envList("ALLOW_ORIGINS", []string{"http://localhost:3000"}),

		Timezone: envStr("REFERENCE_TZ", "Asia/Taipei"),

		OCREndpoint: envStr("OCR_ENDPOINT", ""),
		OCRAPIKey:   envStr("OCR_API_KEY", ""),
		OCRTimeout:  envDuration("OCR_TIMEOUT", 15*time.Second),

		WebhookURL:    envStr("KILL_WEBHOOK", ""),
		NotifyTimeout: envDuration("NOTIFY_TIMEOUT", 5*time.Second),

		RewardPolicy:    envStr("REWARD_POLICY", "kills-only"),
		PerKillRate:     envInt64("PER_KILL_RATE", 100000),
		PerDeathRate:    envInt64("PER_DEATH_RATE", 50000),
		DeathBonusCap:   int(envInt64("DEATH_BONUS_CAP", 5)),
		ModeBonusAmount: envInt64("MODE_BONUS_AMOUNT", 200000),
		BonusMode:       envStr("BONUS_MODE", "搶旗"),
		PoolRate:        envInt64("POOL_RATE", 20000),

		StrictClassifier: envBool("STRICT_CLASSIFIER", false),

		ExtraWeapons:   envList("EXTRA_WEAPONS", nil),
		ExtraKillVerbs: envList("EXTRA_KILL_VERBS", nil),
		ExtraModes:     envList("EXTRA_MODES", nil),
	}
}

// Location resolves the reference timezone, falling back to UTC with a
// warning rather than refusing to start.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("invalid REFERENCE_TZ %q, falling back to UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}

func InitDB(c *Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(c.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
