package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the relay needs at startup. There is no other
// process-level state; handlers receive all of this through constructors.
type Config struct {
	Port     string
	MongoURI string
	DBName   string

	// Gateway credentials and endpoints.
	MerchantKey   string
	MerchantSalt  string
	PayUBaseURL   string
	PublicBaseURL string

	// Admin listing access.
	AdminUser         string
	AdminPasswordHash string
	JWTSecret         string

	// StrictCallbacks rejects callbacks whose txnid was never initiated here.
	StrictCallbacks bool
}

// Load reads configuration from the environment. Call godotenv.Load first if
// a .env file should be honored.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          os.Getenv("MONGOURI"),
		DBName:            getEnv("DB_NAME", "payudb"),
		MerchantKey:       os.Getenv("MERCHANT_KEY"),
		MerchantSalt:      os.Getenv("MERCHANT_SALT"),
		PayUBaseURL:       getEnv("PAYU_BASE_URL", "https://test.payu.in/_payment"),
		PublicBaseURL:     os.Getenv("PUBLIC_BASE_URL"),
		AdminUser:         getEnv("ADMIN_USER", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
	}
	cfg.StrictCallbacks, _ = strconv.ParseBool(os.Getenv("STRICT_CALLBACKS"))

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.Port
	}

	for name, value := range map[string]string{
		"MONGOURI":            cfg.MongoURI,
		"MERCHANT_KEY":        cfg.MerchantKey,
		"MERCHANT_SALT":       cfg.MerchantSalt,
		"JWT_SECRET":          cfg.JWTSecret,
		"ADMIN_PASSWORD_HASH": cfg.AdminPasswordHash,
	} {
		if value == "" {
			return nil, fmt.Errorf("%s environment variable not set", name)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
