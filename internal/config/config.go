package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is loaded once at startup and injected everywhere; nothing reads
// os.Getenv at request time.
type Config struct {
	Port        string
	PostgresURL string

	JWTSecret string
	// AdminAPIKey gates the admin grant endpoint. Deliberately a separate
	// credential from JWTSecret.
	AdminAPIKey string

	MercadoPago MercadoPagoConfig

	// PriceCentavos is the allow-list of accepted PIX charge amounts.
	PriceCentavos []int64
	// GrantDays is the fixed subscription extension per approved payment.
	GrantDays int

	DownloadDir string
	YTDLPPath   string
}

type MercadoPagoConfig struct {
	AccessToken     string
	BaseURL         string
	NotificationURL string
}

const (
	defaultGrantDays   = 30
	defaultMPBaseURL   = "https://api.mercadopago.com"
	defaultDownloadDir = "downloads"
	defaultYTDLPPath   = "yt-dlp"
)

// 19.90 / 49.90 / 99.00 BRL
var defaultPriceCentavos = []int64{1990, 4990, 9900}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),
		MercadoPago: MercadoPagoConfig{
			AccessToken:     os.Getenv("MP_ACCESS_TOKEN"),
			BaseURL:         getenv("MP_BASE_URL", defaultMPBaseURL),
			NotificationURL: os.Getenv("MP_NOTIFICATION_URL"),
		},
		PriceCentavos: defaultPriceCentavos,
		GrantDays:     defaultGrantDays,
		DownloadDir:   getenv("DOWNLOAD_DIR", defaultDownloadDir),
		YTDLPPath:     getenv("YTDLP_PATH", defaultYTDLPPath),
	}

	if v := os.Getenv("PRICE_CENTAVOS"); v != "" {
		prices, err := parsePrices(v)
		if err != nil {
			return nil, fmt.Errorf("PRICE_CENTAVOS: %w", err)
		}
		cfg.PriceCentavos = prices
	}
	if v := os.Getenv("GRANT_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("GRANT_DAYS must be a positive integer, got %q", v)
		}
		cfg.GrantDays = days
	}

	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("POSTGRES_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parsePrices(s string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid price %q", part)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no prices configured")
	}
	return out, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
