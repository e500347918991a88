package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Bharatsaini2/alpha-sub002/classifier"
)

// AppConfig is everything the service needs from the environment. The
// classifier's own configuration is built once here and stays immutable.
type AppConfig struct {
	ListenAddr string
	RPCUrl     string

	MySQLDSN      string
	RedisAddr     string
	RedisPassword string

	Classifier classifier.Config
}

// Load reads .env (when present) and the process environment.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		ListenAddr:    envOr("LISTEN_ADDR", ":8080"),
		RPCUrl:        os.Getenv("RPC_HTTP_URL"),
		MySQLDSN:      os.Getenv("MYSQL_DSN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Classifier:    classifier.DefaultConfig(),
	}

	if v := os.Getenv("CORE_TOKEN_MINTS"); v != "" {
		var mints []string
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				mints = append(mints, m)
			}
		}
		if len(mints) > 0 {
			cfg.Classifier.CoreMints = mints
		}
	}

	if v := os.Getenv("MINIMUM_VALUE_USD"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, err
		}
		cfg.Classifier.MinimumValueUSD = d
	}

	if v := os.Getenv("SOL_NOISE_FLOOR_LAMPORTS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, err
		}
		cfg.Classifier.NoiseFloorLamports = n
	}

	if v := os.Getenv("RENT_REFUND_MAX_LAMPORTS"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, err
		}
		cfg.Classifier.RentRefund.MaxLamports = n
	}
	if v := os.Getenv("RENT_REFUND_REQUIRE_LIFECYCLE"); v != "" {
		cfg.Classifier.RentRefund.RequireLifecycle = v == "true"
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
