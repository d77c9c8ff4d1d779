package cliparse

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	JWTSecret      string
	RequireAuth    bool
	BlobDir        string
	PublicURL      string
	MaxUploadBytes int64
	SingleVote     bool
	VoteRateLimit  float64
	LogLevel       string
	LogFile        string
}

// LoadDotEnv loads variables from a .env file without overriding the
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("pollify", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.PublicURL, "public-url", "", "Public base URL used for image links")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")

	fs.StringVar(&cfg.BlobDir, "blob-dir", "", "Directory for uploaded option images")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload", 0, "Maximum multipart upload size in bytes")
	fs.Float64Var(&cfg.VoteRateLimit, "vote-rate", -1, "Votes per second per client IP (0 disables)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Log file path (default stderr)")

	requireAuth := fs.String("require-auth", "", "Require a bearer token to create and delete polls")
	singleVote := fs.String("single-vote", "", "Reject a second vote from the same voter")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}

	var err error
	if cfg.RequireAuth, err = boolSetting(*requireAuth, "REQUIRE_AUTH"); err != nil {
		return Config{}, err
	}
	if cfg.RequireAuth && cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required when auth is required")
	}
	if cfg.SingleVote, err = boolSetting(*singleVote, "ENFORCE_SINGLE_VOTE"); err != nil {
		return Config{}, err
	}

	if cfg.BlobDir == "" {
		cfg.BlobDir = envOr("BLOB_DIR", "./uploads")
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = envOr("PUBLIC_URL", "http://localhost:"+strconv.Itoa(cfg.Port))
	}

	if cfg.MaxUploadBytes == 0 {
		if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n <= 0 {
				return Config{}, errors.New("invalid MAX_UPLOAD_BYTES env variable")
			}
			cfg.MaxUploadBytes = n
		} else {
			cfg.MaxUploadBytes = 10 << 20
		}
	}

	if cfg.VoteRateLimit < 0 {
		if v := os.Getenv("VOTE_RATE_LIMIT"); v != "" {
			rate, err := strconv.ParseFloat(v, 64)
			if err != nil || rate < 0 {
				return Config{}, errors.New("invalid VOTE_RATE_LIMIT env variable")
			}
			cfg.VoteRateLimit = rate
		} else {
			cfg.VoteRateLimit = 5
		}
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = envOr("LOG_LEVEL", "info")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = os.Getenv("LOG_FILE")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// boolSetting prefers the flag value, then the env variable, then false
func boolSetting(flagValue, envKey string) (bool, error) {
	v := flagValue
	if v == "" {
		v = os.Getenv(envKey)
	}
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New("invalid boolean for " + envKey)
	}
	return b, nil
}
