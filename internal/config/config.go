package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// InsecureSecret is the placeholder secret shipped in sample configs. It is only
// accepted when Env is "development".
const InsecureSecret = "supersecretkey"

var hmacAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

type Config struct {
	Addr           string        `yaml:"addr"`
	Env            string        `yaml:"env"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
	DatabasePath   string        `yaml:"database_path"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`
	APITimeout     time.Duration `yaml:"timeout"`

	JWTSecret            string        `yaml:"jwt_secret"`
	JWTAlgorithm         string        `yaml:"jwt_algorithm"`
	TokenDuration        time.Duration `yaml:"token_duration"`
	SessionTokenDuration time.Duration `yaml:"session_token_duration"`
	BcryptCost           int           `yaml:"bcrypt_cost"`
	MinPasswordLength    int           `yaml:"min_password_length"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

// LoadConfig builds the configuration from CAREMATCH_* environment variables and
// then overlays the YAML file at path, if any. The result is not validated.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:         getEnv("CAREMATCH_ADDR", ":8080"),
		Env:          getEnv("CAREMATCH_ENV", "production"),
		LogLevel:     getEnv("CAREMATCH_LOG_LEVEL", "info"),
		LogFormat:    getEnv("CAREMATCH_LOG_FORMAT", "json"),
		DatabasePath: getEnv("CAREMATCH_DATABASE_PATH", "carematch.db"),
		JWTSecret:    os.Getenv("CAREMATCH_JWT_SECRET"),
		JWTAlgorithm: os.Getenv("CAREMATCH_JWT_ALGORITHM"),
		RateLimit:    RateLimitConfig{PerMinute: 10, Burst: 5},
	}

	var err error
	if cfg.MigrateOnStart, err = getEnvBool("CAREMATCH_MIGRATE_ON_START", false); err != nil {
		return nil, err
	}
	if cfg.APITimeout, err = getEnvDuration("CAREMATCH_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.TokenDuration, err = getEnvDuration("CAREMATCH_TOKEN_DURATION", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionTokenDuration, err = getEnvDuration("CAREMATCH_SESSION_TOKEN_DURATION", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getEnvInt("CAREMATCH_BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.MinPasswordLength, err = getEnvInt("CAREMATCH_MIN_PASSWORD_LENGTH", 6); err != nil {
		return nil, err
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate reports every startup precondition that does not hold.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	} else if c.JWTSecret == InsecureSecret && c.Env != "development" {
		errs = append(errs, fmt.Errorf("jwt_secret %q is only allowed in development", InsecureSecret))
	}
	switch {
	case c.JWTAlgorithm == "":
		errs = append(errs, errors.New("jwt_algorithm is required"))
	case !hmacAlgorithms[strings.ToUpper(c.JWTAlgorithm)]:
		errs = append(errs, fmt.Errorf("jwt_algorithm %q is not supported (HS256, HS384, HS512)", c.JWTAlgorithm))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, errors.New("token_duration must be positive"))
	}
	if c.SessionTokenDuration <= 0 {
		errs = append(errs, errors.New("session_token_duration must be positive"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("bcrypt_cost %d out of range [4, 31]", c.BcryptCost))
	}
	if c.MinPasswordLength < 1 {
		errs = append(errs, errors.New("min_password_length must be at least 1"))
	}
	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate_limit per_minute and burst must be positive"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log_format %q must be json or text", c.LogFormat))
	}

	return errors.Join(errs...)
}

// Algorithm returns the configured signing algorithm in canonical case.
func (c *Config) Algorithm() string {
	return strings.ToUpper(c.JWTAlgorithm)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
