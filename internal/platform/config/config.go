package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile             = ".env"
	defaultPort                = "8080"
	defaultReadTimeout         = 15 * time.Second
	defaultWriteTimeout        = 30 * time.Second
	defaultIdleTimeout         = 120 * time.Second
	defaultMongoDatabase       = "brightfold"
	defaultMongoConnectTimeout = 10 * time.Second
	defaultMongoQueryTimeout   = 15 * time.Second
	defaultSessionCookieName   = "bf_session"
	defaultSessionTTL          = 24 * time.Hour
	defaultSecurityEnvironment = "local"
	defaultAdminSecretHeader   = "X-Admin-Secret"
	defaultEventsOrderTopic    = "order-events"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Firebase FirebaseConfig
	Mongo    MongoConfig
	Session  SessionConfig
	Security SecurityConfig
	Events   EventsConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	StrictTransitions bool
	AllowedOrigins    []string
}

// FirebaseConfig stores Firebase project settings.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// MongoConfig stores database connection parameters.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

// SessionConfig controls the fallback session-cookie token.
type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SecurityConfig groups caller-privilege settings.
type SecurityConfig struct {
	Environment       string
	AdminSecret       string
	AdminSecretHeader string
}

// EventsConfig controls Pub/Sub publication of order lifecycle events.
type EventsConfig struct {
	Enabled    bool
	ProjectID  string
	OrderTopic string
}

// ValidationError reports configuration fields that failed validation.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: invalid configuration: %s", strings.Join(e.fields, ", "))
}

// Fields lists the offending configuration fields.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envOverrides map[string]string
	skipSystem   bool
}

// WithEnvFile overrides the .env file consulted before system environment.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects explicit values that take precedence over everything else.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envOverrides = values
	}
}

// WithoutSystemEnv ignores the process environment; used in tests.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.skipSystem = true
	}
}

// EnvironmentValues assembles the effective key/value view: .env file first,
// then system environment, then explicit overrides.
func EnvironmentValues(opts ...Option) (map[string]string, error) {
	options := loaderOptions{envFile: defaultEnvFile}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	values := make(map[string]string)

	if options.envFile != "" {
		fileValues, err := loadDotEnv(options.envFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fileValues {
			values[k] = v
		}
	}

	if !options.skipSystem {
		for _, entry := range os.Environ() {
			parts := strings.SplitN(entry, "=", 2)
			if len(parts) != 2 {
				continue
			}
			values[parts[0]] = parts[1]
		}
	}

	for k, v := range options.envOverrides {
		values[k] = v
	}

	return values, nil
}

// Load reads, defaults, and validates the full configuration.
func Load(opts ...Option) (Config, error) {
	values, err := EnvironmentValues(opts...)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		value, ok := values[key]
		return strings.TrimSpace(value), ok
	}

	cfg := Config{
		Server: ServerConfig{
			Port:              stringWithDefault(lookup, "API_SERVER_PORT", defaultPort),
			ReadTimeout:       durationWithDefault(lookup, "API_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:      durationWithDefault(lookup, "API_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:       durationWithDefault(lookup, "API_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			StrictTransitions: boolWithDefault(lookup, "API_SERVER_STRICT_TRANSITIONS", false),
			AllowedOrigins:    listWithDefault(lookup, "API_SERVER_ALLOWED_ORIGINS", nil),
		},
		Firebase: FirebaseConfig{
			ProjectID:       stringWithDefault(lookup, "API_FIREBASE_PROJECT_ID", ""),
			CredentialsFile: stringWithDefault(lookup, "API_FIREBASE_CREDENTIALS_FILE", ""),
		},
		Mongo: MongoConfig{
			URI:            stringWithDefault(lookup, "API_MONGO_URI", ""),
			Database:       stringWithDefault(lookup, "API_MONGO_DATABASE", defaultMongoDatabase),
			ConnectTimeout: durationWithDefault(lookup, "API_MONGO_CONNECT_TIMEOUT", defaultMongoConnectTimeout),
			QueryTimeout:   durationWithDefault(lookup, "API_MONGO_QUERY_TIMEOUT", defaultMongoQueryTimeout),
		},
		Session: SessionConfig{
			Secret:     stringWithDefault(lookup, "API_SESSION_SECRET", ""),
			CookieName: stringWithDefault(lookup, "API_SESSION_COOKIE_NAME", defaultSessionCookieName),
			TTL:        durationWithDefault(lookup, "API_SESSION_TTL", defaultSessionTTL),
			Secure:     boolWithDefault(lookup, "API_SESSION_SECURE", true),
		},
		Security: SecurityConfig{
			Environment:       stringWithDefault(lookup, "API_SECURITY_ENVIRONMENT", defaultSecurityEnvironment),
			AdminSecret:       stringWithDefault(lookup, "API_SECURITY_ADMIN_SECRET", ""),
			AdminSecretHeader: stringWithDefault(lookup, "API_SECURITY_ADMIN_SECRET_HEADER", defaultAdminSecretHeader),
		},
		Events: EventsConfig{
			Enabled:    boolWithDefault(lookup, "API_EVENTS_ENABLED", false),
			ProjectID:  stringWithDefault(lookup, "API_EVENTS_PROJECT_ID", ""),
			OrderTopic: stringWithDefault(lookup, "API_EVENTS_ORDER_TOPIC", defaultEventsOrderTopic),
		},
	}

	if cfg.Events.ProjectID == "" {
		cfg.Events.ProjectID = cfg.Firebase.ProjectID
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	var invalid []string

	if strings.TrimSpace(cfg.Server.Port) == "" {
		invalid = append(invalid, "Server.Port")
	}
	if cfg.Firebase.ProjectID == "" {
		invalid = append(invalid, "Firebase.ProjectID")
	}
	if cfg.Firebase.CredentialsFile != "" {
		if _, err := os.Stat(cfg.Firebase.CredentialsFile); err != nil {
			invalid = append(invalid, "Firebase.CredentialsFile")
		}
	}
	if cfg.Mongo.URI == "" {
		invalid = append(invalid, "Mongo.URI")
	}
	if cfg.Mongo.Database == "" {
		invalid = append(invalid, "Mongo.Database")
	}
	if cfg.Session.Secret == "" {
		invalid = append(invalid, "Session.Secret")
	}
	if cfg.Session.TTL <= 0 {
		invalid = append(invalid, "Session.TTL")
	}
	if cfg.Events.Enabled {
		if cfg.Events.ProjectID == "" {
			invalid = append(invalid, "Events.ProjectID")
		}
		if cfg.Events.OrderTopic == "" {
			invalid = append(invalid, "Events.OrderTopic")
		}
	}

	if len(invalid) > 0 {
		sort.Strings(invalid)
		return &ValidationError{fields: invalid}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("config: open env file %s: %w", path, err)
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: read env file %s: %w", path, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	value, ok := lookup(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	value, ok := lookup(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func listWithDefault(lookup func(string) (string, bool), key string, fallback []string) []string {
	value, ok := lookup(key)
	if !ok || value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
