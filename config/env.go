package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppEnv        = "local"
	defaultPort          = "8080"
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultMongoDatabase = "stockroom"
	defaultRedisAddr     = "localhost:6379"
	defaultCacheTTL      = 10 * time.Minute
	defaultGRPCPort      = "9090"
	defaultMaxBodyBytes  = 4 << 20
	defaultRateLimit     = 200
	defaultHookWorkers   = 4
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load reads config/app.json and .env once. Process environment variables
// always win over both files.
func Load() error {
	loadOnce.Do(func() {
		loadErr = load("config/app.json", ".env")
	})
	return loadErr
}

// LoadFrom replaces the current values with defaults merged with the given
// files. Missing files are ignored. Later calls to Load become no-ops.
func LoadFrom(configPath, envPath string) error {
	loadOnce.Do(func() {})
	return load(configPath, envPath)
}

func load(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := mergeDotEnv(envPath, loaded); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	for key := range loaded {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			loaded[key] = strings.TrimSpace(v)
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":               defaultAppEnv,
		"PORT":                  defaultPort,
		"MONGO_URI":             "",
		"DATABASE_LOCAL":        "",
		"MONGO_DATABASE":        defaultMongoDatabase,
		"REDIS_ADDR":            defaultRedisAddr,
		"REDIS_PASSWORD":        "",
		"CACHE_TTL":             defaultCacheTTL.String(),
		"GRPC_PORT":             defaultGRPCPort,
		"MAX_BODY_BYTES":        strconv.Itoa(defaultMaxBodyBytes),
		"RATE_LIMIT_PER_MINUTE": strconv.Itoa(defaultRateLimit),
		"HOOK_WORKERS":          strconv.Itoa(defaultHookWorkers),
		"LOG_MONGO_COLLECTION":  "",
		"TRUSTED_PROXIES":       "",
	}
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

func IsProduction() bool {
	switch strings.ToLower(AppEnv()) {
	case "production", "prod":
		return true
	}
	return false
}

func Port() string {
	_ = Load()
	return get("PORT", defaultPort)
}

// MongoURI prefers MONGO_URI and falls back to DATABASE_LOCAL, the key older
// deployments of this service still set.
func MongoURI() string {
	_ = Load()
	if uri := get("MONGO_URI", ""); uri != "" {
		return uri
	}
	return get("DATABASE_LOCAL", defaultMongoURI)
}

func MongoDatabase() string {
	_ = Load()
	return get("MONGO_DATABASE", defaultMongoDatabase)
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func CacheTTL() time.Duration {
	_ = Load()
	d, err := time.ParseDuration(get("CACHE_TTL", ""))
	if err != nil || d <= 0 {
		return defaultCacheTTL
	}
	return d
}

// GRPCPort returns "" when the health server is disabled with "off" or "0".
func GRPCPort() string {
	_ = Load()
	switch port := get("GRPC_PORT", defaultGRPCPort); port {
	case "off", "0":
		return ""
	default:
		return port
	}
}

func MaxBodyBytes() int64 {
	_ = Load()
	n, err := strconv.ParseInt(get("MAX_BODY_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultMaxBodyBytes
	}
	return n
}

func RateLimitPerMinute() int {
	return positiveInt("RATE_LIMIT_PER_MINUTE", defaultRateLimit)
}

func HookWorkers() int {
	return positiveInt("HOOK_WORKERS", defaultHookWorkers)
}

func LogMongoCollection() string {
	_ = Load()
	return get("LOG_MONGO_COLLECTION", "")
}

// TrustedProxies lists the comma-separated addresses and CIDRs whose
// X-Forwarded-For header is believed.
func TrustedProxies() []string {
	_ = Load()
	raw := get("TRUSTED_PROXIES", "")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	k := strings.ToUpper(key)
	if v := get(k, ""); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return fallback
}

func positiveInt(key string, fallback int) int {
	_ = Load()
	n, err := strconv.Atoi(get(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]any
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	for key, val := range raw {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		switch v := val.(type) {
		case string:
			out[k] = strings.TrimSpace(v)
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(v)
		}
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		return err
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}
	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}
