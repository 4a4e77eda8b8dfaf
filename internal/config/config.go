package config

import (
	"bytes"
	"fmt"
	neturl "net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"
	defaultMongoHost  = "127.0.0.1"
	defaultMongoPort  = 27017
	defaultMongoName  = "scrapbook"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"` // "development" | "production"
	Mongo          MongoRuntimeConfig `yaml:"mongo"`
	Redis          RedisRuntimeConfig `yaml:"redis"`
	S3             S3RuntimeConfig    `yaml:"s3"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	JWTSecret      string             `yaml:"jwt_secret"`
	AdminPassword  string             `yaml:"admin_password"` // bcrypt hash, or plain in development
	Layout         LayoutConfig       `yaml:"layout"`
}

type MongoRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type S3RuntimeConfig struct {
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Endpoint        string `yaml:"endpoint"` // optional custom endpoint (MinIO etc.)
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicBaseURL   string `yaml:"public_base_url"`
	PathStyle       bool   `yaml:"path_style"`
}

// LayoutConfig tunes the responsive layout policy. Zero values fall back to
// the built-in defaults in the layout package.
type LayoutConfig struct {
	Breakpoint int `yaml:"breakpoint"`
}

type rawAppConfig struct {
	Port            int              `yaml:"port"`
	Env             string           `yaml:"env"`
	NodeEnv         string           `yaml:"node_env"`
	MongoURL        string           `yaml:"mongo_url"`
	DatabaseURL     string           `yaml:"database_url"`
	Mongo           rawMongoConfig   `yaml:"mongo"`
	RedisURL        string           `yaml:"redis_url"`
	Redis           rawRedisConfig   `yaml:"redis"`
	S3              S3RuntimeConfig  `yaml:"s3"`
	AllowedOrigins  []string         `yaml:"allowed_origins"`
	CORSOrigins     []string         `yaml:"cors_allowed_origins"`
	JWTSecret       string           `yaml:"jwt_secret"`
	JWTSecretLegacy string           `yaml:"jwtsecret"`
	AdminPassword   string           `yaml:"admin_password"`
	Layout          LayoutConfig     `yaml:"layout"`
}

type rawMongoConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	DBName   string `yaml:"db_name"`
}

type rawRedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

// Load reads and normalizes the YAML config file.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	raw := rawAppConfig{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	applyRawAppConfig(&cfg, raw)
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Mongo.Port < 1 || cfg.Mongo.Port > 65535 {
		return nil, fmt.Errorf("invalid mongo.port %d in %q, expected 1-65535", cfg.Mongo.Port, path)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return nil, fmt.Errorf("invalid redis.port %d in %q, expected 1-65535", cfg.Redis.Port, path)
	}
	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("invalid redis.db %d in %q, expected >= 0", cfg.Redis.DB, path)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Mongo: MongoRuntimeConfig{
			Host: defaultMongoHost,
			Port: defaultMongoPort,
			Name: defaultMongoName,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port > 0 {
		cfg.Port = raw.Port
	}
	if env := firstNonEmpty(raw.Env, raw.NodeEnv); env != "" {
		cfg.Env = strings.ToLower(strings.TrimSpace(env))
	}

	if url := firstNonEmpty(raw.Mongo.URL, raw.MongoURL, raw.DatabaseURL); url != "" {
		cfg.Mongo.URL = strings.TrimSpace(url)
	}
	if host := strings.TrimSpace(raw.Mongo.Host); host != "" {
		cfg.Mongo.Host = host
	}
	if raw.Mongo.Port > 0 {
		cfg.Mongo.Port = raw.Mongo.Port
	}
	if user := firstNonEmpty(raw.Mongo.Username, raw.Mongo.User); user != "" {
		cfg.Mongo.Username = user
	}
	if raw.Mongo.Password != "" {
		cfg.Mongo.Password = raw.Mongo.Password
	}
	if name := firstNonEmpty(raw.Mongo.Name, raw.Mongo.DBName); name != "" {
		cfg.Mongo.Name = name
	}

	if url := firstNonEmpty(raw.Redis.URL, raw.RedisURL); url != "" {
		cfg.Redis.URL = strings.TrimSpace(url)
	}
	if host := strings.TrimSpace(raw.Redis.Host); host != "" {
		cfg.Redis.Host = host
	}
	if raw.Redis.Port > 0 {
		cfg.Redis.Port = raw.Redis.Port
	}
	if raw.Redis.Username != "" {
		cfg.Redis.Username = raw.Redis.Username
	}
	if raw.Redis.Password != "" {
		cfg.Redis.Password = raw.Redis.Password
	}
	if raw.Redis.DB != nil {
		cfg.Redis.DB = *raw.Redis.DB
	}
	if raw.Redis.TLS != nil {
		cfg.Redis.TLS = *raw.Redis.TLS
	}

	cfg.S3 = raw.S3

	if origins := firstNonEmptySlice(raw.AllowedOrigins, raw.CORSOrigins); len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}
	if secret := firstNonEmpty(raw.JWTSecret, raw.JWTSecretLegacy); secret != "" {
		cfg.JWTSecret = secret
	}
	if raw.AdminPassword != "" {
		cfg.AdminPassword = raw.AdminPassword
	}
	cfg.Layout = raw.Layout
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}

// MongoURI resolves the full MongoDB connection string.
func (c *AppConfig) MongoURI() string {
	if url := strings.TrimSpace(c.Mongo.URL); url != "" {
		return url
	}
	host := fmt.Sprintf("%s:%d", c.Mongo.Host, c.Mongo.Port)
	if c.Mongo.Username != "" {
		cred := neturl.UserPassword(c.Mongo.Username, c.Mongo.Password)
		return fmt.Sprintf("mongodb://%s@%s/%s", cred.String(), host, c.Mongo.Name)
	}
	return fmt.Sprintf("mongodb://%s/%s", host, c.Mongo.Name)
}

// RedisURI resolves the full Redis connection string.
func (c *AppConfig) RedisURI() string {
	if url := strings.TrimSpace(c.Redis.URL); url != "" {
		return url
	}
	scheme := "redis"
	if c.Redis.TLS {
		scheme = "rediss"
	}
	auth := ""
	if c.Redis.Username != "" || c.Redis.Password != "" {
		auth = neturl.UserPassword(c.Redis.Username, c.Redis.Password).String() + "@"
	}
	return fmt.Sprintf("%s://%s%s:%d/%d", scheme, auth, c.Redis.Host, c.Redis.Port, c.Redis.DB)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func firstNonEmptySlice(slices ...[]string) []string {
	for _, s := range slices {
		if len(s) > 0 {
			return s
		}
	}
	return nil
}
