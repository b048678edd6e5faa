package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type (
	APIServerConfig struct {
		Server   ServerConfig   `yaml:"server"`
		Database DatabaseConfig `yaml:"database"`
		Logger   LoggerConfig   `yaml:"logger"`
		JWT      JWTConfig      `yaml:"jwt"`
		Identity IdentityConfig `yaml:"identity"`
		Owner    OwnerConfig    `yaml:"owner"`
		Storage  StorageConfig  `yaml:"storage"`
		EmailLog EmailLogConfig `yaml:"email_log"`
		AI       AIConfig       `yaml:"ai"`
		Slides   SlidesConfig   `yaml:"slides"`
		I18n     I18nConfig     `yaml:"i18n"`
		Metrics  MetricsConfig  `yaml:"metrics"`
		Tracing  TracingConfig  `yaml:"tracing"`
	}

	ServerConfig struct {
		Port            int           `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORS            *CORSConfig   `yaml:"cors,omitempty"`
	}

	// CORSConfig lets a browser client served from another origin call the API.
	CORSConfig struct {
		AllowOrigins     []string `yaml:"allow_origins"`
		AllowMethods     []string `yaml:"allow_methods"`
		AllowHeaders     []string `yaml:"allow_headers"`
		ExposeHeaders    []string `yaml:"expose_headers"`
		AllowCredentials bool     `yaml:"allow_credentials"`
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		Path        string `yaml:"path"` // optional directory overriding the embedded translations
		DefaultLang string `yaml:"default_lang"`
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // mysql, postgres, sqlite
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
		User     string `yaml:"user"`     // root (for mysql), postgres (for postgres)
		Password string `yaml:"password"` // password
		DBName   string `yaml:"dbname"`   // database name, or file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (for postgres)
	}

	// JWTConfig configures the session tokens issued after login.
	JWTConfig struct {
		SecretKey  string        `yaml:"secret_key"`
		Duration   time.Duration `yaml:"duration"`
		CookieName string        `yaml:"cookie_name"`
		Secure     bool          `yaml:"secure"` // mark the session cookie Secure
	}

	// IdentityConfig configures verification of the assertions handed out by
	// the external OAuth portal.
	IdentityConfig struct {
		Secret   string `yaml:"secret"`
		Issuer   string `yaml:"issuer"`
		LoginURL string `yaml:"login_url"`
	}

	// OwnerConfig names the account that is always super_admin.
	OwnerConfig struct {
		OpenID string `yaml:"open_id"`
	}

	StorageConfig struct {
		Type    string `yaml:"type"`     // disk
		Path    string `yaml:"path"`     // root directory for uploaded objects
		BaseURL string `yaml:"base_url"` // URL prefix the objects are served under
	}

	EmailLogConfig struct {
		Type     string            `yaml:"type"` // memory or redis
		Capacity int               `yaml:"capacity"`
		Redis    RedisClientConfig `yaml:"redis"`
	}

	RedisClientConfig struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Key      string `yaml:"key"`
	}

	AIConfig struct {
		Timeout time.Duration `yaml:"timeout"`
	}

	// SlidesConfig seeds the slide count bounds on first start.
	SlidesConfig struct {
		MinSlides int `yaml:"min_slides"`
		MaxSlides int `yaml:"max_slides"`
	}

	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled"`
		Path      string    `yaml:"path"`
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}

	TracingConfig struct {
		Enabled     bool              `yaml:"enabled"`
		ServiceName string            `yaml:"service_name"`
		Endpoint    string            `yaml:"endpoint"`     // e.g. localhost:4317 or localhost:4318
		Protocol    string            `yaml:"protocol"`     // grpc or http
		Insecure    bool              `yaml:"insecure"`     // allow insecure connection
		SamplerRate float64           `yaml:"sampler_rate"` // 0.0~1.0
		Environment string            `yaml:"environment"`
		Headers     map[string]string `yaml:"headers"`
	}
)

func (c *APIServerConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type == "sqlite" && c.Database.DBName == "" {
		c.Database.DBName = "./data/carrousel.db"
	}
	if c.JWT.Duration <= 0 {
		c.JWT.Duration = 365 * 24 * time.Hour
	}
	if c.JWT.CookieName == "" {
		c.JWT.CookieName = "app_session_id"
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "disk"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "./data/uploads"
	}
	if c.Storage.BaseURL == "" {
		c.Storage.BaseURL = "/uploads"
	}
	if c.EmailLog.Type == "" {
		c.EmailLog.Type = "memory"
	}
	if c.EmailLog.Capacity <= 0 {
		c.EmailLog.Capacity = 100
	}
	if c.EmailLog.Redis.Key == "" {
		c.EmailLog.Redis.Key = "carrousel:email_logs"
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = 60 * time.Second
	}
	if c.Slides.MinSlides == 0 {
		c.Slides.MinSlides = 2
	}
	if c.Slides.MaxSlides == 0 {
		c.Slides.MaxSlides = 8
	}
	if c.I18n.DefaultLang == "" {
		c.I18n.DefaultLang = "fr"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "carrousel"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "carrousel-apiserver"
	}
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	case "sqlite":
		if dir := filepath.Dir(c.DBName); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				panic(fmt.Errorf("failed to create directory for sqlite database: %w", err))
			}
		}
		return c.DBName
	default:
		return ""
	}
}
