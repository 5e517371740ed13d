package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 存储后端。
const (
	BackendPostgres = "postgres"
	BackendCSV      = "csv"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Payroll  PayrollConfig  `mapstructure:"payroll"`
	JobDesc  JobDescConfig  `mapstructure:"jobdesc"`
	Clamd    ClamdConfig    `mapstructure:"clamd"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	PublicBaseURL  string   `mapstructure:"public_base_url"`
	CompanyName    string   `mapstructure:"company_name"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
}

// StorageConfig selects the persistence backend for HR records.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig 包含 Redis 连接配置。IDLock 控制是否用 Redis 锁串行化编号分配。
type RedisConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	IDLock bool   `mapstructure:"id_lock"`
}

// Addr 返回 host:port 形式的地址。
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// SMTPConfig 描述发信账号。
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// PayrollConfig 以百分比配置扣款比例。
type PayrollConfig struct {
	TaxPercent float64 `mapstructure:"tax_percent"`
	PFPercent  float64 `mapstructure:"pf_percent"`
}

// JobDescConfig 控制 JD 地点提取策略（exact / loose）。
type JobDescConfig struct {
	LocationStrategy string `mapstructure:"location_strategy"`
}

// ClamdConfig 为空地址时跳过上传文件的病毒扫描。
type ClamdConfig struct {
	Addr string `mapstructure:"addr"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration from environment variables (with optional defaults).
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.API.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.PublicBaseURL), "/")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 5000)
	v.SetDefault("api.public_base_url", "http://localhost:5000")
	v.SetDefault("api.company_name", "Statscog Labs")
	v.SetDefault("api.allowed_origins", []string{})
	v.SetDefault("api.max_upload_bytes", 10<<20)
	v.SetDefault("storage.backend", BackendPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "hrportal")
	v.SetDefault("database.user", "hrportal")
	v.SetDefault("database.password", "hrportal")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.id_lock", true)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "hr-datasource")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("payroll.tax_percent", 5)
	v.SetDefault("payroll.pf_percent", 3)
	v.SetDefault("jobdesc.location_strategy", "exact")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                  "API_PORT",
		"api.public_base_url":       "PUBLIC_BASE_URL",
		"api.company_name":          "COMPANY_NAME",
		"api.allowed_origins":       "CORS_ALLOWED_ORIGINS",
		"api.max_upload_bytes":      "MAX_UPLOAD_BYTES",
		"storage.backend":           "STORAGE_BACKEND",
		"database.host":             "DATABASE_HOST",
		"database.port":             "DATABASE_PORT",
		"database.name":             "POSTGRES_DB",
		"database.user":             "POSTGRES_USER",
		"database.password":         "POSTGRES_PASSWORD",
		"database.sslmode":          "DATABASE_SSLMODE",
		"redis.host":                "REDIS_HOST",
		"redis.port":                "REDIS_PORT",
		"redis.id_lock":             "REDIS_ID_LOCK",
		"minio.endpoint":            "MINIO_ENDPOINT",
		"minio.public_endpoint":     "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":       "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":   "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":             "MINIO_USE_SSL",
		"minio.bucket":              "MINIO_BUCKET",
		"minio.region":              "MINIO_REGION",
		"minio.bucket_lookup":       "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":  "MINIO_AUTO_CREATE_BUCKET",
		"smtp.host":                 "SMTP_HOST",
		"smtp.port":                 "SMTP_PORT",
		"smtp.username":             "SMTP_USERNAME",
		"smtp.password":             "SMTP_PASSWORD",
		"smtp.from":                 "SMTP_FROM",
		"payroll.tax_percent":       "PAYROLL_TAX_PERCENT",
		"payroll.pf_percent":        "PAYROLL_PF_PERCENT",
		"jobdesc.location_strategy": "JD_LOCATION_STRATEGY",
		"clamd.addr":                "CLAMD_ADDR",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.API.PublicBaseURL == "" {
		return errors.New("public base url is required")
	}
	if cfg.API.MaxUploadBytes <= 0 {
		return errors.New("max upload bytes must be positive")
	}
	switch cfg.Storage.Backend {
	case BackendPostgres:
		if err := validateDatabase(cfg.Database); err != nil {
			return err
		}
	case BackendCSV:
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.PublicEndpoint == "" {
		return errors.New("minio public endpoint is required")
	}
	if cfg.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if cfg.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Payroll.TaxPercent < 0 || cfg.Payroll.PFPercent < 0 {
		return errors.New("payroll percentages must not be negative")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.JobDesc.LocationStrategy)) {
	case "", "exact", "loose":
	default:
		return fmt.Errorf("unknown jd location strategy %q", cfg.JobDesc.LocationStrategy)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	if d.Host == "" {
		return errors.New("database host is required")
	}
	if d.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if d.Name == "" {
		return errors.New("database name is required")
	}
	if d.User == "" {
		return errors.New("database user is required")
	}
	if d.Password == "" {
		return errors.New("database password is required")
	}
	if d.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	return nil
}
