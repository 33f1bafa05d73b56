package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig
	DB           DBConfig
	JWT          JWTConfig
	S3           S3Config
	Upload       UploadConfig
	OCR          OCRConfig
	Verification VerificationConfig
	CORS         CORSConfig
	Email        EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT validation settings. Tokens are issued by the identity
// service; this service only validates them.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for certificate archival.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// UploadConfig holds temp-file settings for certificate uploads.
type UploadConfig struct {
	TempDir       string `mapstructure:"temp_dir"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// OCRConfig holds recognition engine settings.
type OCRConfig struct {
	Language    string `mapstructure:"language"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// VerificationConfig holds the triage thresholds. These are heuristic
// tunables; the defaults mirror the values the decision policy was built
// around.
type VerificationConfig struct {
	MinConfidence  float64 `mapstructure:"min_confidence"`
	MinTextLength  int     `mapstructure:"min_text_length"`
	MinValidScore  int     `mapstructure:"min_valid_score"`
	ReviewMinScore int     `mapstructure:"review_min_score"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds outcome notification settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// Load reads configuration from environment variables with the SAMARTH_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SAMARTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "samarth")
	v.SetDefault("db.password", "samarth_secret")
	v.SetDefault("db.name", "samarth_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "samarth")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "samarth-certificates")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Upload defaults
	v.SetDefault("upload.temp_dir", os.TempDir())
	v.SetDefault("upload.max_file_size_mb", 10)

	// OCR defaults
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.timeout_secs", 30)

	// Verification threshold defaults
	v.SetDefault("verification.min_confidence", 30.0)
	v.SetDefault("verification.min_text_length", 30)
	v.SetDefault("verification.min_valid_score", 6)
	v.SetDefault("verification.review_min_score", 3)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@samarth.gov.example")
	v.SetDefault("email.from_name", "Samarth Verification")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "SAMARTH_SERVER_PORT",
		"server.read_timeout":           "SAMARTH_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "SAMARTH_SERVER_WRITE_TIMEOUT",
		"server.environment":            "SAMARTH_SERVER_ENVIRONMENT",
		"db.host":                       "SAMARTH_DB_HOST",
		"db.port":                       "SAMARTH_DB_PORT",
		"db.user":                       "SAMARTH_DB_USER",
		"db.password":                   "SAMARTH_DB_PASSWORD",
		"db.name":                       "SAMARTH_DB_NAME",
		"db.sslmode":                    "SAMARTH_DB_SSLMODE",
		"db.max_open":                   "SAMARTH_DB_MAX_OPEN",
		"db.max_idle":                   "SAMARTH_DB_MAX_IDLE",
		"jwt.secret":                    "SAMARTH_JWT_SECRET",
		"jwt.issuer":                    "SAMARTH_JWT_ISSUER",
		"s3.region":                     "SAMARTH_S3_REGION",
		"s3.bucket":                     "SAMARTH_S3_BUCKET",
		"s3.endpoint":                   "SAMARTH_S3_ENDPOINT",
		"s3.access_key":                 "SAMARTH_S3_ACCESS_KEY",
		"s3.secret_key":                 "SAMARTH_S3_SECRET_KEY",
		"s3.presign_expiry":             "SAMARTH_S3_PRESIGN_EXPIRY",
		"upload.temp_dir":               "SAMARTH_UPLOAD_TEMP_DIR",
		"upload.max_file_size_mb":       "SAMARTH_UPLOAD_MAX_FILE_SIZE_MB",
		"ocr.language":                  "SAMARTH_OCR_LANGUAGE",
		"ocr.timeout_secs":              "SAMARTH_OCR_TIMEOUT_SECS",
		"verification.min_confidence":   "SAMARTH_VERIFICATION_MIN_CONFIDENCE",
		"verification.min_text_length":  "SAMARTH_VERIFICATION_MIN_TEXT_LENGTH",
		"verification.min_valid_score":  "SAMARTH_VERIFICATION_MIN_VALID_SCORE",
		"verification.review_min_score": "SAMARTH_VERIFICATION_REVIEW_MIN_SCORE",
		"cors.allowed_origins":          "SAMARTH_CORS_ALLOWED_ORIGINS",
		"email.provider":                "SAMARTH_EMAIL_PROVIDER",
		"email.region":                  "SAMARTH_EMAIL_REGION",
		"email.from_address":            "SAMARTH_EMAIL_FROM_ADDRESS",
		"email.from_name":               "SAMARTH_EMAIL_FROM_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SAMARTH_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SAMARTH_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Upload = UploadConfig{
		TempDir:       v.GetString("upload.temp_dir"),
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.OCR = OCRConfig{
		Language:    v.GetString("ocr.language"),
		TimeoutSecs: v.GetInt("ocr.timeout_secs"),
	}
	cfg.Verification = VerificationConfig{
		MinConfidence:  v.GetFloat64("verification.min_confidence"),
		MinTextLength:  v.GetInt("verification.min_text_length"),
		MinValidScore:  v.GetInt("verification.min_valid_score"),
		ReviewMinScore: v.GetInt("verification.review_min_score"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	return cfg, nil
}
