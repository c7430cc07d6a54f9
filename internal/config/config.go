package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sngm3741/facts-finders/api/internal/logging"
)

// Config holds runtime configuration of the API server.
type Config struct {
	Addr             string
	MongoURI         string
	MongoDatabase    string
	RecordCollection string
	Timeout          time.Duration
	RequestTimeout   time.Duration
	Timezone         string
	ServerLog        *zap.SugaredLogger
	AllowedOrigins   []string
	ServerValidation bool
}

// MinIOConfig describes the S3-compatible bucket used for customer photos.
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string
}

// CloudinaryConfig describes an unsigned Cloudinary upload preset.
type CloudinaryConfig struct {
	BaseURL      string
	CloudName    string
	UploadPreset string
}

// ClientConfig holds configuration of the form CLI.
type ClientConfig struct {
	APIBaseURL     string
	HTTPTimeout    time.Duration
	Timezone       string
	UploadProvider string
	MinIO          MinIOConfig
	Cloudinary     CloudinaryConfig
	GeoProvider    string
	GeoLatitude    *float64
	GeoLongitude   *float64
	GeoEndpoint    string
	Log            *zap.SugaredLogger
}

// Load reads environment variables (after an optional .env) and returns the server Config.
// MONGO_URI has no default so that credentials never live in the repository.
func Load() Config {
	_ = godotenv.Load()

	logger := newLogger("facts-api")

	mongoURI := strings.TrimSpace(os.Getenv("MONGO_URI"))
	if mongoURI == "" {
		logger.Fatal("MONGO_URI must be configured")
	}

	cfg := Config{
		Addr:             envOrDefault("HTTP_ADDR", ":5000"),
		MongoURI:         mongoURI,
		MongoDatabase:    envOrDefault("MONGO_DB", "formsDb"),
		RecordCollection: envOrDefault("RECORD_COLLECTION", "factsfinders"),
		Timeout:          durationOrDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		RequestTimeout:   durationOrDefault("REQUEST_TIMEOUT", 15*time.Second),
		Timezone:         envOrDefault("TIMEZONE", "Asia/Kolkata"),
		ServerLog:        logger,
		AllowedOrigins:   parseList("API_ALLOWED_ORIGINS", []string{"https://facts-finder.netlify.app"}),
		ServerValidation: boolOrDefault("SERVER_VALIDATION", false),
	}

	cfg.ServerLog.Infof("loaded config: addr=%q db=%q collection=%q origins=%v serverValidation=%t",
		cfg.Addr, cfg.MongoDatabase, cfg.RecordCollection, cfg.AllowedOrigins, cfg.ServerValidation)

	return cfg
}

// LoadClient reads the form CLI configuration.
func LoadClient() ClientConfig {
	_ = godotenv.Load()

	return ClientConfig{
		APIBaseURL:     strings.TrimRight(envOrDefault("FACTS_API_URL", "http://localhost:5000"), "/"),
		HTTPTimeout:    durationOrDefault("HTTP_CLIENT_TIMEOUT", 30*time.Second),
		Timezone:       envOrDefault("TIMEZONE", "Asia/Kolkata"),
		UploadProvider: strings.ToLower(envOrDefault("UPLOAD_PROVIDER", "cloudinary")),
		MinIO: MinIOConfig{
			Endpoint:      strings.TrimSpace(os.Getenv("MINIO_ENDPOINT")),
			AccessKey:     strings.TrimSpace(os.Getenv("MINIO_ACCESS_KEY")),
			SecretKey:     strings.TrimSpace(os.Getenv("MINIO_SECRET_KEY")),
			Bucket:        envOrDefault("MINIO_BUCKET", "customer-images"),
			Region:        envOrDefault("MINIO_REGION", "us-east-1"),
			UseSSL:        boolOrDefault("MINIO_USE_SSL", true),
			PublicBaseURL: strings.TrimSpace(os.Getenv("MINIO_PUBLIC_BASE_URL")),
		},
		Cloudinary: CloudinaryConfig{
			BaseURL:      envOrDefault("CLOUDINARY_BASE_URL", "https://api.cloudinary.com"),
			CloudName:    strings.TrimSpace(os.Getenv("CLOUDINARY_CLOUD_NAME")),
			UploadPreset: strings.TrimSpace(os.Getenv("CLOUDINARY_UPLOAD_PRESET")),
		},
		GeoProvider:  strings.ToLower(envOrDefault("GEO_PROVIDER", "static")),
		GeoLatitude:  floatOrNil("GEO_LATITUDE"),
		GeoLongitude: floatOrNil("GEO_LONGITUDE"),
		GeoEndpoint:  envOrDefault("GEO_ENDPOINT", "http://ip-api.com/json"),
		Log:          newLogger("facts-form"),
	}
}

func newLogger(name string) *zap.SugaredLogger {
	return logging.New(logging.Options{
		Name:        name,
		Development: strings.EqualFold(envOrDefault("APP_ENV", "production"), "development"),
		File:        strings.TrimSpace(os.Getenv("LOG_FILE")),
	})
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolOrDefault(key string, fallback bool) bool {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			return parsed
		}
	}
	return fallback
}

func floatOrNil(key string) *float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
