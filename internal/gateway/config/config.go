package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Direct document imports above this size must go through the upload
// endpoint instead of the request body.
const DefaultMaxDirectBytes = 4 << 20

// Hard cap on uploaded documents.
const DefaultMaxUploadBytes = 500 << 20

type Config struct {
	Port string
	Env  string

	Redis       RedisConfig
	PostgresDSN string
	MirrorDir   string

	Blob BlobConfig
	LLM  LLMConfig
	OCR  OCRConfig

	MaxDirectBytes int64
	MaxUploadBytes int64

	StateTTL time.Duration
	ChatTTL  time.Duration
	JobTTL   time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type BlobConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type LLMConfig struct {
	Model  string
	APIKey string
}

type OCRConfig struct {
	URL   string
	Token string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:        *port,
		Env:         env,
		Redis:       loadRedisConfig(),
		PostgresDSN: strings.TrimSpace(os.Getenv("STATE_STORE_PG_DSN")),
		MirrorDir:   firstNonEmpty(strings.TrimSpace(os.Getenv("MIRROR_DIR")), ".modelpuzzle"),
		Blob:        loadBlobConfig(env),
		LLM: LLMConfig{
			Model:  firstNonEmpty(strings.TrimSpace(os.Getenv("LLM_MODEL")), "gemini-2.5-flash"),
			APIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		},
		OCR: OCRConfig{
			URL:   strings.TrimSpace(os.Getenv("OCR_SERVICE_URL")),
			Token: strings.TrimSpace(os.Getenv("OCR_SERVICE_TOKEN")),
		},
		MaxDirectBytes: envBytes("IMPORT_MAX_DIRECT_BYTES", DefaultMaxDirectBytes),
		MaxUploadBytes: envBytes("IMPORT_MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		StateTTL:       envDuration("STATE_TTL", 30*24*time.Hour),
		ChatTTL:        envDuration("CHAT_TTL", 30*24*time.Hour),
		JobTTL:         envDuration("JOB_TTL", time.Hour),
	}, nil
}

func loadRedisConfig() RedisConfig {
	db := 0
	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			db = v
		}
	}
	return RedisConfig{
		Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}
}

func loadBlobConfig(env string) BlobConfig {
	endpoint := resolveBlobEndpoint(env)
	return BlobConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("BLOB_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("BLOB_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("BLOB_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("BLOB_S3_BUCKET")), "modelpuzzle-uploads"),
		UseSSL:    resolveBlobUseSSL(env),
	}
}

func resolveBlobEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("BLOB_MINIO_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("BLOB_S3_ENDPOINT"))
}

func resolveBlobUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("BLOB_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func envBytes(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
