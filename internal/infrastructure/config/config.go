package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token TokenConfig
	Mongo MongoConfig
	Redis RedisConfig
	S3    S3Config
}

type TokenConfig struct {
	// PrivateKeyPath and PublicKeyPath point at the PEM-encoded RSA keypair
	// used for signing and verifying access tokens.
	PrivateKeyPath string `env:"TOKEN_PRIVATE_KEY, default=keys/private.pem"`
	PublicKeyPath  string `env:"TOKEN_PUBLIC_KEY,  default=keys/public.pem"`
	// TTL is the access-token lifetime. Sessions outlive tokens so that an
	// expired token can still be refreshed.
	TTL time.Duration `env:"TOKEN_TTL, default=360h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=music_catalog"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type S3Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION, default=us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_ACCESS_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`
	BaseURL        string `env:"S3_BASE_URL"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
