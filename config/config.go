package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Comma-separated origins allowed to call the API. Cookies are only
	// accepted cross-origin from an explicit list; "*" serves same-origin admins.
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	// Remote document store: "firestore", "mongo" or "none".
	RemoteBackend       string `mapstructure:"REMOTE_BACKEND"`
	FirebaseCredentials string `mapstructure:"FIREBASE_CREDENTIALS"`
	FirebaseProjectID   string `mapstructure:"FIREBASE_PROJECT_ID"`
	DatabaseURL         string `mapstructure:"DATABASE_URL"`
	MongoDatabase       string `mapstructure:"MONGO_DATABASE"`

	// Local fallback store: "sqlite" or "redis".
	LocalBackend    string `mapstructure:"LOCAL_BACKEND"`
	LocalStorePath  string `mapstructure:"LOCAL_STORE_PATH"`
	LocalQuotaBytes int    `mapstructure:"LOCAL_QUOTA_BYTES"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`

	// Admin access.
	AdminPassphrase string `mapstructure:"ADMIN_PASSPHRASE"`
	SessionSecret   string `mapstructure:"SESSION_SECRET"`

	// Image pipeline.
	CloudinaryURL string `mapstructure:"CLOUDINARY_URL"`
	ImageMaxWidth int    `mapstructure:"IMAGE_MAX_WIDTH"`
	ImageQuality  int    `mapstructure:"IMAGE_QUALITY"`
}

var AppConfig Config

// Well-known location of the site content document.
const (
	ContentCollection = "settings"
	ContentDocID      = "websiteContent"
)

func LoadConfig() {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("REMOTE_BACKEND", "firestore")
	viper.SetDefault("FIREBASE_CREDENTIALS", "")
	viper.SetDefault("FIREBASE_PROJECT_ID", "nail-mi")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "trinhnail")
	viper.SetDefault("LOCAL_BACKEND", "sqlite")
	viper.SetDefault("LOCAL_STORE_PATH", "data/local.db")
	viper.SetDefault("LOCAL_QUOTA_BYTES", 5*1024*1024)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("ADMIN_PASSPHRASE", "trinh888")
	viper.SetDefault("SESSION_SECRET", "trinh-session-dev")
	viper.SetDefault("CLOUDINARY_URL", "")
	viper.SetDefault("IMAGE_MAX_WIDTH", 1200)
	viper.SetDefault("IMAGE_QUALITY", 70)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
