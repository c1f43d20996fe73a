package config

import (
	"log"

	"github.com/spf13/viper"

	"connectify/models"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AdminJWTSecret    string `mapstructure:"ADMIN_JWT_SECRET"`

	// MongoDB configuration (fulfillment records).
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	// Redis configuration (reminder queue, pending payment context).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Google Calendar configuration.
	GcalCalendarID      string   `mapstructure:"GCAL_CALENDAR_ID"`
	GcalCredentialsFile string   `mapstructure:"GCAL_CREDENTIALS_FILE"`
	TimeZone            string   `mapstructure:"TIME_ZONE"`
	WorkStartTime       string   `mapstructure:"WORK_START_TIME"` // "HH:MM"
	WorkEndTime         string   `mapstructure:"WORK_END_TIME"`   // "HH:MM"
	WorkingDays         []string `mapstructure:"working_days"`
	SlotStepMinutes     int      `mapstructure:"SLOT_STEP_MINUTES"`
	BufferBeforeMinutes int      `mapstructure:"BUFFER_BEFORE_MINUTES"`
	BufferAfterMinutes  int      `mapstructure:"BUFFER_AFTER_MINUTES"`
	PreparationMinutes  int      `mapstructure:"PREPARATION_MINUTES"`

	// Pricing: configured tiers, unique by duration.
	PriceTiers []models.PriceTier `mapstructure:"price_tiers"`

	// Stripe configuration.
	StripeKey           string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeSuccessURL    string `mapstructure:"STRIPE_SUCCESS_URL"`
	StripeCancelURL     string `mapstructure:"STRIPE_CANCEL_URL"`
	DefaultCurrency     string `mapstructure:"DEFAULT_CURRENCY"`

	// Payrexx configuration.
	PayrexxInstance   string `mapstructure:"PAYREXX_INSTANCE"`
	PayrexxAPISecret  string `mapstructure:"PAYREXX_API_SECRET"`
	PayrexxSuccessURL string `mapstructure:"PAYREXX_SUCCESS_URL"`
	PayrexxFailedURL  string `mapstructure:"PAYREXX_FAILED_URL"`
	PayrexxCancelURL  string `mapstructure:"PAYREXX_CANCEL_URL"`

	// Internal fulfillment channel.
	FulfillmentSharedSecret string `mapstructure:"FULFILLMENT_SHARED_SECRET"`

	// Ad-hoc "start now" sessions.
	AdhocEnabled bool `mapstructure:"ADHOC_ENABLED"`
}

var AppConfig Config

// LoadConfig initializes Viper to load config values from env, file, or defaults.
func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "connectify")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("TIME_ZONE", "Europe/Zurich")
	viper.SetDefault("WORK_START_TIME", "09:00")
	viper.SetDefault("WORK_END_TIME", "17:00")
	viper.SetDefault("working_days", []string{"Mon", "Tue", "Wed", "Thu", "Fri"})
	viper.SetDefault("SLOT_STEP_MINUTES", 15)
	viper.SetDefault("BUFFER_BEFORE_MINUTES", 0)
	viper.SetDefault("BUFFER_AFTER_MINUTES", 0)
	viper.SetDefault("PREPARATION_MINUTES", 120)
	viper.SetDefault("DEFAULT_CURRENCY", "chf")
	viper.SetDefault("ADHOC_ENABLED", true)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
