package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string
	Env         string
	LogLevel    string

	ServerPort int

	DatabaseURL string

	SessionSecret []byte
	SessionTTL    time.Duration
	SecureCookies bool

	TrustedOrigins []string

	StripeSecretKey     string
	StripeWebhookSecret string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3PublicURL       string
	S3AccessKeyID     string
	S3SecretAccessKey string

	KafkaBrokers []string

	ESURL        string
	ESUser       string
	ESPassword   string
	ProductIndex string
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (when present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("SERVICE_NAME", "santu")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("TRUSTED_ORIGINS", "http://localhost:3000")
	v.SetDefault("S3_REGION", "eu-west-3")
	v.SetDefault("PRODUCT_INDEX", "products")
	v.AutomaticEnv()
	return v
}

func FromViper(v *viper.Viper) Config {
	env := strings.ToLower(v.GetString("APP_ENV"))
	return Config{
		ServiceName: v.GetString("SERVICE_NAME"),
		Env:         env,
		LogLevel:    v.GetString("LOG_LEVEL"),

		ServerPort: v.GetInt("SERVER_PORT"),

		DatabaseURL: v.GetString("DATABASE_URL"),

		SessionSecret: []byte(v.GetString("SESSION_SECRET")),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
		SecureCookies: env == "production",

		TrustedOrigins: CSV(v.GetString("TRUSTED_ORIGINS")),

		StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),

		S3Bucket:          v.GetString("S3_BUCKET"),
		S3Region:          v.GetString("S3_REGION"),
		S3Endpoint:        v.GetString("S3_ENDPOINT"),
		S3PublicURL:       v.GetString("S3_PUBLIC_URL"),
		S3AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),

		KafkaBrokers: CSV(v.GetString("KAFKA_BROKERS")),

		ESURL:        v.GetString("ES_URL"),
		ESUser:       v.GetString("ES_USER"),
		ESPassword:   v.GetString("ES_PASSWORD"),
		ProductIndex: v.GetString("PRODUCT_INDEX"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
