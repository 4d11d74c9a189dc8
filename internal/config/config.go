package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AdminAccount struct {
	Email        string `mapstructure:"email"`
	PasswordHash string `mapstructure:"password_hash"`
	Role         string `mapstructure:"role"`
}

type Config struct {
	App struct {
		Port             string        `mapstructure:"port"`
		Env              string        `mapstructure:"env"`
		PublicURL        string        `mapstructure:"public_url"`
		SimulatedLatency time.Duration `mapstructure:"simulated_latency"`
	} `mapstructure:"app"`
	Storage struct {
		Backend   string `mapstructure:"backend"`
		Namespace string `mapstructure:"namespace"`
	} `mapstructure:"storage"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers      []string `mapstructure:"brokers"`
		ArchiveGroup string   `mapstructure:"archive_group"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret         string         `mapstructure:"jwt_secret"`
		SessionLifespan   time.Duration  `mapstructure:"session_lifespan"`
		MaxAttempts       int            `mapstructure:"max_attempts"`
		LockoutDuration   time.Duration  `mapstructure:"lockout_duration"`
		IdleTimeout       time.Duration  `mapstructure:"idle_timeout"`
		IdleCheckInterval time.Duration  `mapstructure:"idle_check_interval"`
		Admins            []AdminAccount `mapstructure:"admins"`
	} `mapstructure:"auth"`
	Activity struct {
		MaxEntries   int           `mapstructure:"max_entries"`
		Retention    time.Duration `mapstructure:"retention"`
		DefaultLimit int           `mapstructure:"default_limit"`
	} `mapstructure:"activity"`
	Profile struct {
		AutosaveDelay time.Duration `mapstructure:"autosave_delay"`
	} `mapstructure:"profile"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.public_url", "http://localhost:8080")
	v.SetDefault("app.simulated_latency", 0)

	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.namespace", "portfolio")

	v.SetDefault("kafka.archive_group", "activity-archiver")

	v.SetDefault("auth.session_lifespan", 24*time.Hour)
	v.SetDefault("auth.max_attempts", 3)
	v.SetDefault("auth.lockout_duration", 15*time.Minute)
	v.SetDefault("auth.idle_timeout", 30*time.Minute)
	v.SetDefault("auth.idle_check_interval", time.Minute)

	v.SetDefault("activity.max_entries", 1000)
	v.SetDefault("activity.retention", 7*24*time.Hour)
	v.SetDefault("activity.default_limit", 100)

	v.SetDefault("profile.autosave_delay", 2*time.Second)
}

// LoadConfig reads .env, then config.yaml from the given directories (the working
// directory when none are given), then environment overrides.
func LoadConfig(paths ...string) (cfg Config, err error) {
	err = godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	setDefaults(v)

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.public_url", "APP_PUBLIC_URL")
	v.BindEnv("storage.backend", "STORAGE_BACKEND")
	v.BindEnv("storage.namespace", "STORAGE_NAMESPACE")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.session_lifespan", "SESSION_LIFESPAN")
	v.BindEnv("jaeger.otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	err = v.Unmarshal(&cfg)
	return
}
