package config

import (
	"flag"
	"os"
	"time"

	"devmart/internal/hooks"
	"devmart/internal/lib/retry"
	"devmart/internal/notify"
	"devmart/internal/notify/events"
	"devmart/internal/services/auth"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	ObjectsLocal = "local"
	ObjectsS3    = "s3"
)

type Config struct {
	Env           string                 `yaml:"env" env:"ENV" env-default:"local"`
	HTTP          HTTPConfig             `yaml:"http"`
	Storage       StorageConfig          `yaml:"storage"`
	ObjectStorage ObjectStorageConfig    `yaml:"object_storage"`
	Redis         RedisConf              `yaml:"redis"`
	Auth          auth.Config            `yaml:"auth"`
	Admin         AdminConfig            `yaml:"admin"`
	Retry         retry.Policy           `yaml:"retry"`
	Hooks         hooks.CollectionConfig `yaml:"hooks"`
	Leads         LeadsConfig            `yaml:"leads"`
	Notify        notify.EmailConfig     `yaml:"notify"`
	RabbitMQ      events.RabbitMQConfig  `yaml:"rabbitmq"`
}

type HTTPConfig struct {
	Host          string   `yaml:"host" env:"HTTP_HOST"`
	Port          string   `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	SessionSecret string   `yaml:"session_secret" env:"SESSION_SECRET" env-required:"true"`
	SecureCookies bool     `yaml:"secure_cookies" env:"SECURE_COOKIES"`
	AllowOrigins  []string `yaml:"allow_origins" env:"ALLOW_ORIGINS" env-separator:","`
}

type StorageConfig struct {
	// Driver is memory or postgres.
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	DSN    string `yaml:"dsn" env:"DATABASE_DSN"`
}

type ObjectStorageConfig struct {
	// Driver is local or s3.
	Driver  string `yaml:"driver" env:"OBJECT_STORAGE_DRIVER" env-default:"local"`
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	// BaseURL is the public prefix of stored objects. Local storage
	// defaults to /uploads.
	BaseURL string `yaml:"base_url" env:"OBJECT_STORAGE_BASE_URL"`
	MaxSize int64  `yaml:"max_size" env-default:"52428800"`

	Region   string `yaml:"region" env:"AWS_REGION" env-default:"us-east-1"`
	Bucket   string `yaml:"bucket" env:"S3_BUCKET"`
	Endpoint string `yaml:"endpoint" env:"S3_ENDPOINT"`
}

type RedisConf struct {
	RedisAddr     string        `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" env:"REDIS_DB"`
	DialTimeout   time.Duration `yaml:"dial_timeout" env-default:"5s"`
}

// AdminConfig seeds the first admin account on startup when Email is set.
type AdminConfig struct {
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Name     string `yaml:"name" env:"ADMIN_NAME" env-default:"Admin"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

type LeadsConfig struct {
	Cooldown time.Duration `yaml:"cooldown" env-default:"5m"`
}

func MustLoad() *Config {
	// A missing .env is fine.
	_ = godotenv.Load()

	path := fetchConfigPath()
	if path == "" {
		var cfg Config
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			panic("cannot read config from env: " + err.Error())
		}

		return &cfg
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
