package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const envPrefix = "msgboard"

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	HttpAddr          string        `yaml:"http_addr" validate:"required"`
	LogLevel          string        `yaml:"log_level"`
	LogJSON           bool          `yaml:"log_json"`
	SessionTTL        time.Duration `yaml:"session_ttl" validate:"required,gt=0"`   // lifetime of a bound session, refreshed on every request
	StoreTimeout      time.Duration `yaml:"store_timeout" validate:"required,gt=0"` // deadline for a single store operation
	SecureCookies     bool          `yaml:"secure_cookies"`
	AllowedOrigins    []string      `yaml:"allowed_origins"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval"` // 0 disables the back-reference reconciler
	Pg                Pg            `yaml:"pg"`
	Redis             Redis         `yaml:"redis"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Dbname   string `yaml:"dbname" validate:"required"`
	InitPath string `yaml:"initpath"`
}

type Redis struct {
	Addr string `yaml:"addr" validate:"required"`
	DB   int    `yaml:"db"`
}

// Private holds secrets. They never live in yaml, only in the environment
// (optionally seeded from <config folder>/.env).
type Private struct {
	SessionSecret string `envconfig:"SESSION_SECRET" validate:"required,min=16"`
	PgPassword    string `envconfig:"PG_PASSWORD"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func mustLoadEnv(configFolder string, output *Private) {
	// .env is optional, real environment variables win over it
	_ = godotenv.Load(path.Join(configFolder, ".env"))

	if err := envconfig.Process(envPrefix, output); err != nil {
		panic("can't read environment: " + err.Error())
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadEnv(configFolder, &private)

	cfg := &Config{Public: public, Private: private}
	if err := cfg.Validate(); err != nil {
		panic(err.Error())
	}
	return cfg
}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
