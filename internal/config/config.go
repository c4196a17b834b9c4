package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds server configuration. Values come from defaults, an optional
// .env file and environment variables, in that order of precedence.
type Config struct {
	Env          string        `mapstructure:"env"`
	Port         string        `mapstructure:"port"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	CORSOrigin   string        `mapstructure:"cors_origin"`
	MongoURI     string        `mapstructure:"mongo_uri"`
	MongoDB      string        `mapstructure:"mongo_database"`
	SendBuffer   int           `mapstructure:"send_buffer"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PingInterval time.Duration `mapstructure:"ping_interval"`
}

// IsProduction reports whether the strict authentication path is mandatory.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load builds the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("⚠️ Failed to load .env: %v", err)
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("env", "development")
	v.SetDefault("port", ":8080")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("cors_origin", "*")
	v.SetDefault("mongo_uri", "")
	v.SetDefault("mongo_database", "classroom")
	v.SetDefault("send_buffer", 256)
	v.SetDefault("read_timeout", 60*time.Second)
	v.SetDefault("write_timeout", 10*time.Second)
	v.SetDefault("ping_interval", 25*time.Second)

	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
