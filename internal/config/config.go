package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type MongoCfg struct {
	URI string `mapstructure:"uri"`
	DB  string `mapstructure:"db"`
}

type RedisCfg struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	Prefix     string `mapstructure:"prefix"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

type KafkaCfg struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type LogCfg struct {
	Development bool `mapstructure:"development"`
}

type Config struct {
	Mongo MongoCfg `mapstructure:"mongo"`
	Redis RedisCfg `mapstructure:"redis"`
	Kafka KafkaCfg `mapstructure:"kafka"`
	Log   LogCfg   `mapstructure:"log"`
	// Derived
	CacheTTL time.Duration
}

// Load reads config.yaml (when present) with APP_ env overrides, in the
// shape the other services use.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.db", "chat")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.prefix", "chatdata")
	v.SetDefault("redis.ttl_seconds", 300)
	v.SetDefault("kafka.topic", "chat-data.events")

	// Defaults and env are enough for local runs without a file.
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.CacheTTL = time.Duration(cfg.Redis.TTLSeconds) * time.Second
	return &cfg, nil
}
