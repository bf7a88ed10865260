package config

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration for the resolver cache
type RedisConfig struct {
	Host     string `env:"ACCOUNT_REDIS_HOST" env-default:"localhost"`
	Port     uint16 `env:"ACCOUNT_REDIS_PORT" env-default:"6379"`
	Password string `env:"ACCOUNT_REDIS_PASSWORD" env-default:""`
	DB       int    `env:"ACCOUNT_REDIS_DB" env-default:"0"`
}

// ToRedisOptions converts the config to go-redis client options
func (r RedisConfig) ToRedisOptions() *redis.Options {
	return &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", r.Host, r.Port),
		Password: r.Password,
		DB:       r.DB,
	}
}
