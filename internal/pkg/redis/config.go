package redis

import (
	"errors"
	"fmt"
	"time"
)

// Config defines the Redis client configuration
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	DialTimeout  time.Duration `mapstructure:"dialtimeout"`
	ReadTimeout  time.Duration `mapstructure:"readtimeout"`
	WriteTimeout time.Duration `mapstructure:"writetimeout"`
	PoolSize     int           `mapstructure:"poolsize"`
}

// DefaultConfig returns the default Redis configuration
func DefaultConfig() *Config {
	return &Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	}
}

// Validate validates the Redis configuration
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("redis host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("redis port must be between 1 and 65535")
	}
	if c.DB < 0 {
		return errors.New("redis db must be >= 0")
	}
	return nil
}

// Addr returns the host:port address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
