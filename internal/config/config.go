/**
 * @description
 * This file handles the configuration management for the ledger-service.
 * It uses the Viper library to read settings from environment variables or a
 * .env file, including the named business-policy constants so deployments can
 * tune them without a rebuild.
 *
 * @dependencies
 * - github.com/spf13/viper: For configuration management.
 */
package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	// Business policy. Defaults mirror the domain constants.
	OverdraftFloor       int64 `mapstructure:"OVERDRAFT_FLOOR"`
	CreditBonusDivisor   int64 `mapstructure:"CREDIT_BONUS_DIVISOR"`
	TransferBonusDivisor int64 `mapstructure:"TRANSFER_BONUS_DIVISOR"`

	// RateLimitPerMinute bounds requests per client IP; 0 disables limiting.
	RateLimitPerMinute int `mapstructure:"RATE_LIMIT_PER_MINUTE"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8086")
	viper.SetDefault("OVERDRAFT_FLOOR", -1000)
	viper.SetDefault("CREDIT_BONUS_DIVISOR", 100)
	viper.SetDefault("TRANSFER_BONUS_DIVISOR", 150)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 0)

	// Bind envs explicitly so containers pick them up reliably
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("OVERDRAFT_FLOOR")
	_ = viper.BindEnv("CREDIT_BONUS_DIVISOR")
	_ = viper.BindEnv("TRANSFER_BONUS_DIVISOR")
	_ = viper.BindEnv("RATE_LIMIT_PER_MINUTE")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"config file read failed\" err=%v", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
