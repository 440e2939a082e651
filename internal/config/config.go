// Package config reads service settings from the environment once at startup.
package config

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds every setting the service reads.
type Config struct {
	Region            string `mapstructure:"AWS_REGION" validate:"required"`
	TableName         string `mapstructure:"DYNAMODB_TABLE_NAME" validate:"required"`
	BucketName        string `mapstructure:"S3_BUCKET_NAME"`
	Port              int    `mapstructure:"PORT" validate:"min=1,max=65535"`
	StoreDriver       string `mapstructure:"STORE_DRIVER" validate:"oneof=dynamodb postgres sqlite memory"`
	DatabaseDSN       string `mapstructure:"DATABASE_DSN" validate:"required_if=StoreDriver postgres,required_if=StoreDriver sqlite"`
	RabbitMQURL       string `mapstructure:"RABBITMQ_URL" validate:"omitempty,url"`
	BodyLimit         int    `mapstructure:"BODY_LIMIT" validate:"gt=0"`
	ImageMaxDimension int    `mapstructure:"IMAGE_MAX_DIMENSION" validate:"gte=0"`
}

// ImagesEnabled reports whether a blob store bucket is configured.
func (c *Config) ImagesEnabled() bool {
	return c.BucketName != ""
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("AWS_REGION", "us-west-2")
	v.SetDefault("DYNAMODB_TABLE_NAME", "products-table")
	v.SetDefault("S3_BUCKET_NAME", "")
	v.SetDefault("PORT", 5000)
	v.SetDefault("STORE_DRIVER", DriverDynamoDB)
	v.SetDefault("DATABASE_DSN", "file:catalog.db")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("BODY_LIMIT", 10*1024*1024)
	v.SetDefault("IMAGE_MAX_DIMENSION", 0)
}

// Load reads envFiles (missing files are fine), then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
