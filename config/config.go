// Package config loads the service configuration from the environment.
//
// The signing secret, password hash secret, bucket and region are required:
// the process refuses to start without them.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DevEnv = "dev"
	ProEnv = "pro"

	DefaultSQLiteDSN = "./blog.db?_pragma=foreign_keys(1)"
)

type Config struct {
	Env      string `mapstructure:"env" validate:"required,oneof=dev pro"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	Token    TokenConfig    `mapstructure:"token"`
	Password PasswordConfig `mapstructure:"password"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Blob     BlobConfig     `mapstructure:"blob"`
	Server   ServerConfig   `mapstructure:"server"`

	// SignupAllowOverwrite restores the overwrite-on-duplicate signup.
	SignupAllowOverwrite bool `mapstructure:"signup_allow_overwrite"`
	// SignupEnabled only matters outside dev, where signup is always open.
	SignupEnabled        bool `mapstructure:"signup_enabled"`
}

type TokenConfig struct {
	Secret string        `mapstructure:"secret" validate:"required"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type PasswordConfig struct {
	Secret string `mapstructure:"secret" validate:"required"`
	Scheme string `mapstructure:"scheme" validate:"required,oneof=hmac bcrypt"`
}

type StorageConfig struct {
	Driver    string `mapstructure:"driver" validate:"required,oneof=dynamodb sqlite memory"`
	DSN       string `mapstructure:"dsn" validate:"required_if=Driver sqlite"`
	PostTable string `mapstructure:"post_table" validate:"required"`
	UserTable string `mapstructure:"user_table" validate:"required"`
}

type BlobConfig struct {
	Bucket string `mapstructure:"bucket" validate:"required"`
	Region string `mapstructure:"region" validate:"required"`
	// Driver "memory" keeps images in process, for local development.
	Driver string `mapstructure:"driver" validate:"required,oneof=s3 memory"`
}

type ServerConfig struct {
	Address       string `mapstructure:"address"`
	WhitelistHost string `mapstructure:"whitelist_host"`
}

// env maps configuration keys to the environment variables they are read
// from.
var env = map[string]string{
	"env":                    "ENV",
	"log_level":              "LOG_LEVEL",
	"token.secret":           "JWT_SECRET_KEY",
	"token.ttl":              "TOKEN_TTL",
	"password.secret":        "PASSWORD_HASH_SECRET",
	"password.scheme":        "PASSWORD_SCHEME",
	"storage.driver":         "STORE_DRIVER",
	"storage.dsn":            "SQLITE_DSN",
	"storage.post_table":     "POST_TABLE",
	"storage.user_table":     "USER_TABLE",
	"blob.bucket":            "BUCKET",
	"blob.region":            "REGION",
	"blob.driver":            "BLOB_DRIVER",
	"server.address":         "ADDRESS_LISTEN",
	"server.whitelist_host":  "WHITELIST_HOST",
	"signup_allow_overwrite": "SIGNUP_ALLOW_OVERWRITE",
	"signup_enabled":         "ENABLE_SIGNUP",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", ProEnv)
	v.SetDefault("log_level", "info")
	v.SetDefault("token.ttl", 7*24*time.Hour)
	v.SetDefault("password.scheme", "hmac")
	v.SetDefault("storage.driver", "dynamodb")
	v.SetDefault("storage.dsn", DefaultSQLiteDSN)
	v.SetDefault("storage.post_table", "posts")
	v.SetDefault("storage.user_table", "users")
	v.SetDefault("blob.driver", "s3")
	v.SetDefault("signup_allow_overwrite", false)
	v.SetDefault("signup_enabled", true)
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return nil, err
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Env == DevEnv && cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SignupOpen reports whether new accounts may be created.
func (c *Config) SignupOpen() bool {
	return c.Env == DevEnv || c.SignupEnabled
}

// Validate checks cfg, naming the environment variable behind each failing
// field.
func Validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fe := verrs[0]
	return fmt.Errorf("invalid configuration: %s (%s) failed %q", fe.Namespace(), envFor(fe.StructNamespace()), fe.Tag())
}

var fieldKeys = map[string]string{
	"Config.Env":                  "env",
	"Config.LogLevel":             "log_level",
	"Config.Token.Secret":         "token.secret",
	"Config.Token.TTL":            "token.ttl",
	"Config.Password.Secret":      "password.secret",
	"Config.Password.Scheme":      "password.scheme",
	"Config.Storage.Driver":       "storage.driver",
	"Config.Storage.DSN":          "storage.dsn",
	"Config.Storage.PostTable":    "storage.post_table",
	"Config.Storage.UserTable":    "storage.user_table",
	"Config.Blob.Bucket":          "blob.bucket",
	"Config.Blob.Region":          "blob.region",
	"Config.Blob.Driver":          "blob.driver",
	"Config.Server.Address":       "server.address",
	"Config.Server.WhitelistHost": "server.whitelist_host",
}

func envFor(structNamespace string) string {
	if name, ok := env[fieldKeys[structNamespace]]; ok {
		return name
	}
	return structNamespace
}
