// Package config loads process configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	apperrors "fanout-runner/errors"
)

// Run modes.
const (
	ModeLambda = "lambda"
	ModeServer = "server"
	ModeWorker = "worker"
)

// Response formats for the Lambda entry point.
const (
	FormatRaw        = "raw"
	FormatAPIGateway = "apigateway"
)

// Config holds everything main needs to wire a hosting surface. The fan-out
// shape itself (workers, iterations, wait timeout) is fixed and lives in
// the services package.
type Config struct {
	Mode            string
	ServerPort      string
	RedisHost       string
	RedisPort       int
	QueueEnabled    bool
	ResponseFormat  string
	LogLevel        string
	XRaySegmentName string
}

// RedisAddr returns host:port for the Redis client.
func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + strconv.Itoa(c.RedisPort)
}

// Load reads an optional .env file and then the environment. The returned
// bool reports whether a .env file was found.
func Load() (Config, bool, error) {
	loaded := godotenv.Load() == nil
	cfg, err := FromEnv()
	return cfg, loaded, err
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Mode:            getEnv("RUN_MODE", defaultMode()),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		RedisHost:       getEnv("REDIS_HOST", "localhost"),
		ResponseFormat:  getEnv("RESPONSE_FORMAT", FormatRaw),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		XRaySegmentName: getEnv("XRAY_SEGMENT_NAME", "fanout-runner"),
	}
	cfg.Mode = strings.ToLower(cfg.Mode)
	cfg.ResponseFormat = strings.ToLower(cfg.ResponseFormat)

	port, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, apperrors.NewConfigError("REDIS_PORT", "invalid port %q", os.Getenv("REDIS_PORT"))
	}
	cfg.RedisPort = port

	queue, err := strconv.ParseBool(getEnv("QUEUE_ENABLED", "false"))
	if err != nil {
		return Config{}, apperrors.NewConfigError("QUEUE_ENABLED", "not a boolean: %q", os.Getenv("QUEUE_ENABLED"))
	}
	cfg.QueueEnabled = queue

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeLambda, ModeServer, ModeWorker:
	default:
		return apperrors.NewConfigError("RUN_MODE", "unknown mode %q", c.Mode)
	}
	switch c.ResponseFormat {
	case FormatRaw, FormatAPIGateway:
	default:
		return apperrors.NewConfigError("RESPONSE_FORMAT", "unknown format %q", c.ResponseFormat)
	}
	if c.ServerPort == "" {
		return apperrors.NewConfigError("SERVER_PORT", "must not be empty")
	}
	return nil
}

// defaultMode picks lambda inside the Lambda runtime, server elsewhere.
func defaultMode() string {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		return ModeLambda
	}
	return ModeServer
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
