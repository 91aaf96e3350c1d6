// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvironmentConfig holds process-level settings read from STARSTRIKE_*
// variables.
type EnvironmentConfig struct {
	ConfigPath string
	Renderer   string
	Seed       uint64
	TickRate   int // simulation frames per second

	// Circuit breaker guarding the audio collaborator
	CircuitBreakerMaxRequests         int
	CircuitBreakerInterval            time.Duration
	CircuitBreakerTimeout             time.Duration
	CircuitBreakerMaxConsecutiveFails int
}

// ValidationError names the configuration field that failed validation.
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// LoadConfigFromEnv reads and validates the environment configuration.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	config := &EnvironmentConfig{
		ConfigPath: getEnvOrDefault("STARSTRIKE_CONFIG", "config.json"),
		Renderer:   getEnvOrDefault("STARSTRIKE_RENDERER", "terminal"),
		Seed:       uint64(getEnvAsIntOrDefault("STARSTRIKE_SEED", 1)),
		TickRate:   getEnvAsIntOrDefault("STARSTRIKE_TICK_RATE", 60),

		CircuitBreakerMaxRequests:         getEnvAsIntOrDefault("STARSTRIKE_CB_MAX_REQUESTS", 1),
		CircuitBreakerInterval:            getEnvAsDurationOrDefault("STARSTRIKE_CB_INTERVAL", 60*time.Second),
		CircuitBreakerTimeout:             getEnvAsDurationOrDefault("STARSTRIKE_CB_TIMEOUT", 5*time.Second),
		CircuitBreakerMaxConsecutiveFails: getEnvAsIntOrDefault("STARSTRIKE_CB_MAX_FAILS", 3),
	}

	if err := validateEnvironmentConfig(config); err != nil {
		return nil, fmt.Errorf("environment configuration validation failed: %w", err)
	}

	return config, nil
}

func validateEnvironmentConfig(config *EnvironmentConfig) error {
	if config.ConfigPath == "" {
		return &ValidationError{Field: "ConfigPath", Value: config.ConfigPath, Reason: "cannot be empty"}
	}
	switch config.Renderer {
	case "terminal", "engo", "headless":
	default:
		return &ValidationError{Field: "Renderer", Value: config.Renderer, Reason: "must be terminal, engo or headless"}
	}
	if config.TickRate < 1 || config.TickRate > 1000 {
		return &ValidationError{Field: "TickRate", Value: config.TickRate, Reason: "must be between 1 and 1000"}
	}
	if config.CircuitBreakerMaxRequests < 1 {
		return &ValidationError{Field: "CircuitBreakerMaxRequests", Value: config.CircuitBreakerMaxRequests, Reason: "must be at least 1"}
	}
	if config.CircuitBreakerInterval <= 0 {
		return &ValidationError{Field: "CircuitBreakerInterval", Value: config.CircuitBreakerInterval, Reason: "must be positive"}
	}
	if config.CircuitBreakerTimeout <= 0 {
		return &ValidationError{Field: "CircuitBreakerTimeout", Value: config.CircuitBreakerTimeout, Reason: "must be positive"}
	}
	if config.CircuitBreakerMaxConsecutiveFails < 1 {
		return &ValidationError{Field: "CircuitBreakerMaxConsecutiveFails", Value: config.CircuitBreakerMaxConsecutiveFails, Reason: "must be at least 1"}
	}
	return nil
}

// ApplyEnvironmentOverrides lets STARSTRIKE_* variables override a few
// gameplay numbers of an already loaded GameConfig.
func ApplyEnvironmentOverrides(config *GameConfig) error {
	config.Particles.PoolSize = getEnvAsIntOrDefault("STARSTRIKE_PARTICLE_POOL", config.Particles.PoolSize)
	config.Spawn.EnemyIntervalMS = getEnvAsIntOrDefault("STARSTRIKE_ENEMY_INTERVAL_MS", config.Spawn.EnemyIntervalMS)
	config.Spawn.PowerUpIntervalMS = getEnvAsIntOrDefault("STARSTRIKE_POWERUP_INTERVAL_MS", config.Spawn.PowerUpIntervalMS)
	config.Enemies.Scale = getEnvAsFloatOrDefault("STARSTRIKE_ENEMY_SCALE", config.Enemies.Scale)
	config.Debug.ShowColliders = getEnvAsBoolOrDefault("STARSTRIKE_SHOW_COLLIDERS", config.Debug.ShowColliders)

	return config.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
