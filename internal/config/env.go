// Package config provides unified environment-variable configuration
// utilities shared across the noise demo commands.
package config

import (
	"os"
	"strconv"
)

// GetEnv returns the value of an environment variable or a default value.
// This is the canonical implementation - use this instead of local getEnv functions.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt64 returns an int64 environment variable or a default value.
func GetEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
