package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Run("returns env value when set", func(t *testing.T) {
		os.Setenv("TEST_VAR", "test_value")
		defer os.Unsetenv("TEST_VAR")

		result := GetEnv("TEST_VAR", "default")
		assert.Equal(t, "test_value", result)
	})

	t.Run("returns default when not set", func(t *testing.T) {
		os.Unsetenv("TEST_VAR_UNSET")

		result := GetEnv("TEST_VAR_UNSET", "default_value")
		assert.Equal(t, "default_value", result)
	})
}

func TestGetEnvInt64(t *testing.T) {
	t.Run("returns int64 value when set", func(t *testing.T) {
		os.Setenv("TEST_INT64", "9223372036854775807")
		defer os.Unsetenv("TEST_INT64")

		result := GetEnvInt64("TEST_INT64", 0)
		assert.Equal(t, int64(9223372036854775807), result)
	})

	t.Run("returns default on invalid int64", func(t *testing.T) {
		os.Setenv("TEST_INT64_INVALID", "not_a_number")
		defer os.Unsetenv("TEST_INT64_INVALID")

		result := GetEnvInt64("TEST_INT64_INVALID", 100)
		assert.Equal(t, int64(100), result)
	})

	t.Run("returns default when not set", func(t *testing.T) {
		result := GetEnvInt64("TEST_INT64_UNSET", 123456789)
		assert.Equal(t, int64(123456789), result)
	})
}
