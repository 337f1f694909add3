package env

import (
	"os"
	"strconv"
)

// Get returns the value of the environment variable.
// Returns empty string if the variable is not set.
func Get(key string) string {
	return os.Getenv(key)
}

// GetOrDefault returns the value of the environment variable.
// If the variable is not set, it returns the default value.
func GetOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBool reports whether the environment variable holds a true value
// ("1", "t", "true", ...). Unset or unparsable values yield defaultValue.
func GetBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
