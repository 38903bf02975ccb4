package utils

import "os"

// GetEnv returns the environment variable value or the given default when it
// is unset or empty.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
