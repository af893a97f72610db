// Package env reads the few process-level knobs that are consulted before the
// typed configuration is loaded, such as LOG_FORMAT.
package env

import "os"

// Get returns the value of the given environment variable, or the fallback
// when it is unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
