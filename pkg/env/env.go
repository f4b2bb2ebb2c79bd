// Package env reads process environment values with a default.
package env

import "os"

// Get looks up key and returns fallback when the variable is unset or blank.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
