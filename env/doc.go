// Package env reads typed configuration from environment variables.
// Every lookup takes a default that's used when the variable is unset, blank, or can't be parsed.
package env
