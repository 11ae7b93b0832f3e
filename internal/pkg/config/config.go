package config

import (
	"io"
	"time"
)

// Config is a read-only view over application configuration.
//
// Keys are dot separated ("mail.smtp.host"). Implementations resolve a key from
// the environment first, then the config file, then built-in defaults.
type Config interface {
	io.Closer

	// GetString retrieves the value for key as a string.
	// A missing key yields the empty string.
	GetString(key string) string

	// GetInt retrieves the value for key as an int.
	// A missing or non-numeric value yields 0.
	GetInt(key string) int

	// GetBool retrieves the value for key as a bool.
	GetBool(key string) bool

	// GetFloat64 retrieves the value for key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value for key interpreted as a number of seconds.
	GetSecond(key string) time.Duration

	// GetArray retrieves the value for key as a slice of strings.
	// Configuration value is stored with format <element1>,<element2>,...
	// Elements are trimmed and empty elements are dropped.
	GetArray(key string) []string
}
