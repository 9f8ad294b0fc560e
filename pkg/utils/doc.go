// Package utils provides utility functions for the trovato library.
//
// This package contains helper functions for various operations including:
//   - Vector similarity math (vector.go)
//   - YAML decoding with partial-failure tolerance (helpers.go)
//   - Panic recovery helpers (recovery.go)
package utils
