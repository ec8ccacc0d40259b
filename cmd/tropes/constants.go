package main

// Default limits for CLI commands.
const (
	DefaultListLimit   = 50
	DefaultTopLimit    = 20
	DefaultRecentLimit = 5
)

// Valid output formats.
var validFormats = []string{"text", "json"}
