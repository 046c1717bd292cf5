// Package main declares constants used across the imgembed command-line interface.
package main

// Output formats accepted by --output-format
const (
	outputFormatText = "text"
	outputFormatYAML = "yaml"
	outputFormatJSON = "json"
)

// Render modes accepted by --mode
const (
	renderModeImage   = "image"
	renderModePreview = "preview"
)

// Configuration keys shared by flags, the config file and IMGEMBED_* variables
const (
	envPrefix     = "IMGEMBED"
	configName    = ".imgembed"
	keyRulesFile  = "rules-file"
	keyLogLevel   = "log-level"
	keyEmbed      = "embed"
	defaultAddr   = ":8080"
	stdinFileName = "-"
	emptyResolved = "-"
)
