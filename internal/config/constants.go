package config

// Application constants shared across commands.
const (
	AppName    = "breachstudy"
	AppVersion = "1.0.0"

	// Default output locations, relative to the working directory.
	DefaultResultsDir = "results"
	DefaultLogsDir    = "logs"
)
