// Package config provides centralized configuration for the breach event
// study tooling. It loads settings from layered sources, validates them, and
// converts the study section into the engine's configuration.
//
// # Configuration Sources
//
// Configuration is assembled from three layers, later layers overriding
// earlier ones:
//
//	1. Built-in defaults (Default)
//	2. YAML configuration file (breachstudy.yaml, or the -config flag)
//	3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BREACHSTUDY_<SECTION>_<KEY>:
//
//	BREACHSTUDY_LOGGING_LEVEL=debug
//	BREACHSTUDY_STUDY_LONG_HORIZON=60
//	BREACHSTUDY_STUDY_COMPUTE_TIMEOUT=5m
//	BREACHSTUDY_DATA_BENCHMARK=industry
//	BREACHSTUDY_OUTPUT_FORMAT=both
//
// Durations in the YAML file must be integer nanoseconds (a yaml.v2
// limitation); the environment accepts Go duration strings like "5m".
//
// # Validation
//
// Load validates the assembled configuration with struct tags and reports
// every violated constraint in a single error, so a misconfigured run fails
// once with the full list instead of one complaint at a time.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    ...
//	}
//	engine, err := eventstudy.NewEngine(cfg.EngineConfig(), firms, bench, logger)
package config
