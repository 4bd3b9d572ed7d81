// Package config provides 12-factor configuration management for the shell.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Browser: frame load timeout, inter-action delay, search engine
//   - Agent: default LLM provider, endpoints, request timeout
//   - Storage: settings and workflow file locations
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Shell running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - LOAD_TIMEOUT, ACTION_DELAY, SEARCH_ENGINE, SHELL_ORIGIN
//   - LLM_PROVIDER, LLM_LOCAL_ADDR, LLM_TIMEOUT
//   - SETTINGS_PATH, WORKFLOWS_PATH
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
