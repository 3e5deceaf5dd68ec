// Package config loads the vpgbench configuration.
//
// Values come from, in increasing precedence: built-in defaults, a YAML
// config file, a .env file and the process environment, and finally command
// line flags. Environment variables map onto nested keys by splitting on
// underscores, so TOOLS_MERC_BINPATH sets tools.merc_binpath.
//
// # Usage
//
//	var cfg config.Bench
//	err := config.LoadConfig("vpgbench", &cfg,
//	    config.WithConfigFile(path),
//	    config.WithDefaults(config.Defaults()),
//	    config.WithFlags(flags, config.FlagKeys))
package config
