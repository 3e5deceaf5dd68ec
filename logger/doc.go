// Package logger provides structured logging for vpgbench using zerolog.
//
// It supports console and JSON formats, level configuration, component-scoped
// loggers with structured fields, and mirroring of all events into a log file
// next to the results (run.log, prepare.log).
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("prepare")
//	log.Info("stage completed", logger.Fields("stage", "compile"))
package logger
