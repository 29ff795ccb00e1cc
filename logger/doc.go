// Package logger provides structured logging for ntfywatch using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.WithComponent("subscription")
//	log.Info("connected", logger.Fields("topic", "alerts"))
package logger
