// Package logger provides structured logging for restkit using zerolog.
//
// A Logger is created from a Config and scoped with WithComponent or
// WithFields. Library code takes a *Logger through an option and falls back
// to Nop, so nothing is written unless the application asks for it.
//
// # Configuration
//
//	logger:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "restkit").WithComponent("client")
//	log.Debug("request sent", logger.Fields(logger.FieldEndpoint, "get_things"))
package logger
