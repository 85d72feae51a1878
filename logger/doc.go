// Package logger provides structured logging for the azurekit packages
// using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("httpclient")
//	log.Info("request dispatched", logger.Fields("url", u))
package logger
