// Package errors provides the error taxonomy shared by the azurekit
// packages: configuration, remote, transport, and cancellation errors,
// with machine-readable codes and cause chaining.
package errors
