// Package config provides configuration loading and validation for azurekit
// consumers.
//
// It uses Viper to load configuration from files and environment variables,
// with .env support via godotenv. Identity provider settings and HTTP/proxy
// settings are declared here and validated with go-playground/validator.
//
// # Usage
//
//	var cfg config.Config
//	err := config.Load("myapp", &cfg)
package config
