// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// A .env file in the working directory is loaded first, and the APP_ID and
// APP_SECRET variables override the credentials from the file. The file itself
// is optional: without one, the consumer runs from the environment alone.
package config
