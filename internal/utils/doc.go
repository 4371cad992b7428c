// Package utils hosts shared infrastructure helpers: the zap logger
// factory, the viper configuration loader, and the command context
// accessor used to thread resolved settings through Cobra commands.
package utils
