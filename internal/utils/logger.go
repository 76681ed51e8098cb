package utils

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds a zap logger matching the ENV variable: JSON at info level
// in prod, console at debug level everywhere else.
func NewLogger() (*zap.Logger, error) {
	if os.Getenv("ENV") == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
