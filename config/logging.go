package config

import (
	"fmt"

	"go.uber.org/zap"
)

// setLogger picks the zap preset for the environment
func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "local":
		return zap.NewExample(), nil
	case "development":
		return zap.NewDevelopment()
	case "production":
		return zap.NewProduction()
	}
	return nil, fmt.Errorf("unknown environment %q", env)
}
