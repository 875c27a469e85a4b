package uzap

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Dev   bool
	Level zapcore.Level
}

func NewConfig() (Config, error) {
	c := Config{
		Level: zapcore.InfoLevel,
	}

	if os.Getenv("DEV_MODE") != "" {
		c.Dev = true
	}

	if lvl := os.Getenv("QBOT_LOG_LEVEL"); lvl != "" {
		err := c.Level.Set(lvl)
		if err != nil {
			return Config{}, err
		}
	}

	return c, nil
}

// New builds the process logger. Development mode uses the console encoder and
// debug level regardless of c.Level.
func New(c Config) (*zap.Logger, error) {
	var zc zap.Config

	if c.Dev {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(c.Level)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}
