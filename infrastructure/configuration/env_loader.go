package configuration

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/cjodon01/autoauthadmin/infrastructure/logger"
)

// LoadEnvFiles loads KEY=VALUE files that exist. Variables already set in the
// process environment keep their value.
func LoadEnvFiles(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			logger.GetLogger().WithField("error", err).WithField("file", p).Warn("Failed to load env file")
			continue
		}
		logger.GetLogger().WithField("file", p).Info("Loaded env file")
	}
}
