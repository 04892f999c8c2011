package env

import (
	"os"

	"github.com/3-lines-studio/storeview/internal/core"
)

const EnvVar = "STOREVIEW_ENV"

// DetectEnv reports the render environment, "production" unless STOREVIEW_ENV
// says otherwise.
func DetectEnv() string {
	if v := os.Getenv(EnvVar); v != "" {
		return v
	}
	return core.EnvProduction
}
