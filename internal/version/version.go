package version

import (
	"fmt"

	"go.uber.org/zap"
)

const Name = "fetch_server"

// Set at build time with -ldflags "-X fetch_server/internal/version.Version=...".
var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

func GetVersion() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s)", Name, Version, Commit, BuildDate)
}

func Fields() []zap.Field {
	return []zap.Field{
		zap.String("version", Version),
		zap.String("commit", Commit),
		zap.String("built", BuildDate),
	}
}
