package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	minBufferSize     = 4096
	maxBufferSize     = 1048576
	defaultBufferSize = 32768
)

type config struct {
	httpPort string

	bufferSize int

	serverName string

	logLevel  string
	logFormat string

	pprofEnabled bool
	pprofPort    string
}

func parse() (*config, error) {
	httpPort, err := parsePort("HTTP_PORT", "3000")
	if err != nil {
		return nil, err
	}

	bufferSize := parseBufferSize()

	serverName := getenv("SERVER_NAME", "fetch_server")

	logLevel, err := parseLogLevel()
	if err != nil {
		return nil, err
	}

	logFormat, err := parseLogFormat()
	if err != nil {
		return nil, err
	}

	pprofEnabled := getenvBool("PPROF_ENABLED", false)
	pprofPort, err := parsePort("PPROF_PORT", "6060")
	if err != nil {
		return nil, err
	}

	return &config{
		httpPort:     httpPort,
		bufferSize:   bufferSize,
		serverName:   serverName,
		logLevel:     logLevel,
		logFormat:    logFormat,
		pprofEnabled: pprofEnabled,
		pprofPort:    pprofPort,
	}, nil
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

func parsePort(key, def string) (string, error) {
	raw := getenv(key, def)
	if _, err := strconv.ParseUint(raw, 10, 16); err != nil {
		return "", fmt.Errorf("invalid %s value %q", key, raw)
	}
	return raw, nil
}

func parseLogLevel() (string, error) {
	level := strings.ToLower(getenv("LOG_LEVEL", "info"))
	switch level {
	case "debug", "info", "warn", "error":
		return level, nil
	default:
		return "", fmt.Errorf("invalid LOG_LEVEL value %q", level)
	}
}

func parseLogFormat() (string, error) {
	format := strings.ToLower(getenv("LOG_FORMAT", "console"))
	switch format {
	case "console", "json":
		return format, nil
	default:
		return "", fmt.Errorf("invalid LOG_FORMAT value %q", format)
	}
}

func parseBufferSize() int {
	raw := getenv("BUFFER_SIZE", strconv.Itoa(defaultBufferSize))
	size, err := strconv.Atoi(raw)
	if err != nil || size < minBufferSize || size > maxBufferSize {
		log.Printf("Invalid BUFFER_SIZE, falling back to %d", minBufferSize)
		return minBufferSize
	}
	return size
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val == "true"
}
