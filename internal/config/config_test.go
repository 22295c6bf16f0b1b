package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		val      string
		def      string
		expected string
	}{
		{
			name:     "returns existing env",
			key:      "TEST_ENV_EXIST",
			val:      "value",
			def:      "default",
			expected: "value",
		},
		{
			name:     "returns default when env missing",
			key:      "TEST_ENV_MISSING",
			val:      "",
			def:      "default",
			expected: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.val != "" {
				t.Setenv(tt.key, tt.val)
			} else {
				os.Unsetenv(tt.key)
			}
			assert.Equal(t, tt.expected, getenv(tt.key, tt.def))
		})
	}
}

func TestGetenvBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		val      string
		def      bool
		expected bool
	}{
		{
			name:     "returns true when env is true",
			key:      "TEST_BOOL_TRUE",
			val:      "true",
			def:      false,
			expected: true,
		},
		{
			name:     "returns false when env is false",
			key:      "TEST_BOOL_FALSE",
			val:      "false",
			def:      true,
			expected: false,
		},
		{
			name:     "returns default when env missing",
			key:      "TEST_BOOL_MISSING",
			val:      "",
			def:      true,
			expected: true,
		},
		{
			name:     "returns false when env is not true",
			key:      "TEST_BOOL_INVALID",
			val:      "yes",
			def:      true,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.val != "" {
				t.Setenv(tt.key, tt.val)
			} else {
				os.Unsetenv(tt.key)
			}
			assert.Equal(t, tt.expected, getenvBool(tt.key, tt.def))
		})
	}
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		name      string
		val       string
		expect    string
		expectErr bool
	}{
		{"valid port", "8080", "8080", false},
		{"empty (default)", "", "3000", false},
		{"zero port", "0", "0", false},
		{"not a number", "http", "", true},
		{"out of range", "70000", "", true},
		{"negative", "-1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.val != "" {
				t.Setenv("HTTP_PORT", tt.val)
			} else {
				os.Unsetenv("HTTP_PORT")
			}
			port, err := parsePort("HTTP_PORT", "3000")
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expect, port)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name      string
		val       string
		expect    string
		expectErr bool
	}{
		{"debug", "debug", "debug", false},
		{"uppercase", "WARN", "warn", false},
		{"empty (default)", "", "info", false},
		{"invalid", "verbose", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.val != "" {
				t.Setenv("LOG_LEVEL", tt.val)
			} else {
				os.Unsetenv("LOG_LEVEL")
			}
			level, err := parseLogLevel()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expect, level)
			}
		})
	}
}

func TestParseLogFormat(t *testing.T) {
	tests := []struct {
		name      string
		val       string
		expect    string
		expectErr bool
	}{
		{"json", "json", "json", false},
		{"uppercase", "CONSOLE", "console", false},
		{"empty (default)", "", "console", false},
		{"invalid", "xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.val != "" {
				t.Setenv("LOG_FORMAT", tt.val)
			} else {
				os.Unsetenv("LOG_FORMAT")
			}
			format, err := parseLogFormat()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expect, format)
			}
		})
	}
}

func TestParseBufferSize(t *testing.T) {
	tests := []struct {
		name   string
		val    string
		expect int
	}{
		{"valid size", "8192", 8192},
		{"default size", "", 32768},
		{"too small", "1024", 4096},
		{"too large", "2000000", 4096},
		{"invalid format", "abc", 4096},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.val != "" {
				t.Setenv("BUFFER_SIZE", tt.val)
			} else {
				os.Unsetenv("BUFFER_SIZE")
			}
			size := parseBufferSize()
			assert.Equal(t, tt.expect, size)
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		envs      map[string]string
		expectErr bool
	}{
		{
			name:      "defaults",
			envs:      map[string]string{},
			expectErr: false,
		},
		{
			name: "invalid http port",
			envs: map[string]string{
				"HTTP_PORT": "abc",
			},
			expectErr: true,
		},
		{
			name: "invalid pprof port",
			envs: map[string]string{
				"PPROF_PORT": "99999",
			},
			expectErr: true,
		},
		{
			name: "invalid log level",
			envs: map[string]string{
				"LOG_LEVEL": "loud",
			},
			expectErr: true,
		},
		{
			name: "invalid log format",
			envs: map[string]string{
				"LOG_FORMAT": "yaml",
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}
			cfg, err := parse()
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, cfg)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	os.Clearenv()

	cfg, err := parse()
	assert.NoError(t, err)

	assert.Equal(t, "3000", cfg.HTTPPort())
	assert.Equal(t, 32768, cfg.BufferSize())
	assert.Equal(t, "fetch_server", cfg.ServerName())
	assert.Equal(t, "info", cfg.LogLevel())
	assert.Equal(t, "console", cfg.LogFormat())
	assert.Equal(t, false, cfg.PprofEnabled())
	assert.Equal(t, "6060", cfg.PprofPort())
}

func TestGetters(t *testing.T) {
	envs := map[string]string{
		"HTTP_PORT":     "8000",
		"BUFFER_SIZE":   "16384",
		"SERVER_NAME":   "edge",
		"LOG_LEVEL":     "debug",
		"LOG_FORMAT":    "json",
		"PPROF_ENABLED": "true",
		"PPROF_PORT":    "7070",
	}

	os.Clearenv()
	for k, v := range envs {
		t.Setenv(k, v)
	}

	cfg, err := parse()
	assert.NoError(t, err)

	assert.Equal(t, "8000", cfg.HTTPPort())
	assert.Equal(t, 16384, cfg.BufferSize())
	assert.Equal(t, "edge", cfg.ServerName())
	assert.Equal(t, "debug", cfg.LogLevel())
	assert.Equal(t, "json", cfg.LogFormat())
	assert.Equal(t, true, cfg.PprofEnabled())
	assert.Equal(t, "7070", cfg.PprofPort())
}

func TestMustLoad(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		os.Clearenv()
		t.Setenv("HTTP_PORT", "3001")
		cfg, err := MustLoad()
		assert.NoError(t, err)
		assert.NotNil(t, cfg)
		assert.Equal(t, "3001", cfg.HTTPPort())
	})

	t.Run("loadEnvFile error", func(t *testing.T) {
		err := os.Mkdir(".env", 0755)
		assert.NoError(t, err)
		defer os.Remove(".env")

		cfg, err := MustLoad()
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("parse error", func(t *testing.T) {
		os.Clearenv()
		t.Setenv("LOG_LEVEL", "invalid")
		cfg, err := MustLoad()
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("file exists", func(t *testing.T) {
		err := os.WriteFile(".env", []byte("TEST_ENV_FILE=true"), 0644)
		assert.NoError(t, err)
		defer os.Remove(".env")

		err = loadEnvFile()
		assert.NoError(t, err)
		assert.Equal(t, "true", os.Getenv("TEST_ENV_FILE"))
	})

	t.Run("file missing", func(t *testing.T) {
		_ = os.Remove(".env")
		err := loadEnvFile()
		assert.NoError(t, err)
	})
}
