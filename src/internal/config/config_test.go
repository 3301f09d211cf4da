package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"elklog/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("FullDocument", func(t *testing.T) {
		path := writeConfig(t, `
log_level: DEBUG
file_logging:
  filename: /var/log/app/service.log
  max_file_size: 1048576
  backup_count: 3
elk_logging:
  logstash_url: http://logstash:8080
  index: service-logs
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, core.LevelDebug, cfg.Level())
		assert.Equal(t, core.DefaultLoggerName, cfg.LoggerName)
		assert.Equal(t, "/var/log/app/service.log", cfg.FileLogging.Filename)
		assert.Equal(t, int64(1048576), cfg.FileLogging.MaxFileSize)
		assert.Equal(t, 3, cfg.FileLogging.BackupCount)
		require.True(t, cfg.RemoteEnabled())
		assert.Equal(t, "http://logstash:8080", cfg.ElkLogging.LogstashURL)
		assert.Equal(t, "service-logs", cfg.ElkLogging.Index)
		assert.Equal(t, 5*time.Second, cfg.ElkLogging.Timeout())
		assert.Nil(t, cfg.ConsoleLogging)
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		path := writeConfig(t, "file_logging:\n")
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, core.LevelInfo, cfg.Level())
		assert.Equal(t, "app.log", cfg.FileLogging.Filename)
		assert.Equal(t, int64(5242880), cfg.FileLogging.MaxFileSize)
		assert.Equal(t, 5, cfg.FileLogging.BackupCount)
		assert.False(t, cfg.RemoteEnabled())
	})

	t.Run("PartialFileBlock", func(t *testing.T) {
		path := writeConfig(t, "file_logging:\n  filename: x.log\n")
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "x.log", cfg.FileLogging.Filename)
		assert.Equal(t, int64(5242880), cfg.FileLogging.MaxFileSize)
		assert.Equal(t, 5, cfg.FileLogging.BackupCount)
	})

	t.Run("ExplicitZeroBackups", func(t *testing.T) {
		path := writeConfig(t, "file_logging:\n  backup_count: 0\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.FileLogging.BackupCount)
	})

	t.Run("UnknownLevelFallsBackToInfo", func(t *testing.T) {
		path := writeConfig(t, "log_level: chatty\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, core.LevelInfo, cfg.Level())
		assert.Equal(t, "INFO", cfg.LogLevel)
	})

	t.Run("LowercaseLevel", func(t *testing.T) {
		path := writeConfig(t, "log_level: warning\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, core.LevelWarning, cfg.Level())
	})

	t.Run("ElkBlockWithoutURLDisablesRemote", func(t *testing.T) {
		path := writeConfig(t, "elk_logging:\n  index: other\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.False(t, cfg.RemoteEnabled())
	})

	t.Run("ElkIndexDefaults", func(t *testing.T) {
		path := writeConfig(t, "elk_logging:\n  logstash_url: https://elk.example.com\n  timeout_ms: 250\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "logs", cfg.ElkLogging.Index)
		assert.Equal(t, 250*time.Millisecond, cfg.ElkLogging.Timeout())
	})

	t.Run("ConsoleTargetDefaults", func(t *testing.T) {
		path := writeConfig(t, "console_logging:\n  enabled: true\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		require.NotNil(t, cfg.ConsoleLogging)
		assert.Equal(t, "stderr", cfg.ConsoleLogging.Target)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("MalformedYAML", func(t *testing.T) {
		path := writeConfig(t, "log_level: [DEBUG\nfile_logging: {")
		_, err := Load(path)
		require.Error(t, err)

		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("WrongShape", func(t *testing.T) {
		path := writeConfig(t, "file_logging:\n  max_file_size: huge\n")
		_, err := Load(path)

		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("ReadError", func(t *testing.T) {
		readConfig = func(string) ([]byte, error) { return nil, os.ErrPermission }
		defer func() { readConfig = os.ReadFile }()

		_, err := Load("config.yaml")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, os.ErrPermission)
	})
}

func TestValidation(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "NegativeSize",
			content: "file_logging:\n  max_file_size: -1\n",
			errText: "max_file_size",
		},
		{
			name:    "NegativeBackups",
			content: "file_logging:\n  backup_count: -2\n",
			errText: "backup_count",
		},
		{
			name:    "BadConsoleTarget",
			content: "console_logging:\n  enabled: true\n  target: printer\n",
			errText: "invalid console target",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestLoad_UnusableURLIsNotFatal(t *testing.T) {
	for _, raw := range []string{"localhost:9200", "ftp://elk", "http://"} {
		cfg, err := Load(writeConfig(t, "elk_logging:\n  logstash_url: "+raw+"\n"))
		require.NoError(t, err, raw)
		assert.True(t, cfg.RemoteEnabled())
		assert.Equal(t, raw, cfg.ElkLogging.LogstashURL)
	}
}

type exitCode int

func captureExit(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	stderr = &buf
	exitFunc = func(code int) { panic(exitCode(code)) }
	t.Cleanup(func() {
		stderr = os.Stderr
		exitFunc = os.Exit
	})
	return &buf
}

func TestMustLoad(t *testing.T) {
	t.Run("ReturnsConfig", func(t *testing.T) {
		captureExit(t)
		cfg := MustLoad(writeConfig(t, "log_level: ERROR\n"))
		require.NotNil(t, cfg)
		assert.Equal(t, core.LevelError, cfg.Level())
	})

	t.Run("MissingFileExits", func(t *testing.T) {
		buf := captureExit(t)
		path := filepath.Join(t.TempDir(), "nope.yaml")

		assert.PanicsWithValue(t, exitCode(1), func() { MustLoad(path) })
		assert.Contains(t, buf.String(), fmt.Sprintf("Configuration file not found: %s", path))
	})

	t.Run("ParseErrorExits", func(t *testing.T) {
		buf := captureExit(t)
		path := writeConfig(t, "log_level: [oops")

		assert.PanicsWithValue(t, exitCode(1), func() { MustLoad(path) })
		assert.Contains(t, buf.String(), "Failed to parse YAML file")
	})

	t.Run("OtherErrorExits", func(t *testing.T) {
		buf := captureExit(t)
		path := writeConfig(t, "file_logging:\n  backup_count: -1\n")

		assert.PanicsWithValue(t, exitCode(1), func() { MustLoad(path) })
		assert.Contains(t, buf.String(), "unexpected error")
	})
}
