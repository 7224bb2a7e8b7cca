package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/commentspec/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  log.Level
		err   error
	}{
		"error":            {input: "error", want: log.LevelError},
		"warn":             {input: "warn", want: log.LevelWarn},
		"warning alias":    {input: "warning", want: log.LevelWarn},
		"info":             {input: "info", want: log.LevelInfo},
		"debug":            {input: "debug", want: log.LevelDebug},
		"case insensitive": {input: "DeBuG", want: log.LevelDebug},
		"unknown":          {input: "trace", err: log.ErrUnknownLogLevel},
		"empty":            {input: "", err: log.ErrUnknownLogLevel},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseLevel(tc.input)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  log.Format
		err   error
	}{
		"json":             {input: "json", want: log.FormatJSON},
		"logfmt":           {input: "logfmt", want: log.FormatLogfmt},
		"text":             {input: "text", want: log.FormatText},
		"case insensitive": {input: "LOGFMT", want: log.FormatLogfmt},
		"unknown":          {input: "yaml", err: log.ErrUnknownLogFormat},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseFormat(tc.input)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		format log.Format
		check  func(t *testing.T, out []byte)
	}{
		"json": {
			format: log.FormatJSON,
			check: func(t *testing.T, out []byte) {
				t.Helper()

				var entry map[string]any

				require.NoError(t, json.Unmarshal(out, &entry))
				assert.Equal(t, "rendered document", entry["msg"])
				assert.Equal(t, "INFO", entry["level"])
				assert.Equal(t, "values.yaml", entry["path"])
				assert.Contains(t, entry, slog.SourceKey)
			},
		},
		"logfmt": {
			format: log.FormatLogfmt,
			check: func(t *testing.T, out []byte) {
				t.Helper()

				s := string(out)
				assert.Contains(t, s, "level=INFO")
				assert.Contains(t, s, `msg="rendered document"`)
				assert.Contains(t, s, "path=values.yaml")
			},
		},
		"text": {
			format: log.FormatText,
			check: func(t *testing.T, out []byte) {
				t.Helper()

				s := string(out)
				assert.Contains(t, s, "INFO")
				assert.Contains(t, s, "rendered document")
				assert.Contains(t, s, "path=values.yaml")
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			logger := slog.New(log.NewHandler(&buf, log.LevelInfo, tc.format))
			logger.Info("rendered document", slog.String("path", "values.yaml"))

			tc.check(t, buf.Bytes())
		})
	}
}

func TestNewHandlerFromStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level  string
		format string
		err    error
	}{
		"valid":          {level: "info", format: "json"},
		"invalid level":  {level: "loud", format: "json", err: log.ErrUnknownLogLevel},
		"invalid format": {level: "info", format: "xml", err: log.ErrUnknownLogFormat},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			h, err := log.NewHandlerFromStrings(&buf, tc.level, tc.format)
			if tc.err != nil {
				require.ErrorIs(t, err, log.ErrInvalidArgument)
				require.ErrorIs(t, err, tc.err)
				assert.Nil(t, h)

				return
			}

			require.NoError(t, err)
			slog.New(h).Info("checked")
			assert.Contains(t, buf.String(), "checked")
		})
	}
}

func TestRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()
	cmd := &cobra.Command{Use: "commentspec"}
	cfg.RegisterFlags(cmd.PersistentFlags())
	require.NoError(t, cfg.RegisterCompletions(cmd))

	tcs := map[string]struct {
		flag string
		want []string
	}{
		"level":  {flag: "log-level", want: log.GetAllLevelStrings()},
		"format": {flag: "log-format", want: log.GetAllFormatStrings()},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			values, directive := fn(cmd, nil, "")
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.Equal(t, tc.want, values)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level   log.Level
		emit    func(*slog.Logger)
		visible bool
	}{
		"info passes info": {
			level:   log.LevelInfo,
			emit:    func(l *slog.Logger) { l.Info("watched") },
			visible: true,
		},
		"info drops debug": {
			level: log.LevelInfo,
			emit:  func(l *slog.Logger) { l.Debug("watched") },
		},
		"debug passes debug": {
			level:   log.LevelDebug,
			emit:    func(l *slog.Logger) { l.Debug("watched") },
			visible: true,
		},
		"error drops warn": {
			level: log.LevelError,
			emit:  func(l *slog.Logger) { l.Warn("watched") },
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			tc.emit(slog.New(log.NewHandler(&buf, tc.level, log.FormatJSON)))

			if tc.visible {
				assert.Contains(t, buf.String(), "watched")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestLevelSlogLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		level log.Level
		want  slog.Level
	}{
		"error":   {level: log.LevelError, want: slog.LevelError},
		"warn":    {level: log.LevelWarn, want: slog.LevelWarn},
		"info":    {level: log.LevelInfo, want: slog.LevelInfo},
		"debug":   {level: log.LevelDebug, want: slog.LevelDebug},
		"unknown": {level: log.Level("verbose"), want: slog.LevelInfo},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.level.SlogLevel())
		})
	}
}

func TestTextHandlerFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(log.NewHandler(&buf, log.LevelWarn, log.FormatText))
	logger.Info("quiet")
	logger.Warn("loud", slog.String("path", "config.yaml"))

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
	assert.Contains(t, out, "path=config.yaml")
}

func TestConfigNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("valid flags", func(t *testing.T) {
		t.Parallel()

		cfg := log.NewConfig()
		cfg.Level = "debug"
		cfg.Format = "json"

		var buf bytes.Buffer

		logger, err := cfg.NewLogger(&buf)
		require.NoError(t, err)

		logger.Debug("rendered", slog.Int("fields", 3))

		var entry map[string]any

		err = json.Unmarshal(buf.Bytes(), &entry)
		require.NoError(t, err)
		assert.Equal(t, "rendered", entry["msg"])
		assert.InDelta(t, 3, entry["fields"], 0)
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()

		cfg := log.NewConfig()
		cfg.Level = "loud"
		cfg.Format = "text"

		_, err := cfg.NewLogger(&bytes.Buffer{})
		require.ErrorIs(t, err, log.ErrInvalidArgument)
	})

	t.Run("custom flag names", func(t *testing.T) {
		t.Parallel()

		cfg := log.Flags{Level: "verbosity", Format: "output"}.NewConfig()

		cmd := &cobra.Command{Use: "test"}
		cfg.RegisterFlags(cmd.Flags())

		err := cmd.Flags().Parse([]string{"--verbosity", "warn", "--output", "logfmt"})
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.Level)
		assert.Equal(t, "logfmt", cfg.Format)
	})
}
