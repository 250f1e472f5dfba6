package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/nob/internal/adapters/logger"
)

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		msg   string
		want  string
	}{
		{name: "info", level: slog.LevelInfo, msg: "information", want: "information\n"},
		{name: "warn", level: slog.LevelWarn, msg: "warning", want: "! warning\n"},
		{name: "error", level: slog.LevelError, msg: "failure", want: "✗ failure\n"},
		{name: "debug filtered", level: slog.LevelDebug, msg: "debug", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
			lg.Log(t.Context(), tt.level, tt.msg)

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_AttrsAndGroups(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, nil)
	lg := slog.New(handler.WithAttrs([]slog.Attr{slog.String("session", "abc")}).WithGroup("target"))
	lg.Info("built", "output", "build/app")

	assert.Equal(t, "built session=abc target.output=build/app\n", buf.String())
}

func TestPrettyHandler_NestedGroupsAndQuoting(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil)).WithGroup("build").WithGroup("cmd")
	lg.Info("running",
		slog.String("argv", "cc -c lib.c"),
		slog.String("dir", ""),
		slog.Group("exit", slog.Int("code", 2)),
	)

	assert.Equal(t, `running build.cmd.argv="cc -c lib.c" build.cmd.dir="" build.cmd.exit.code=2`+"\n", buf.String())
}

func TestPrettyHandler_DynamicLevel(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	level := &slog.LevelVar{}
	level.Set(slog.LevelWarn)

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}))
	lg.Info("hidden")

	level.Set(slog.LevelDebug)
	lg.Debug("planning")

	assert.Equal(t, "● planning\n", buf.String())
}
