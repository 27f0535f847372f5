package logger

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teranos/dtypegen/errors"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	return ansiRegex.ReplaceAllString(str, "")
}

func encode(t *testing.T, enc zapcore.Encoder, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := enc.EncodeEntry(ent, fields)
	require.NoError(t, err)
	defer buf.Free()
	return stripANSI(buf.String())
}

// The console encoder must never drop a field; losing a path or count in
// build output hides exactly the information needed to debug a template.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Date(2026, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "build",
		Message:    "Processing",
	}

	tests := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String("file", "algo/algo-abstol.c"), "file=algo/algo-abstol.c"},
		{zap.Int("copies", 6), "copies=6"},
		{zap.Bool("declared", true), "declared=true"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.Strings("datatypes", []string{"float", "double"}), "datatypes=float,double"},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
		{zap.Error(nil), ""},
	}

	var fields []zapcore.Field
	for _, tt := range tests {
		fields = append(fields, tt.field)
	}

	out := encode(t, newMinimalEncoder(), entry, fields...)

	assert.True(t, strings.HasPrefix(out, "13:04:35  build  Processing"), out)
	for _, tt := range tests {
		if tt.mustFind != "" {
			assert.Contains(t, out, tt.mustFind)
		}
	}
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestMinimalEncoderLevels(t *testing.T) {
	base := zapcore.Entry{Time: time.Now(), Message: "msg"}

	tests := []struct {
		level zapcore.Level
		want  string
	}{
		{zapcore.InfoLevel, ""},
		{zapcore.DebugLevel, "DEBUG"},
		{zapcore.WarnLevel, "WARN"},
		{zapcore.ErrorLevel, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			ent := base
			ent.Level = tt.level
			out := encode(t, newMinimalEncoder(), ent)
			if tt.want == "" {
				assert.NotContains(t, out, "INFO")
			} else {
				assert.Contains(t, out, tt.want)
			}
		})
	}
}

func TestMinimalEncoderErrorsWithoutStack(t *testing.T) {
	err := errors.Wrap(errors.ErrUnmatchedTemplatePath, "src/.dtype.c")
	out := encode(t, newMinimalEncoder(),
		zapcore.Entry{Level: zapcore.ErrorLevel, Time: time.Now(), Message: "Skipping template"},
		zap.Error(err))

	assert.Contains(t, out, "error=src/.dtype.c: template path does not match marker pattern")
	assert.NotContains(t, out, "errorVerbose")
}

func TestMinimalEncoderCloneIsolatesContext(t *testing.T) {
	enc := newMinimalEncoder()
	enc.AddString("run_id", "a")

	clone := enc.Clone()
	clone.AddString("file", "x.c")

	ent := zapcore.Entry{Time: time.Now(), Message: "m"}
	assert.NotContains(t, encode(t, enc, ent), "file=x.c")
	assert.Contains(t, encode(t, clone, ent), "run_id=a")
	assert.Contains(t, encode(t, clone, ent), "file=x.c")
}

func TestMinimalEncoderNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf, err := newMinimalEncoder().EncodeEntry(zapcore.Entry{Time: time.Now(), Message: "plain"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "\x1b[")
}
