package logger

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

type palette struct {
	time      string
	component string
	message   string
	key       string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

var themes = map[string]palette{
	// Everforest Dark: natural greens
	"everforest": {
		time:      "\x1b[38;5;107m",
		component: "\x1b[38;5;208m",
		message:   "\x1b[38;5;223m",
		key:       "\x1b[38;5;65m",
		warn:      "\x1b[38;5;179m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;52m",
	},
	// Gruvbox Dark: warm, muted
	"gruvbox": {
		time:      "\x1b[38;5;108m",
		component: "\x1b[38;5;214m",
		message:   "\x1b[38;5;223m",
		key:       "\x1b[38;5;109m",
		warn:      "\x1b[38;5;214m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;88m",
	},
}

// Current active theme (set from config via SetTheme)
var currentTheme = "everforest"

var bufferPool = buffer.NewPool()

// minimalEncoder is a calm, compact console encoder.
// Format: "13:04:35  build  Processing  file=algo/algo-abstol.c"
//
// Fields attached with Logger.With are kept in the embedded map encoder and
// printed sorted by key ahead of the entry's own fields.
type minimalEncoder struct {
	*zapcore.MapObjectEncoder
	color bool
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		color:            os.Getenv("NO_COLOR") == "",
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return &minimalEncoder{MapObjectEncoder: clone, color: enc.color}
}

func (enc *minimalEncoder) paint(color, s string) string {
	if !enc.color || color == "" {
		return s
	}
	return color + s + colorReset
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	p := themes[currentTheme]
	final := bufferPool.Get()

	final.AppendString(enc.paint(p.time, ent.Time.Format("15:04:05")))

	// Level only for non-info entries
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(enc.levelString(p, ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(p.component, ent.LoggerName))
	}

	final.AppendString("  ")
	final.AppendString(enc.paint(p.message, ent.Message))

	pairs := enc.contextPairs()
	for _, f := range fields {
		pairs = append(pairs, fieldPairs(f)...)
	}
	for _, kv := range pairs {
		final.AppendString("  ")
		final.AppendString(enc.paint(p.key, kv[0]+"="))
		final.AppendString(kv[1])
	}

	final.AppendString("\n")
	return final, nil
}

func (enc *minimalEncoder) levelString(p palette, level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.WarnLevel:
		return enc.paint(colorBold+p.warnBg+p.warn, "WARN")
	default:
		return enc.paint(colorBold+p.errBg+p.err, level.CapitalString())
	}
}

func (enc *minimalEncoder) contextPairs() [][2]string {
	return sortedPairs(enc.Fields)
}

// fieldPairs renders one zap field through a scratch map encoder so every
// field type is printed rather than silently dropped.
func fieldPairs(f zapcore.Field) [][2]string {
	m := zapcore.NewMapObjectEncoder()
	f.AddTo(m)
	return sortedPairs(m.Fields)
}

func sortedPairs(fields map[string]interface{}) [][2]string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		// stack traces belong in JSON output
		if strings.HasSuffix(k, "Verbose") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, formatValue(fields[k])})
	}
	return pairs
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		parts := make([]string, len(val))
		for i, x := range val {
			parts[i] = formatValue(x)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}
