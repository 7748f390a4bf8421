package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Everforest palette, trimmed to what the console encoder uses
const (
	colorReset    = "\x1b[0m"
	colorBold     = "\x1b[1m"
	colorTime     = "\x1b[38;5;107m"
	colorName     = "\x1b[38;5;208m"
	colorKey      = "\x1b[38;5;65m"
	colorValue    = "\x1b[38;5;108m"
	colorWarn     = "\x1b[38;5;179m"
	colorWarnBg   = "\x1b[48;5;58m"
	colorError    = "\x1b[38;5;167m"
	colorErrorBg  = "\x1b[48;5;52m"
	fieldSeparate = "  "
)

var bufferPool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder.
// Format: "13:04:35  WARN  render  chunk dropped  chunk=3 component=arithmetic"
type minimalEncoder struct {
	*zapcore.MapObjectEncoder // context fields added through With
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return &minimalEncoder{MapObjectEncoder: clone}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(colorTime)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only shown for WARN and above
	if level := levelColorString(ent.Level); level != "" {
		final.AppendString(fieldSeparate)
		final.AppendString(level)
	}

	if ent.LoggerName != "" {
		final.AppendString(fieldSeparate)
		final.AppendString(colorName)
		final.AppendString(ent.LoggerName)
		final.AppendString(colorReset)
	}

	final.AppendString(fieldSeparate)
	final.AppendString(ent.Message)

	if rendered := enc.renderFields(fields); rendered != "" {
		final.AppendString(fieldSeparate)
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// renderFields merges context and entry fields into sorted key=value pairs
func (enc *minimalEncoder) renderFields(fields []zapcore.Field) string {
	merged := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		merged.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(merged)
	}
	if len(merged.Fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(merged.Fields))
	for k := range merged.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, colorKey+k+"="+colorReset+colorValue+formatValue(merged.Fields[k])+colorReset)
	}
	return strings.Join(parts, " ")
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case error:
		return val.Error()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	switch level {
	case zapcore.WarnLevel:
		return colorBold + colorWarnBg + colorWarn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + colorErrorBg + colorError + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + colorErrorBg + colorError + level.CapitalString() + colorReset
	case zapcore.DebugLevel:
		return colorKey + "DEBUG" + colorReset
	default:
		return ""
	}
}
