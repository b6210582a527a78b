package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{" error ", ErrorLevel, false},
		{"fatal", FatalLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLevel(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, level)
		})
	}
}

func TestSlogLogger_LevelFilter(t *testing.T) {
	require := require.New(t)
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	l := NewSlogWithWriter(&buf, WarnLevel, false)
	require.Equal(WarnLevel, l.Level())

	l.Info("dropped")
	require.Zero(buf.Len())

	l.Warn("kept", "chip", 0)
	var rec map[string]any
	require.NoError(json.Unmarshal(buf.Bytes(), &rec))
	require.Equal("kept", rec["msg"])
	require.InDelta(0, rec["chip"], 0)
	require.Contains(rec, "ts")

	buf.Reset()
	l.SetLevel(DebugLevel)
	l.Debug("now visible")
	require.Contains(buf.String(), "now visible")
}

func TestSlogLogger_WithSharesLevel(t *testing.T) {
	require := require.New(t)
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	parent := NewSlogWithWriter(&buf, InfoLevel, false)
	child := parent.With("component", "notify")

	parent.SetLevel(ErrorLevel)
	child.Info("suppressed")
	require.Zero(buf.Len())

	child.Error("failure")
	require.Contains(buf.String(), `"component":"notify"`)
}

func TestSetLogger(t *testing.T) {
	require := require.New(t)
	t.Setenv("ENV", "")

	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	var buf bytes.Buffer
	SetLogger(NewSlogWithWriter(&buf, InfoLevel, false))
	SetLogger(nil)

	SetLevel(WarnLevel)
	GetLogger().Info("dropped")
	require.Zero(buf.Len())

	GetLogger().Warn("kept", "path", "/root/.lg_secret")
	require.Contains(buf.String(), `"msg":"kept"`)
}

func TestMockLogger_Quiet(t *testing.T) {
	m := NewMockLogger()
	m.On("Error", "boom", []any{"op", "GO"}).Return().Once()
	m.Quiet()

	m.Debug("noise")
	m.Error("boom", "op", "GO")
	require.Same(t, m, m.With("component", "sbc"))

	m.AssertExpectations(t)
}

func TestSlogLogger_FatalLevel(t *testing.T) {
	require := require.New(t)
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	l := NewSlogWithWriter(&buf, FatalLevel, false)
	require.Equal(FatalLevel, l.Level())

	l.Error("dropped")
	require.Zero(buf.Len())

	l.SetLevel(ErrorLevel)
	require.Equal(ErrorLevel, l.Level())
	l.Error("kept")
	require.Contains(buf.String(), `"level":"ERROR"`)
}
