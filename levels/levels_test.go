package levels

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/logshim/core"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		want  core.Level
		isSet bool
	}{
		{"nil", nil, 0, false},
		{"core level", core.WarnLevel, core.WarnLevel, true},
		{"lower name", "debug", core.DebugLevel, true},
		{"upper name", "ERROR", core.ErrorLevel, true},
		{"warning alias", "Warning", core.WarnLevel, true},
		{"padded name", " fatal ", core.FatalLevel, true},
		{"ordinal", 1, core.InfoLevel, true},
		{"int64 ordinal", int64(4), core.FatalLevel, true},
		{"json number", float64(2), core.WarnLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.isSet, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Unsupported(t *testing.T) {
	for _, in := range []any{"verbose", 7, -1, 2.5, struct{}{}, core.Level(9)} {
		_, ok, err := Parse(in)
		assert.False(t, ok)
		require.Error(t, err, "%v", in)
		assert.True(t, errors.Is(err, ErrUnsupportedLevel))

		var ule *UnsupportedLevelError
		require.True(t, errors.As(err, &ule))
		assert.Equal(t, in, ule.Value)
	}
}

func TestMustParse(t *testing.T) {
	assert.Equal(t, core.InfoLevel, MustParse("info"))
	assert.Panics(t, func() { MustParse("loud") })
	assert.Panics(t, func() { MustParse(nil) })
}

type nativeLevel uint32

func TestTable(t *testing.T) {
	tbl := NewTable[nativeLevel](50, 40, 30, 20, 10)

	for _, l := range core.Levels {
		n := tbl.Native(l)
		back, ok := tbl.Level(n)
		require.True(t, ok)
		assert.Equal(t, l, back)
	}
	assert.Equal(t, nativeLevel(10), tbl.Native(core.Level(12)))
	assert.Equal(t, nativeLevel(50), tbl.Native(core.Level(-3)))

	_, ok := tbl.Level(99)
	assert.False(t, ok)
}

func TestTable_Parse(t *testing.T) {
	tbl := NewTable[nativeLevel](50, 40, 30, 20, 10)

	l, ok, err := tbl.Parse(nativeLevel(30))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.WarnLevel, l)

	l, ok, err = tbl.Parse("error")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.ErrorLevel, l)

	_, ok, err = tbl.Parse(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = tbl.Parse(nativeLevel(31))
	assert.ErrorIs(t, err, ErrUnsupportedLevel)
}

func TestTable_SharedNativeValue(t *testing.T) {
	tbl := NewTable[string]("d", "i", "w", "e", "e")

	l, ok := tbl.Level("e")
	require.True(t, ok)
	assert.Equal(t, core.ErrorLevel, l)
	assert.Equal(t, "e", tbl.Native(core.FatalLevel))
}

func TestTable_CoreIdentity(t *testing.T) {
	tbl := NewTable(core.DebugLevel, core.InfoLevel, core.WarnLevel, core.ErrorLevel, core.FatalLevel)

	l, ok, err := tbl.Parse(core.FatalLevel)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.FatalLevel, l)

	_, _, err = tbl.Parse(core.Level(8))
	assert.ErrorIs(t, err, ErrUnsupportedLevel)
}

func TestSlog(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, Slog.Native(core.WarnLevel))
	assert.Equal(t, SlogFatal, Slog.Native(core.FatalLevel))

	l, ok, err := Slog.Parse(slog.LevelError)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.ErrorLevel, l)

	assert.Equal(t, core.InfoLevel, FromSlog(slog.Level(2)))
	assert.Equal(t, core.DebugLevel, FromSlog(slog.Level(-8)))
	assert.Equal(t, core.FatalLevel, FromSlog(slog.Level(20)))
}
