package backends

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/logshim/core"
	"github.com/philipp01105/logshim/mdc"
)

func TestNew_EveryBackendEmitsLocation(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			b, err := New(Config{Name: name, Writer: &buf, Encoding: JSON, Level: core.InfoLevel})
			require.NoError(t, err)

			ctx := mdc.NewContext(context.Background())
			mdc.Location{File: "/src/app.go", Line: "12", Method: "serve"}.Put(mdc.FromContext(ctx))

			l := b.Logger("root.App")
			assert.False(t, l.Enabled(core.DebugLevel))
			require.NoError(t, l.Log(ctx, core.WarnLevel, "hello", nil))
			require.NoError(t, b.Sync())

			out := buf.String()
			assert.Contains(t, out, "hello")
			assert.Contains(t, out, "root.App")

			var rec map[string]any
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &rec), out)
			if name == Native {
				ctxFields, _ := rec["context"].(map[string]any)
				require.NotNil(t, ctxFields, out)
				rec = ctxFields
			}
			assert.Equal(t, "/src/app.go", rec[mdc.FileNameKey])
			assert.Equal(t, "12", rec[mdc.LineNumberKey])
			assert.Equal(t, "serve", rec[mdc.MethodNameKey])
		})
	}
}

func TestNew_Text(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			b, err := New(Config{Name: name, Writer: &buf, Level: core.DebugLevel})
			require.NoError(t, err)
			require.NoError(t, b.Logger("root.App").Log(context.Background(), core.DebugLevel, "plain text", nil))
			assert.Contains(t, buf.String(), "plain text")
		})
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(Config{Name: "log4j"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestNew_BadPattern(t *testing.T) {
	_, err := New(Config{Pattern: "%q"})
	assert.Error(t, err)
}

func TestNew_File(t *testing.T) {
	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			path := filepath.Join(t.TempDir(), "logs", "app.log")
			b, err := New(Config{Name: name, Writer: &buf, Level: core.InfoLevel, File: path, MaxSizeMB: 1})
			require.NoError(t, err)

			require.NoError(t, b.Logger("root.App").Log(context.Background(), core.InfoLevel, "to both", nil))
			require.NoError(t, b.Close())

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), "to both")
			assert.Contains(t, buf.String(), "to both")
		})
	}
}

func TestNew_NativeAsync(t *testing.T) {
	var buf bytes.Buffer
	b, err := New(Config{Writer: &buf, Level: core.InfoLevel, Async: true})
	require.NoError(t, err)

	require.NoError(t, b.Logger("root.App").Log(context.Background(), core.InfoLevel, "queued", nil))
	require.NoError(t, b.Close())
	assert.Contains(t, buf.String(), "queued")
}

func TestNew_SlogPipeline(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "app.log")
	b, err := New(Config{Name: Slog, Writer: &buf, Encoding: Pipeline, Level: core.InfoLevel, File: path})
	require.NoError(t, err)

	ctx := mdc.NewContext(context.Background())
	mdc.Location{File: "/src/app.go", Line: "12", Method: "serve"}.Put(mdc.FromContext(ctx))

	l := b.Logger("root.App")
	assert.False(t, l.Enabled(core.DebugLevel))
	require.NoError(t, l.Log(ctx, core.WarnLevel, "hello", nil))
	require.NoError(t, b.Close())

	assert.Equal(t, " WARN /src/app.go serve:12 - hello\n", buf.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}
