package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/noaa-gefs-stac/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Config
		wantJSON  bool
		wantDebug bool
	}{
		{"json info", config.Config{LogLevel: "info", LogFormat: "json"}, true, false},
		{"text debug", config.Config{LogLevel: "debug", LogFormat: "text"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&tt.cfg, &buf)

			logger.Debug("debug line")
			logger.Info("item written", "id", "x")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
			if tt.wantJSON {
				assert.Contains(t, out, `"msg":"item written"`)
			} else {
				assert.Contains(t, out, `msg="item written"`)
			}
		})
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetricsForTesting()
	m.ItemsWritten.Inc()
	m.MessagesRead.Add(3)

	path := filepath.Join(t.TempDir(), "gefs_stac.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gefs_stac_items_written_total 1")
	assert.Contains(t, string(data), "gefs_stac_messages_read_total 3")
}
