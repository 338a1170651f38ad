package log

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	t.Cleanup(func() { _ = Close() })

	Printf("installed %s", "foo")
	WithField("skill", "bar").Warn("swap fell back to copy")

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "installed foo")
	assert.Contains(t, string(data), "skill=bar")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		_ = SetLevel("info")
	})

	require.NoError(t, SetLevel("error"))
	Warnf("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, SetLevel("debug"))
	Debugf("visible")
	assert.Contains(t, buf.String(), "visible")

	assert.Error(t, SetLevel("loud"))
}

func TestLeveledHelpers(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	require.NoError(t, SetLevel("debug"))
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		_ = SetLevel("info")
	})

	tests := []struct {
		log   func(string, ...any)
		level string
	}{
		{Debugf, "level=debug"},
		{Infof, "level=info"},
		{Warnf, "level=warning"},
		{Errorf, "level=error"},
	}
	for _, tt := range tests {
		buf.Reset()
		tt.log("cache %s", "ready")
		assert.Contains(t, buf.String(), tt.level)
		assert.Contains(t, buf.String(), "cache ready")
	}
}

func TestGetLogger(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, G(ctx))

	entry := L.WithField("op", "update")
	ctx = WithLogger(ctx, entry)
	got := G(ctx)
	assert.Equal(t, "update", got.Data["op"])

	_, isEntry := any(got).(*logrus.Entry)
	assert.True(t, isEntry)
}
