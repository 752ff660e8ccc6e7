package appsettings_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsettings "github.com/pawamoy/appsettings"
)

func TestMapSource_RawHitAndMiss(t *testing.T) {
	src := appsettings.MapSource{"PORT": 8080}

	v, err := src.Raw("PORT")
	require.NoError(t, err)
	assert.Equal(t, 8080, v)

	_, err = src.Raw("HOST")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appsettings.ErrNotFound))
	assert.Contains(t, err.Error(), "HOST is not present in the settings source")
}

func writeSettingsFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestYAMLSource_UppercasesTopLevelKeys(t *testing.T) {
	path := writeSettingsFile(t, t.TempDir(), "debug: true\nport: 8080\nlimits:\n  cpu: 2\n")

	src, err := appsettings.LoadYAML(path)
	require.NoError(t, err)

	v, err := src.Raw("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = src.Raw("PORT")
	require.NoError(t, err)
	assert.Equal(t, 8080, v)

	v, err = src.Raw("LIMITS")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"cpu": 2}, v)

	_, err = src.Raw("MISSING")
	assert.True(t, errors.Is(err, appsettings.ErrNotFound))

	assert.ElementsMatch(t, []string{"DEBUG", "PORT", "LIMITS"}, src.Keys())
}

func TestYAMLSource_MissingFile(t *testing.T) {
	_, err := appsettings.LoadYAML(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestYAMLSource_BadDocument(t *testing.T) {
	path := writeSettingsFile(t, t.TempDir(), ":\n  - not\nvalid yaml: [\n")
	_, err := appsettings.LoadYAML(path)
	require.Error(t, err)
}

func TestYAMLSource_BacksASettingsGroup(t *testing.T) {
	path := writeSettingsFile(t, t.TempDir(), "port: 8080\n")
	src, err := appsettings.LoadYAML(path)
	require.NoError(t, err)

	schema, err := appsettings.NewBuilder().
		Register("port", appsettings.Int("")).
		Build()
	require.NoError(t, err)

	g, err := appsettings.NewGroup(schema, src)
	require.NoError(t, err)

	v, err := g.IntValue("port")
	require.NoError(t, err)
	assert.Equal(t, 8080, v)
	require.NoError(t, g.Check())
}

func TestWatchYAML_ReloadInvalidatesGroupCache(t *testing.T) {
	dir := t.TempDir()
	path := writeSettingsFile(t, dir, "port: 8080\n")

	bus := appsettings.NewBus()
	src, err := appsettings.WatchYAML(path, bus)
	require.NoError(t, err)
	defer src.Stop()

	schema, err := appsettings.NewBuilder().
		Register("port", appsettings.Int("")).
		Build()
	require.NoError(t, err)

	g, err := appsettings.NewGroup(schema, src, appsettings.WithBus(bus))
	require.NoError(t, err)
	defer g.Close()

	v, err := g.IntValue("port")
	require.NoError(t, err)
	require.Equal(t, 8080, v)

	require.NoError(t, os.WriteFile(path, []byte("port: 9090\n"), 0o600))

	require.Eventually(t, func() bool {
		v, err := g.IntValue("port")
		return err == nil && v == 9090
	}, 5*time.Second, 20*time.Millisecond, "rewrite must reload the source and invalidate the cache")
}

func TestWatchYAML_KeepsOldValuesOnBadRewrite(t *testing.T) {
	dir := t.TempDir()
	path := writeSettingsFile(t, dir, "port: 8080\n")

	bus := appsettings.NewBus()
	src, err := appsettings.WatchYAML(path, bus)
	require.NoError(t, err)
	defer src.Stop()

	require.NoError(t, os.WriteFile(path, []byte("port: [\n"), 0o600))

	// Give the watcher a moment to process the event, then confirm the old
	// value survived the failed reload.
	time.Sleep(300 * time.Millisecond)
	v, err := src.Raw("PORT")
	require.NoError(t, err)
	assert.Equal(t, 8080, v)
}
