package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/stuntrack/internal/config"
	"github.com/verte-zerg/stuntrack/internal/model"
	"github.com/verte-zerg/stuntrack/internal/store"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("NO_COLOR", "1")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func birthYearsAgo(years int) string {
	return time.Now().AddDate(-years, 0, 0).Format("2006-01-02")
}

func TestCheckWritesRecordAndReport(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "check",
		"--name", "Budi Santoso", "--birth", birthYearsAgo(6), "--sex", "L",
		"--height", "100", "--weight", "18", "--class", "2", "--report-format", "txt")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Status: Stunting")
	assert.Contains(t, out, "Z-score HAZ: -2.98")
	assert.Contains(t, out, "Laporan: ")

	reportPath := filepath.Join(config.DefaultReportDir(), "Budi_Santoso_gizi.txt")
	_, err = os.Stat(reportPath)
	require.NoError(t, err)

	st, err := store.OpenCSV(config.DefaultStorePath("csv"))
	require.NoError(t, err)
	records, err := st.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2", records[0].Class)
	assert.Equal(t, model.StatusStunting, records[0].Status)
}

func TestCheckOutOfRange(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "check",
		"--name", "Rina", "--birth", birthYearsAgo(12), "--sex", "P",
		"--height", "150", "--weight", "40", "--class", "6", "--no-report")
	require.Error(t, err)
	assert.Contains(t, out, "Usia belum dalam rentang WHO")

	st, err := store.OpenCSV(config.DefaultStorePath("csv"))
	require.NoError(t, err)
	_, err = st.ReadAll(context.Background())
	assert.ErrorIs(t, err, store.ErrNoData)
}

func TestCheckRejectsNaNHeight(t *testing.T) {
	isolateXDG(t)
	_, err := execute(t, "check",
		"--name", "Budi", "--birth", birthYearsAgo(6), "--sex", "L",
		"--height", "NaN", "--weight", "18", "--class", "1", "--no-report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tinggi")

	st, err := store.OpenCSV(config.DefaultStorePath("csv"))
	require.NoError(t, err)
	_, err = st.ReadAll(context.Background())
	assert.ErrorIs(t, err, store.ErrNoData)
}

func TestRekapWithoutData(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "rekap")
	require.NoError(t, err)
	assert.Equal(t, noDataMessage+"\n", out)
}

func TestRekapAfterChecksUsesSQLiteFromConfig(t *testing.T) {
	isolateXDG(t)
	cfgPath := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), 0o755))
	require.NoError(t, os.WriteFile(cfgPath, []byte("[storage]\nbackend = \"sqlite\"\n\n[report]\nenabled = false\n"), 0o644))

	children := []struct {
		name, class, height string
	}{
		{"Ani", "1", "100"},
		{"Bayu", "1", "101"},
		{"Citra", "3", "99"},
		{"Dodi", "3", "125"},
	}
	for _, c := range children {
		out, err := execute(t, "check", "--name", c.name, "--birth", birthYearsAgo(6), "--sex", "L",
			"--height", c.height, "--weight", "20", "--class", c.class)
		require.NoError(t, err, out)
		assert.NotContains(t, out, "Laporan: ")
	}
	_, err := os.Stat(config.DefaultStorePath("sqlite"))
	require.NoError(t, err)

	out, err := execute(t, "rekap", "--width", "50")
	require.NoError(t, err)
	for _, want := range []string{"Nama", "Ani", "Dodi", "Total anak: 4", "Stunting: 3", "Kelas 1", "Kelas 3"} {
		assert.Contains(t, out, want)
	}

	out, err = execute(t, "rekap", "--chart-only", "--width", "50")
	require.NoError(t, err)
	assert.NotContains(t, out, "Total anak")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasSuffix(lines[1], " 2"), lines[1])
	assert.True(t, strings.HasSuffix(lines[2], " 1"), lines[2])
}

func TestWriteDefaultConfigKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stuntrack", "config.toml")
	require.NoError(t, writeDefaultConfig(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[storage]")

	_, err = config.LoadConfig(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644))
	require.NoError(t, writeDefaultConfig(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[log]\nlevel = \"debug\"\n", string(data))
}
