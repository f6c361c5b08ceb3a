package api_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/inventory-ledger/api"
	"github.com/warp/inventory-ledger/factory"
	"github.com/warp/inventory-ledger/metrics"
)

type failingSource struct{}

func (failingSource) ExportBackup() ([]byte, error) { return nil, errors.New("boom") }

func fixedClock() time.Time { return time.Date(2024, 3, 5, 21, 4, 5, 0, time.UTC) }

func TestBackupScheduler_RunNow(t *testing.T) {
	// GIVEN: a scheduler over a live service
	ts := newTestServer(t)
	logger, _ := logtest.NewNullLogger()
	dir := filepath.Join(t.TempDir(), "backups")

	bs := api.NewBackupScheduler(ts.svc, dir, logger)
	bs.Now = fixedClock

	// WHEN: a backup is taken
	path, err := bs.RunNow()
	require.NoError(t, err)

	// THEN: the file is named after the time and imports cleanly
	assert.Equal(t, filepath.Join(dir, "backup-20240305-210405.json"), path)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	data, err := factory.NewDocumentFactory().ParseImport(raw)
	require.NoError(t, err)
	assert.Equal(t, ts.svc.Snapshot(), data)
}

func TestBackupScheduler_StartTakesImmediateBackup(t *testing.T) {
	ts := newTestServer(t)
	logger, _ := logtest.NewNullLogger()
	dir := t.TempDir()

	bs := api.NewBackupScheduler(ts.svc, dir, logger)
	bs.Interval = time.Hour
	bs.Start()
	bs.Stop()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBackupScheduler_DisabledWithoutDir(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	bs := api.NewBackupScheduler(failingSource{}, "", logger)

	assert.False(t, bs.Enabled())
	bs.Start()
	bs.Stop()
	assert.Contains(t, hook.LastEntry().Message, "disabled")
}

func TestBackupScheduler_FailureIsCounted(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	m := metrics.New("test")
	bs := api.NewBackupScheduler(failingSource{}, t.TempDir(), logger)
	bs.Metrics = m

	_, err := bs.RunNow()
	assert.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Backups.WithLabelValues("error")))
}
