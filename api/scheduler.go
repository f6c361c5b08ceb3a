/*
scheduler.go - Automated backup scheduler

PURPOSE:
  Periodically writes the whole ledger as a timestamped JSON backup into a
  directory, so a lost or corrupted data file can be restored through
  POST /api/backup.

DESIGN:
  - Runs a background goroutine with configurable interval
  - Takes one backup immediately on start
  - Each backup is written atomically (temp file + rename)
  - Failures are logged and counted, never retried before the next tick

CONFIGURATION:
  - Dir:      Target directory; empty disables the scheduler
  - Interval: How often to back up (default: 7 days)

USAGE:
  scheduler := NewBackupScheduler(svc, dir, log)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ExportBackup endpoint (manual backup)
  - store/jsonfile/jsonfile.go: WriteAtomic
*/
package api

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/inventory-ledger/metrics"
	"github.com/warp/inventory-ledger/store/jsonfile"
)

// DefaultBackupInterval is one week.
const DefaultBackupInterval = 7 * 24 * time.Hour

// BackupSource produces a backup document.
type BackupSource interface {
	ExportBackup() ([]byte, error)
}

// BackupScheduler handles periodic ledger backups.
type BackupScheduler struct {
	Source   BackupSource
	Dir      string
	Interval time.Duration
	Log      logrus.FieldLogger
	Metrics  *metrics.Metrics
	Now      func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewBackupScheduler creates a new scheduler writing into dir.
func NewBackupScheduler(src BackupSource, dir string, log logrus.FieldLogger) *BackupScheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &BackupScheduler{
		Source:   src,
		Dir:      dir,
		Interval: DefaultBackupInterval,
		Log:      log.WithField("component", "backup"),
		Now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Enabled reports whether the scheduler has somewhere to write.
func (bs *BackupScheduler) Enabled() bool {
	return bs.Dir != "" && bs.Interval > 0
}

// Start begins the scheduler.
func (bs *BackupScheduler) Start() {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if !bs.Enabled() {
		bs.Log.Info("backup scheduler disabled, not starting")
		return
	}
	if bs.ticker != nil {
		return
	}

	bs.ticker = time.NewTicker(bs.Interval)
	bs.wg.Add(1)

	go bs.run()

	bs.Log.WithFields(logrus.Fields{"dir": bs.Dir, "interval": bs.Interval}).Info("backup scheduler started")
}

// Stop stops the scheduler.
func (bs *BackupScheduler) Stop() {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if bs.ticker != nil {
		bs.ticker.Stop()
		close(bs.stop)
		bs.wg.Wait()
		bs.ticker = nil
		bs.Log.Info("backup scheduler stopped")
	}
}

func (bs *BackupScheduler) run() {
	defer bs.wg.Done()

	// Run immediately on start
	bs.RunNow()

	for {
		select {
		case <-bs.ticker.C:
			bs.RunNow()
		case <-bs.stop:
			return
		}
	}
}

// RunNow writes one backup and returns its path.
func (bs *BackupScheduler) RunNow() (string, error) {
	path, err := bs.backup()
	if bs.Metrics != nil {
		bs.Metrics.RecordBackup(err == nil)
	}
	if err != nil {
		bs.Log.WithError(err).Error("backup failed")
		return "", err
	}
	bs.Log.WithField("path", path).Info("backup written")
	return path, nil
}

func (bs *BackupScheduler) backup() (string, error) {
	raw, err := bs.Source.ExportBackup()
	if err != nil {
		return "", fmt.Errorf("failed to export ledger: %w", err)
	}
	path := filepath.Join(bs.Dir, BackupName(bs.Now()))
	if err := jsonfile.WriteAtomic(path, raw); err != nil {
		return "", err
	}
	return path, nil
}

// BackupName is the file name of a scheduled backup taken at t.
func BackupName(t time.Time) string {
	return fmt.Sprintf("backup-%s.json", t.Format("20060102-150405"))
}

// NextRunTime returns when the next scheduled backup will occur.
func (bs *BackupScheduler) NextRunTime() time.Time {
	return bs.Now().Add(bs.Interval)
}
