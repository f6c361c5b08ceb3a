package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/inventory-ledger/ledger"
	"github.com/warp/inventory-ledger/metrics"
)

// =============================================================================
// PERSISTER - Fire-and-forget, latest-wins snapshot saves
// =============================================================================
// Mutations hand the new snapshot to schedule() and return immediately. A
// single goroutine saves the most recent snapshot; snapshots superseded
// before it gets to them are never written. Failures are logged and counted,
// never retried: the next mutation schedules a fresh save anyway.

type persister struct {
	store   ledger.Store
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	timeout time.Duration

	mu      sync.Mutex
	latest  *ledger.AppData
	saveMu  sync.Mutex
	pending chan struct{}
	stop    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

func newPersister(store ledger.Store, log logrus.FieldLogger, m *metrics.Metrics, timeout time.Duration) *persister {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	p := &persister{
		store:   store,
		log:     log,
		metrics: m,
		timeout: timeout,
		pending: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// schedule queues data for saving, replacing any snapshot not yet saved.
func (p *persister) schedule(data ledger.AppData) {
	p.mu.Lock()
	p.latest = &data
	p.mu.Unlock()

	select {
	case p.pending <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.pending:
			p.flush()
		case <-p.stop:
			p.flush()
			return
		}
	}
}

// flush saves the latest scheduled snapshot, if any. It returns the save error.
func (p *persister) flush() error {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	data := p.latest
	p.latest = nil
	p.mu.Unlock()
	if data == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	start := time.Now()
	err := p.store.Save(ctx, *data)
	if p.metrics != nil {
		p.metrics.RecordSave(err == nil, time.Since(start))
	}
	if err != nil {
		p.log.WithError(err).Error("failed to persist ledger snapshot")
		return err
	}
	p.log.WithField("duration", time.Since(start)).Debug("ledger snapshot persisted")
	return nil
}

// close saves whatever is pending and stops the goroutine.
func (p *persister) close() {
	p.once.Do(func() {
		close(p.stop)
		p.wg.Wait()
	})
}
