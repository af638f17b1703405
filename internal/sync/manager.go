// Package sync reconciles the terminal's local store with the server of
// record. One Manager owns the whole process: it watches connectivity,
// coalesces bursts of triggers into single runs, pushes the sale backlog and
// mutation queue one request at a time, refreshes the catalog snapshots, and
// broadcasts status to subscribers.
package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/cache"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/infra"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/store"
)

// RemoteAPI is the manager's view of the remote sync endpoints. *Client
// implements it; tests substitute fakes.
type RemoteAPI interface {
	PushSale(ctx context.Context, s *model.Sale) (string, error)
	PushMutation(ctx context.Context, e *model.MutationEntry) error
	PullProducts(ctx context.Context, tenantID string) ([]model.Product, error)
	PullCustomers(ctx context.Context, tenantID string) ([]model.Customer, error)
}

// Prober answers "is the server reachable right now". Being offline is
// expected, so the answer is a bool, not an error.
type Prober interface {
	Online(ctx context.Context) bool
}

// Options tune the manager's timers. Zero values pick the defaults.
type Options struct {
	Debounce     time.Duration // trigger coalescing window (default 300ms)
	SyncInterval time.Duration // periodic sync trigger (default 60s)
	StatusTick   time.Duration // pending-count refresh and connectivity watch (default 30s)
}

// Manager serializes sync runs against the remote system. It is the only
// component that mutates sale sync bookkeeping or removes queue entries.
type Manager struct {
	sales    store.SaleStore
	queue    store.QueueStore
	catalog  store.CatalogStore
	settings store.SettingsStore
	remote   RemoteAPI
	prober   Prober
	breaker  *infra.CircuitBreaker
	lookup   cache.LookupCache

	debounce     time.Duration
	syncInterval time.Duration
	statusTick   time.Duration

	mu        stdsync.Mutex
	syncing   bool        // re-entrancy guard: triggers while running are dropped
	pending   *time.Timer // debounced trigger, cancelled and replaced on re-trigger
	status    Status
	subs      map[int]*subscriber
	nextSubID int
}

func NewManager(
	sales store.SaleStore,
	queue store.QueueStore,
	catalog store.CatalogStore,
	settings store.SettingsStore,
	remote RemoteAPI,
	prober Prober,
	breaker *infra.CircuitBreaker,
	lookup cache.LookupCache,
	opts Options,
) *Manager {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = 60 * time.Second
	}
	if opts.StatusTick <= 0 {
		opts.StatusTick = 30 * time.Second
	}
	if breaker == nil {
		breaker = infra.NewCircuitBreaker(infra.DefaultCBConfig())
	}
	if lookup == nil {
		lookup = cache.NoopCache{}
	}
	return &Manager{
		sales:        sales,
		queue:        queue,
		catalog:      catalog,
		settings:     settings,
		remote:       remote,
		prober:       prober,
		breaker:      breaker,
		lookup:       lookup,
		debounce:     opts.Debounce,
		syncInterval: opts.SyncInterval,
		statusTick:   opts.StatusTick,
		subs:         make(map[int]*subscriber),
	}
}

// Start launches the background loop: periodic sync triggers, pending-count
// refresh, and connectivity-transition detection. It returns immediately;
// the loop stops when ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	go m.loop(ctx)
}

func (m *Manager) loop(ctx context.Context) {
	// Recover the last-sync watermark from the previous process run.
	if raw, err := m.settings.Get(ctx, model.SettingLastSyncAt); err == nil {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			m.mu.Lock()
			m.status.LastSyncAt = &t
			m.mu.Unlock()
		}
	}

	m.refreshCounts(ctx)
	m.Trigger() // reconcile any backlog left from the previous run

	statusTicker := time.NewTicker(m.statusTick)
	defer statusTicker.Stop()
	syncTicker := time.NewTicker(m.syncInterval)
	defer syncTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			if m.pending != nil {
				m.pending.Stop()
				m.pending = nil
			}
			m.mu.Unlock()
			log.Info().Msg("sync: manager stopped")
			return
		case <-statusTicker.C:
			online := m.prober.Online(ctx)
			m.mu.Lock()
			reconnected := online && !m.status.IsOnline
			m.status.IsOnline = online
			m.mu.Unlock()
			m.refreshCounts(ctx)
			if reconnected {
				log.Info().Msg("sync: connectivity restored, scheduling sync")
				m.Trigger()
			}
		case <-syncTicker.C:
			m.Trigger()
		}
	}
}

// Trigger schedules a sync run after the debounce window. A second trigger
// inside the window cancels and replaces the pending timer, so a burst of
// local writes produces one run, not one per write.
func (m *Manager) Trigger() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		m.pending.Stop()
	}
	m.pending = time.AfterFunc(m.debounce, func() {
		m.mu.Lock()
		m.pending = nil
		m.mu.Unlock()
		m.run(context.Background())
	})
}

// SyncNow runs a sync immediately, subject to the same re-entrancy and
// connectivity checks as scheduled runs. Used by the "sync now" affordance.
func (m *Manager) SyncNow(ctx context.Context) {
	m.mu.Lock()
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
	m.mu.Unlock()
	m.run(ctx)
}

// Status returns the current status snapshot.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Status {
	s := m.status
	s.SyncErrors = append([]string(nil), m.status.SyncErrors...)
	return s
}

// Subscribe registers a status listener. Every snapshot is delivered, in
// publish order: snapshots queue per listener without bound, so a slow
// consumer delays nothing and misses nothing. The returned func
// unsubscribes and closes the channel.
func (m *Manager) Subscribe() (<-chan Status, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	sub := &subscriber{
		out:  make(chan Status),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	m.subs[id] = sub
	go sub.forward()
	return sub.out, func() {
		m.mu.Lock()
		s, ok := m.subs[id]
		if ok {
			delete(m.subs, id)
		}
		m.mu.Unlock()
		if ok {
			close(s.done)
		}
	}
}

func (m *Manager) publish(s Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subs {
		sub.push(s)
	}
}

// subscriber decouples publishing from consumption: push appends under the
// subscriber's own lock and never blocks the manager, forward drains the
// queue into the listener's channel.
type subscriber struct {
	mu    stdsync.Mutex
	queue []Status
	wake  chan struct{} // capacity 1, push signals forward
	done  chan struct{}
	out   chan Status
}

func (s *subscriber) push(st Status) {
	s.mu.Lock()
	s.queue = append(s.queue, st)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) forward() {
	defer close(s.out)
	for {
		s.mu.Lock()
		var next Status
		have := len(s.queue) > 0
		if have {
			next = s.queue[0]
			s.queue = s.queue[1:]
		}
		s.mu.Unlock()

		if !have {
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		select {
		case s.out <- next:
		case <-s.done:
			return
		}
	}
}

// refreshCounts recomputes the pending/failed counters and broadcasts the
// snapshot. Count failures are logged, never fatal — stale counts beat a
// dead status feed.
func (m *Manager) refreshCounts(ctx context.Context) {
	var pendingSales int64
	if tenantID, err := m.settings.Get(ctx, model.SettingTenantID); err == nil && tenantID != "" {
		if n, err := m.sales.CountUnsynced(ctx, tenantID); err == nil {
			pendingSales = n
		} else {
			log.Warn().Err(err).Msg("sync: count unsynced sales failed")
		}
	}
	pendingItems, err := m.queue.CountPending(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("sync: count pending mutations failed")
	}
	failedItems, err := m.queue.CountFailed(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("sync: count failed mutations failed")
	}

	m.mu.Lock()
	m.status.PendingSales = pendingSales
	m.status.PendingItems = pendingItems
	m.status.FailedItems = failedItems
	snapshot := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snapshot)
}

// run executes one sync run. Exactly one run is in flight at a time;
// concurrent triggers are dropped and must be re-requested after completion.
func (m *Manager) run(ctx context.Context) {
	m.mu.Lock()
	if m.syncing {
		m.mu.Unlock()
		log.Debug().Msg("sync: run in progress, trigger dropped")
		return
	}
	m.syncing = true
	m.mu.Unlock()

	// No attempt while offline — and an open breaker means the server was
	// failing hard enough that probing again now would be pointless.
	online := m.breaker.State() != infra.CBOpen && m.prober.Online(ctx)
	if !online {
		m.mu.Lock()
		m.syncing = false
		m.status.IsOnline = false
		m.status.IsSyncing = false
		m.mu.Unlock()
		m.refreshCounts(ctx)
		return
	}

	m.mu.Lock()
	m.status.IsOnline = true
	m.status.IsSyncing = true
	snapshot := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snapshot)

	completedAt, errs, runErr := m.runOnce(ctx)

	m.mu.Lock()
	m.syncing = false
	m.status.IsSyncing = false
	m.status.SyncErrors = errs
	if runErr != nil {
		// Failure outside entity-level handling aborts the run but never
		// leaves the manager stuck in running.
		m.status.SyncErrors = append(m.status.SyncErrors, "sync run aborted: "+runErr.Error())
	}
	if completedAt != nil {
		m.status.LastSyncAt = completedAt
	}
	m.mu.Unlock()

	switch {
	case runErr != nil:
		log.Error().Err(runErr).Msg("sync: run aborted")
	case len(errs) > 0:
		log.Warn().Int("errors", len(errs)).Msg("sync: run completed with partial failures")
	default:
		log.Info().Msg("sync: run completed")
	}

	m.refreshCounts(ctx)
}

// runOnce is the per-run algorithm: push sales, drain the mutation queue in
// FIFO order, pull reference data, persist the watermark. Per-entity
// delivery failures land in errs and never abort the run; a non-nil runErr
// means the run stopped outside entity handling.
func (m *Manager) runOnce(ctx context.Context) (completedAt *time.Time, errs []string, runErr error) {
	tenantID, err := m.settings.Get(ctx, model.SettingTenantID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && tenantID == "") {
		log.Debug().Msg("sync: no tenant configured, nothing to sync")
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	// 1. Push sales. A rejected sale stays unsynced and is retried on every
	// future run — sales are never given up on.
	unsynced, err := m.sales.GetUnsynced(ctx, tenantID)
	if err != nil {
		return nil, errs, err
	}
	for i := range unsynced {
		s := &unsynced[i]
		var serverID string
		pushErr := m.breaker.Execute(func() error {
			id, err := m.remote.PushSale(ctx, s)
			if err != nil {
				return err
			}
			serverID = id
			return nil
		})
		if pushErr != nil {
			if errors.Is(pushErr, infra.ErrCircuitOpen) {
				// The breaker opened mid-run: a connectivity event, not a
				// delivery verdict. The sale was never submitted, so nothing
				// is recorded against it; the next trigger resumes here.
				log.Warn().Str("offline_id", s.OfflineID).Msg("sync: breaker open, run suspended")
				return nil, errs, nil
			}
			errs = append(errs, fmt.Sprintf("sale %s: %v", s.OfflineID, pushErr))
			if err := m.sales.RecordSyncError(ctx, s.OfflineID, pushErr.Error()); err != nil {
				return nil, errs, err
			}
			log.Warn().Str("offline_id", s.OfflineID).Err(pushErr).Msg("sync: sale push failed")
			continue
		}
		if err := m.sales.MarkSynced(ctx, s.OfflineID, serverID); err != nil {
			return nil, errs, err
		}
		log.Info().Str("offline_id", s.OfflineID).Str("server_id", serverID).Msg("sync: sale acknowledged")
	}

	// 2. Drain the mutation queue oldest-first. Entries are removed only on
	// confirmed acceptance; failed entries park at the attempt cap.
	entries, err := m.queue.List(ctx)
	if err != nil {
		return nil, errs, err
	}
	for i := range entries {
		e := &entries[i]
		if e.Status != model.MutationPending || e.Attempts >= model.MaxMutationAttempts {
			continue
		}
		pushErr := m.breaker.Execute(func() error {
			return m.remote.PushMutation(ctx, e)
		})
		if pushErr != nil {
			if errors.Is(pushErr, infra.ErrCircuitOpen) {
				// Attempts count delivery failures only; an entry the server
				// never saw keeps its full retry budget.
				log.Warn().Str("entry_id", e.ID).Msg("sync: breaker open, run suspended")
				return nil, errs, nil
			}
			errs = append(errs, fmt.Sprintf("%s %s %s: %v", e.EntityType, e.Action, e.ID, pushErr))
			if err := m.queue.RecordFailure(ctx, e.ID, pushErr.Error()); err != nil {
				return nil, errs, err
			}
			log.Warn().Str("entry_id", e.ID).Str("entity", e.EntityType).Int("attempts", e.Attempts+1).
				Err(pushErr).Msg("sync: mutation delivery failed")
			continue
		}
		if err := m.queue.Remove(ctx, e.ID); err != nil {
			return nil, errs, err
		}
	}

	// 3. Pull reference data — a full replace, not a merge.
	pulledAll := true

	var products []model.Product
	pullErr := m.breaker.Execute(func() error {
		var err error
		products, err = m.remote.PullProducts(ctx, tenantID)
		return err
	})
	if errors.Is(pullErr, infra.ErrCircuitOpen) {
		return nil, errs, nil
	}
	if pullErr != nil {
		pulledAll = false
		errs = append(errs, fmt.Sprintf("pull products: %v", pullErr))
	} else if err := m.catalog.ReplaceProducts(ctx, tenantID, products); err != nil {
		return nil, errs, err
	}

	var customers []model.Customer
	pullErr = m.breaker.Execute(func() error {
		var err error
		customers, err = m.remote.PullCustomers(ctx, tenantID)
		return err
	})
	if errors.Is(pullErr, infra.ErrCircuitOpen) {
		return nil, errs, nil
	}
	if pullErr != nil {
		pulledAll = false
		errs = append(errs, fmt.Sprintf("pull customers: %v", pullErr))
	} else if err := m.catalog.ReplaceCustomers(ctx, tenantID, customers); err != nil {
		return nil, errs, err
	}

	if pulledAll {
		if err := m.lookup.Flush(ctx); err != nil {
			log.Warn().Err(err).Msg("sync: lookup cache flush failed")
		}
	}

	// 4. Persist the watermark.
	now := time.Now()
	if err := m.settings.Set(ctx, model.SettingLastSyncAt, now.Format(time.RFC3339)); err != nil {
		return nil, errs, err
	}
	return &now, errs, nil
}
