// Package content owns the editable site content: the in-memory record, its
// persistence to a remote document store or a local fallback, and change
// notification for readers.
package content

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"trinhnail/database/kv"
	"trinhnail/models"

	"go.uber.org/zap"
)

const (
	// SnapshotKey is the local key holding the full content record.
	SnapshotKey = "trinh_site_content"

	localBackend     = "local"
	bootstrapTimeout = 10 * time.Second
)

// DocumentStore is the remote document database holding the content record.
type DocumentStore interface {
	// Read returns the document and whether it exists.
	Read(ctx context.Context, docID string) (Record, bool, error)
	// Write stores rec; with merge set, fields absent from rec are retained.
	Write(ctx context.Context, docID string, rec Record, merge bool) error
	// Subscribe delivers the current document and every later change until
	// the returned stop function is called or ctx ends.
	Subscribe(ctx context.Context, docID string, onChange func(rec Record, exists bool), onError func(error)) (stop func(), err error)
	Name() string
}

// Status describes the store's two-phase state.
type Status struct {
	Content   models.SiteContent `json:"content"`
	Persisted models.SiteContent `json:"persisted"`
	Dirty     bool               `json:"dirty"`
	Syncing   bool               `json:"syncing"`
	Backend   string             `json:"backend"`
	LastError string             `json:"lastError,omitempty"`
}

// Store holds the site content. Mutations apply to memory first and are then
// persisted; a failed write never rolls memory back.
type Store struct {
	remote DocumentStore
	local  kv.Store
	docID  string
	logger *zap.Logger

	mu        sync.RWMutex
	desired   models.SiteContent
	persisted models.SiteContent
	lastErr   error
	stop      func()

	// seq numbers local mutations; persisted only advances for newer ones.
	seq          uint64
	persistedSeq uint64

	syncing atomic.Int32

	obsMu     sync.Mutex
	observers map[int]chan models.SiteContent
	nextObs   int
	closed    bool
}

// NewStore creates a store holding the defaults. A nil remote selects the
// local fallback; a nil local store keeps snapshots in memory only.
func NewStore(remote DocumentStore, local kv.Store, docID string, logger *zap.Logger) *Store {
	if local == nil {
		local = kv.NewMemoryStore(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := models.DefaultContent()
	return &Store{
		remote:    remote,
		local:     local,
		docID:     docID,
		logger:    logger,
		desired:   d,
		persisted: d,
		observers: make(map[int]chan models.SiteContent),
	}
}

// Start attaches to the remote change stream, or loads the local snapshot
// when no remote store is configured or it cannot be reached.
func (s *Store) Start(ctx context.Context) error {
	if s.remote == nil {
		return s.loadLocal(ctx)
	}

	if _, _, err := s.remote.Read(ctx, s.docID); err != nil {
		s.logger.Warn("remote content store unreachable, using local fallback",
			zap.String("backend", s.remote.Name()), zap.Error(err))
		s.useLocal()
		return s.loadLocal(ctx)
	}

	stop, err := s.remote.Subscribe(ctx, s.docID, s.applyRemote, s.remoteError)
	if err != nil {
		s.logger.Warn("content subscription failed, using local fallback",
			zap.String("backend", s.remote.Name()), zap.Error(err))
		s.useLocal()
		return s.loadLocal(ctx)
	}

	s.mu.Lock()
	s.stop = stop
	s.mu.Unlock()
	s.logger.Info("content store attached", zap.String("backend", s.remote.Name()), zap.String("doc", s.docID))
	return nil
}

func (s *Store) useLocal() {
	s.mu.Lock()
	s.remote = nil
	s.mu.Unlock()
}

func (s *Store) loadLocal(ctx context.Context) error {
	raw, ok, err := s.local.Get(ctx, SnapshotKey)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Info("content store using local fallback with defaults")
		return nil
	}

	c := models.DefaultContent()
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.logger.Error("failed to parse saved content, keeping defaults", zap.Error(err))
		return nil
	}
	c = c.WithDefaults()

	s.mu.Lock()
	s.desired = c
	s.persisted = c
	s.notifyLocked(c)
	s.mu.Unlock()
	s.logger.Info("content store loaded local snapshot")
	return nil
}

// applyRemote replaces memory with a valid remote snapshot. It runs on the
// subscription goroutine.
func (s *Store) applyRemote(rec Record, exists bool) {
	if !exists {
		s.bootstrap()
		return
	}
	c, ok := decodeRecord(rec)
	if !ok {
		remoteUpdatesTotal.WithLabelValues("ignored").Inc()
		s.logger.Warn("ignoring malformed content snapshot", zap.Any("keys", recordKeys(rec)))
		return
	}

	remoteUpdatesTotal.WithLabelValues("applied").Inc()
	s.mu.Lock()
	s.desired = c
	s.persisted = c
	s.persistedSeq = s.seq
	s.notifyLocked(c)
	s.mu.Unlock()
}

// bootstrap writes the defaults the first time the remote document is seen missing.
func (s *Store) bootstrap() {
	remote := s.currentRemote()
	if remote == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()

	if err := remote.Write(ctx, s.docID, encodeRecord(models.DefaultContent()), false); err != nil {
		s.logger.Error("failed to initialize remote content", zap.String("backend", remote.Name()), zap.Error(err))
		return
	}
	s.logger.Info("initialized remote content with defaults", zap.String("backend", remote.Name()))
}

func (s *Store) remoteError(err error) {
	s.logger.Error("content sync error", zap.Error(err))
}

// Snapshot returns the current in-memory content.
func (s *Store) Snapshot() models.SiteContent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.desired
}

// IsSyncing reports whether a remote write is in flight.
func (s *Store) IsSyncing() bool {
	return s.syncing.Load() > 0
}

// Status returns the in-memory and persisted state side by side.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		Content:   s.desired,
		Persisted: s.persisted,
		Dirty:     s.desired != s.persisted,
		Syncing:   s.IsSyncing(),
		Backend:   s.backendLocked(),
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// UpdateImage replaces one image field. The new record is visible to readers
// before persistence starts; a *PersistenceError is returned if the write
// fails, with memory left updated.
func (s *Store) UpdateImage(ctx context.Context, key models.ContentKey, value string) (models.SiteContent, error) {
	s.mu.Lock()
	next, err := s.desired.With(key, value)
	if err != nil {
		s.mu.Unlock()
		return s.Snapshot(), err
	}
	s.desired = next
	s.seq++
	seq := s.seq
	s.notifyLocked(next)
	s.mu.Unlock()

	return next, s.persist(ctx, next, seq)
}

// ResetContent restores the defaults. Without confirmation nothing changes.
func (s *Store) ResetContent(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	d := models.DefaultContent()

	s.mu.Lock()
	s.desired = d
	s.seq++
	seq := s.seq
	s.notifyLocked(d)
	s.mu.Unlock()

	err := s.persist(ctx, d, seq)
	if rmErr := s.local.Remove(ctx, SnapshotKey); rmErr != nil {
		s.logger.Warn("failed to clear local content snapshot", zap.Error(rmErr))
	}
	return err
}

// persist writes c, the record of mutation seq. Writes may complete out of
// order; an older write finishing late never replaces a newer persisted record.
func (s *Store) persist(ctx context.Context, c models.SiteContent, seq uint64) error {
	remote := s.currentRemote()

	var (
		backend string
		err     error
	)
	if remote != nil {
		backend = remote.Name()
		s.syncing.Add(1)
		syncingGauge.Inc()
		err = remote.Write(ctx, s.docID, encodeRecord(c), true)
		syncingGauge.Dec()
		s.syncing.Add(-1)
	} else {
		backend = localBackend
		var data []byte
		data, err = json.Marshal(c)
		if err == nil {
			err = s.local.Set(ctx, SnapshotKey, string(data))
		}
	}

	if err != nil {
		perr := &PersistenceError{Kind: classify(err), Backend: backend, Err: err}
		writesTotal.WithLabelValues(backend, string(perr.Kind)).Inc()
		s.logger.Error("failed to persist content",
			zap.String("backend", backend), zap.String("kind", string(perr.Kind)), zap.Error(err))
		s.mu.Lock()
		s.lastErr = perr
		s.mu.Unlock()
		return perr
	}

	writesTotal.WithLabelValues(backend, "ok").Inc()
	s.mu.Lock()
	if seq > s.persistedSeq {
		s.persisted = c
		s.persistedSeq = seq
		s.lastErr = nil
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) currentRemote() DocumentStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remote
}

func (s *Store) backendLocked() string {
	if s.remote != nil {
		return s.remote.Name()
	}
	return localBackend
}

// Subscribe registers an observer. The channel always holds the latest
// content; intermediate values may be skipped. Call cancel to unregister.
func (s *Store) Subscribe() (<-chan models.SiteContent, func()) {
	ch := make(chan models.SiteContent, 1)

	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextObs
	s.nextObs++
	s.observers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.obsMu.Lock()
			defer s.obsMu.Unlock()
			if c, ok := s.observers[id]; ok {
				delete(s.observers, id)
				close(c)
			}
		})
	}
}

// notifyLocked must be called with s.mu held so observers see updates in order.
func (s *Store) notifyLocked(c models.SiteContent) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for _, ch := range s.observers {
		select {
		case ch <- c:
		default:
			// Replace the stale value.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- c:
			default:
			}
		}
	}
}

// Close detaches from the remote stream and releases all observers.
func (s *Store) Close() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop != nil {
		stop()
	}

	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.observers {
		delete(s.observers, id)
		close(ch)
	}
}

func recordKeys(rec Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	return keys
}
