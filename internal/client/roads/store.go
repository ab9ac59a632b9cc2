package roads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iudanet/roadsync/internal/client/storage"
	"github.com/iudanet/roadsync/internal/models"
)

const taskQueueSize = 128

// Config зависимости Store
type Config struct {
	Gateway      Gateway
	Credentials  CredentialSource
	Connectivity ConnectivitySource
	Pending      storage.PendingStorage  // optional
	Metadata     storage.MetadataStorage // optional
	Logger       *slog.Logger
}

type observer struct {
	fn func(State)
	id int
}

// Store владеет состоянием синхронизации дорог.
// Все переходы и эффекты выполняются в одной горутине цикла, поэтому
// события применяются строго последовательно. Наблюдатели вызываются из этой же
// горутины и не должны вызывать блокирующие методы Store (Subscribe, Save, Close и т.д.).
type Store struct {
	gateway  Gateway
	creds    CredentialSource
	network  ConnectivitySource
	pending  storage.PendingStorage
	metadata storage.MetadataStorage
	logger   *slog.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	tasks     chan func()
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	snapshot  atomic.Pointer[State]

	postMu   sync.Mutex
	closed   bool
	inflight sync.WaitGroup

	// поля ниже принадлежат горутине цикла
	state          State
	observers      []observer
	nextObserverID int
	unsubscribe    []func()
	started        bool

	credential string
	connected  bool
	epoch      uint64 // растет при каждой смене токена

	fetch      *invocation
	fetchDeps  fetchDeps
	fetchArmed bool

	live       *invocation
	liveDeps   liveDeps
	liveArmed  bool
	liveHandle LiveChannel

	syncing *invocation
}

// NewStore создает Store и запускает цикл обработки.
// Эффекты начинают работать только после Start.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Gateway == nil {
		return nil, errors.New("gateway is required")
	}
	if cfg.Credentials == nil {
		return nil, errors.New("credential source is required")
	}
	if cfg.Connectivity == nil {
		return nil, errors.New("connectivity source is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		gateway:  cfg.Gateway,
		creds:    cfg.Credentials,
		network:  cfg.Connectivity,
		pending:  cfg.Pending,
		metadata: cfg.Metadata,
		logger:   logger.With("component", "roads"),
		ctx:      ctx,
		cancel:   cancel,
		tasks:    make(chan func(), taskQueueSize),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		state:    InitialState(),
	}
	initial := s.state
	s.snapshot.Store(&initial)

	go s.run()

	return s, nil
}

// Start подписывается на токен и состояние сети, восстанавливает локальные записи
// и выполняет первичную оценку эффектов. Возвращается после того, как первые
// запросы отправлены (но не завершены).
func (s *Store) Start(ctx context.Context) error {
	var startErr error
	err := s.call(ctx, func() {
		if s.started {
			startErr = errors.New("road store already started")
			return
		}
		s.unsubscribe = append(s.unsubscribe,
			s.creds.SubscribeCredential(func(credential string) {
				s.post(func() { s.onCredential(credential) })
			}),
			s.network.SubscribeConnectivity(func(connected bool) {
				s.post(func() { s.onConnectivity(connected) })
			}),
		)

		s.credential = s.creds.Credential()
		s.connected = s.network.Connected()
		s.started = true
		s.logger.Debug("Store started",
			"authenticated", s.credential != "",
			"connected", s.connected)

		if s.credential != "" {
			s.restorePending()
		}
		if s.connected {
			s.runReconnectSync()
		}
		s.reconcileFetch()
		s.reconcileLive()
	})
	if err != nil {
		return err
	}
	return startErr
}

// Close останавливает эффекты, закрывает live-канал и цикл обработки
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		finished := make(chan struct{})
		if s.post(func() {
			defer close(finished)
			s.shutdown()
		}) {
			<-finished
		}

		s.postMu.Lock()
		s.closed = true
		s.postMu.Unlock()
		s.inflight.Wait()

		s.cancel()
		close(s.done)
		<-s.stopped
	})
	return nil
}

// Snapshot возвращает последнее состояние. Безопасен для вызова из любой горутины.
func (s *Store) Snapshot() State {
	return *s.snapshot.Load()
}

// Subscribe регистрирует наблюдателя. fn сразу получает текущее состояние,
// затем вызывается после каждого перехода.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	var id int
	err := s.call(context.Background(), func() {
		s.nextObserverID++
		id = s.nextObserverID
		s.observers = append(s.observers, observer{id: id, fn: fn})
		fn(s.state)
	})
	if err != nil {
		return func() {}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.post(func() { s.removeObserver(id) })
		})
	}
}

// Await ждет состояния, удовлетворяющего cond
func (s *Store) Await(ctx context.Context, cond func(State) bool) (State, error) {
	matched := make(chan State, 1)
	unsubscribe := s.Subscribe(func(st State) {
		if cond(st) {
			select {
			case matched <- st:
			default:
			}
		}
	})
	defer unsubscribe()

	select {
	case st := <-matched:
		return st, nil
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	case <-s.done:
		return s.Snapshot(), ErrStoreClosed
	}
}

func (s *Store) run() {
	defer close(s.stopped)
	for {
		select {
		case task := <-s.tasks:
			task()
		case <-s.done:
			// Задачи, принятые до закрытия, выполняются: отмененные запуски
			// в них освобождают свои ресурсы
			for {
				select {
				case task := <-s.tasks:
					task()
				default:
					return
				}
			}
		}
	}
}

// post ставит задачу в очередь цикла. Возвращает false, если Store закрыт.
func (s *Store) post(task func()) bool {
	s.postMu.Lock()
	if s.closed {
		s.postMu.Unlock()
		return false
	}
	s.inflight.Add(1)
	s.postMu.Unlock()

	defer s.inflight.Done()
	s.tasks <- task
	return true
}

// call выполняет задачу в цикле и ждет ее завершения
func (s *Store) call(ctx context.Context, task func()) error {
	finished := make(chan struct{})
	if !s.post(func() {
		defer close(finished)
		task()
	}) {
		return ErrStoreClosed
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrStoreClosed
	}
}

// dispatch применяет событие и оповещает наблюдателей. Только из горутины цикла.
func (s *Store) dispatch(e Event) {
	prev := s.state
	next := Reduce(prev, e)
	s.state = next

	snapshot := next
	s.snapshot.Store(&snapshot)

	s.logger.Debug("State transition",
		"event", fmt.Sprintf("%T", e),
		"roads", len(next.Roads),
		"local", len(next.LocalSavedRoads),
		"page", next.Page,
		"fetching", next.Fetching,
		"saving", next.Saving)

	s.persist(prev, next, e)

	for _, o := range s.observers {
		o.fn(next)
	}

	s.reconcileFetch()
}

// persist сохраняет невыгруженные записи и время синхронизации после перехода.
// Хранилище очищается только успешной выгрузкой или сбросом состояния:
// загрузка страницы лишь переносит локальные записи в UnsyncedRoads.
func (s *Store) persist(prev, next State, e Event) {
	changed := !sameRoads(prev.LocalSavedRoads, next.LocalSavedRoads) ||
		!sameRoads(prev.UnsyncedRoads, next.UnsyncedRoads)
	if _, ok := e.(FetchSucceeded); ok {
		changed = false
	}

	if s.pending != nil && changed {
		pending := next.Pending()
		if err := s.pending.SavePendingRoads(s.ctx, pending); err != nil {
			s.logger.Warn("Failed to persist pending roads",
				"count", len(pending),
				"error", err)
		}
	}

	if _, ok := e.(SyncSucceeded); ok && s.metadata != nil {
		if err := s.metadata.SaveLastSyncTimestamp(s.ctx, time.Now().Unix()); err != nil {
			s.logger.Warn("Failed to save last sync timestamp", "error", err)
		}
	}
}

func (s *Store) restorePending() {
	if s.pending == nil || s.state.PendingCount() > 0 {
		return
	}

	roads, err := s.pending.GetPendingRoads(s.ctx)
	if err != nil {
		s.logger.Warn("Failed to restore pending roads", "error", err)
		return
	}
	if len(roads) == 0 {
		return
	}

	s.logger.Info("Restored pending roads", "count", len(roads))
	s.dispatch(PendingRestored{Roads: roads})
}

func (s *Store) removeObserver(id int) {
	kept := make([]observer, 0, len(s.observers))
	for _, o := range s.observers {
		if o.id != id {
			kept = append(kept, o)
		}
	}
	s.observers = kept
}

func (s *Store) shutdown() {
	s.started = false
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	s.unsubscribe = nil

	if s.fetch != nil {
		s.fetch.cancel()
		s.fetch = nil
	}
	if s.syncing != nil {
		s.syncing.cancel()
		s.syncing = nil
	}
	s.teardownLive()
	s.observers = nil
}

// sameRoads сравнивает срезы по идентичности: Reduce никогда не меняет срез на месте
func sameRoads(a, b []models.Road) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
