package roads

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/roadsync/internal/client/storage"
	"github.com/iudanet/roadsync/internal/models"
)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

// signal наблюдаемое значение для подмены источников токена и сети
type signal[T comparable] struct {
	subs  map[int]func(T)
	value T
	next  int
	mu    sync.Mutex
}

func (s *signal[T]) get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *signal[T]) set(v T) {
	s.mu.Lock()
	s.value = v
	fns := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

func (s *signal[T]) subscribe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]func(T))
	}
	s.next++
	id := s.next
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

type fakeAuth struct{ signal[string] }

func (f *fakeAuth) Credential() string { return f.get() }
func (f *fakeAuth) SubscribeCredential(fn func(string)) func() {
	return f.subscribe(fn)
}

type fakeNetwork struct{ signal[bool] }

func (f *fakeNetwork) Connected() bool { return f.get() }
func (f *fakeNetwork) SubscribeConnectivity(fn func(bool)) func() {
	return f.subscribe(fn)
}

type fakeChannel struct {
	closed atomic.Int32
}

func (c *fakeChannel) Close() error {
	c.closed.Add(1)
	return nil
}

func newAuth(token string) *fakeAuth {
	a := &fakeAuth{}
	a.value = token
	return a
}

func newNetwork(connected bool) *fakeNetwork {
	n := &fakeNetwork{}
	n.value = connected
	return n
}

// recorder собирает все состояния, которые видят наблюдатели
type recorder struct {
	states []State
	mu     sync.Mutex
}

func (r *recorder) observe(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) any(cond func(State) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.states {
		if cond(s) {
			return true
		}
	}
	return false
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestGateway возвращает мок с пустым списком и live-каналом по умолчанию
func newTestGateway() *GatewayMock {
	return &GatewayMock{
		ListRoadsFunc: func(ctx context.Context, q ListQuery) (*Page, error) {
			return &Page{Page: q.Page}, nil
		},
		OpenLiveChannelFunc: func(ctx context.Context, credential string, onMessage func(LiveMessage)) (LiveChannel, error) {
			return &fakeChannel{}, nil
		},
	}
}

func newTestStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = setupTestLogger()
	}
	s, err := NewStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func await(t *testing.T, s *Store, cond func(State) bool) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	st, err := s.Await(ctx, cond)
	require.NoError(t, err, "state never matched, last: %+v", st)
	return st
}

func TestNewStore_RequiresCollaborators(t *testing.T) {
	_, err := NewStore(Config{Credentials: newAuth(""), Connectivity: newNetwork(true)})
	assert.Error(t, err)

	_, err = NewStore(Config{Gateway: newTestGateway(), Connectivity: newNetwork(true)})
	assert.Error(t, err)

	_, err = NewStore(Config{Gateway: newTestGateway(), Credentials: newAuth("")})
	assert.Error(t, err)
}

func TestStore_StartFetchesFirstPage(t *testing.T) {
	gw := newTestGateway()
	gw.ListRoadsFunc = func(ctx context.Context, q ListQuery) (*Page, error) {
		return &Page{Roads: []models.Road{{ID: 1, Name: "Main St", Version: 1}}, Page: 1, More: true}, nil
	}

	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: newNetwork(true)})
	require.NoError(t, s.Start(context.Background()))

	st := await(t, s, func(st State) bool { return !st.Fetching && len(st.Roads) == 1 })
	assert.Equal(t, "Main St", st.Roads[0].Name)
	assert.True(t, st.More)

	calls := gw.ListRoadsCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, ListQuery{Page: 1}, calls[0].Q)

	require.Eventually(t, func() bool { return len(gw.OpenLiveChannelCalls()) == 1 }, waitFor, tick)
	assert.Equal(t, "token", gw.OpenLiveChannelCalls()[0].Credential)

	assert.Error(t, s.Start(context.Background()), "second start must fail")
}

func TestStore_StartWithoutCredential(t *testing.T) {
	gw := newTestGateway()
	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth(""), Connectivity: newNetwork(true)})
	require.NoError(t, s.Start(context.Background()))

	assert.Equal(t, InitialState(), s.Snapshot())
	assert.Empty(t, gw.ListRoadsCalls())
	assert.Never(t, func() bool { return len(gw.OpenLiveChannelCalls()) > 0 }, 100*time.Millisecond, tick)
}

func TestStore_StartOffline(t *testing.T) {
	gw := newTestGateway()
	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: newNetwork(false)})
	require.NoError(t, s.Start(context.Background()))

	st := s.Snapshot()
	assert.False(t, st.Fetching)
	assert.Empty(t, gw.ListRoadsCalls())
	assert.Empty(t, gw.OpenLiveChannelCalls())
}

func TestStore_FetchFailure(t *testing.T) {
	gw := newTestGateway()
	gw.ListRoadsFunc = func(ctx context.Context, q ListQuery) (*Page, error) {
		return nil, errors.New("connection refused")
	}

	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: newNetwork(true)})
	require.NoError(t, s.Start(context.Background()))

	st := await(t, s, func(st State) bool { return st.FetchingError != nil })
	assert.False(t, st.Fetching)
	var fetchErr *FetchError
	assert.ErrorAs(t, st.FetchingError, &fetchErr)
}

func TestStore_StaleFetchDropped(t *testing.T) {
	release := make(chan struct{})
	gw := newTestGateway()
	gw.ListRoadsFunc = func(ctx context.Context, q ListQuery) (*Page, error) {
		if q.Page == 1 {
			<-release
			return &Page{Roads: []models.Road{{ID: 1, Name: "Stale"}}, Page: 1, More: true}, nil
		}
		return &Page{Roads: []models.Road{{ID: 2, Name: "Fresh"}}, Page: 2, More: false}, nil
	}

	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: newNetwork(true)})
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Snapshot().Fetching)

	require.NoError(t, s.SetPage(context.Background(), 2))
	await(t, s, func(st State) bool { return !st.Fetching && len(st.Roads) == 1 })

	close(release)
	assert.Never(t, func() bool {
		_, found := s.Snapshot().Find(1)
		return found
	}, 200*time.Millisecond, tick)
	assert.Equal(t, []int64{2}, ids(s.Snapshot().Roads))
}

func TestStore_FilterChangeRefetches(t *testing.T) {
	release := make(chan struct{})
	gw := newTestGateway()
	gw.ListRoadsFunc = func(ctx context.Context, q ListQuery) (*Page, error) {
		if q.Name == "" {
			return &Page{Roads: []models.Road{{ID: 1, Name: "Main"}, {ID: 2, Name: "Side"}}, Page: 1, More: false}, nil
		}
		<-release
		return &Page{Roads: []models.Road{{ID: 1, Name: "Main"}}, Page: 1, More: false}, nil
	}

	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: newNetwork(true)})
	require.NoError(t, s.Start(context.Background()))
	await(t, s, func(st State) bool { return len(st.Roads) == 2 })

	require.NoError(t, s.SetNameFilter(context.Background(), "Main"))
	st := s.Snapshot()
	assert.Empty(t, st.Roads)
	assert.True(t, st.Fetching)
	assert.Equal(t, 1, st.Page)

	close(release)
	st = await(t, s, func(st State) bool { return !st.Fetching })
	require.Len(t, st.Roads, 1)
	assert.True(t, st.Roads[0].Complies(st.Filter()))

	calls := gw.ListRoadsCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, ListQuery{Page: 1, Name: "Main"}, calls[1].Q)

	require.NoError(t, s.SetOnlyOperational(context.Background(), true))
	await(t, s, func(st State) bool { return !st.Fetching })
	calls = gw.ListRoadsCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, ListQuery{Page: 1, Name: "Main", OnlyOperational: true}, calls[2].Q)
}

func TestStore_NextPage(t *testing.T) {
	gw := newTestGateway()
	gw.ListRoadsFunc = func(ctx context.Context, q ListQuery) (*Page, error) {
		return &Page{Roads: []models.Road{{ID: int64(q.Page), Name: "Road"}}, Page: q.Page, More: q.Page < 2}, nil
	}

	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: newNetwork(true)})
	require.NoError(t, s.Start(context.Background()))
	await(t, s, func(st State) bool { return !st.Fetching && len(st.Roads) == 1 })

	require.NoError(t, s.NextPage(context.Background()))
	st := await(t, s, func(st State) bool { return !st.Fetching && len(st.Roads) == 2 })
	assert.False(t, st.More)
	assert.Equal(t, 2, st.Page)

	// Страниц больше нет
	require.NoError(t, s.NextPage(context.Background()))
	assert.Equal(t, 2, s.Snapshot().Page)
}

func TestStore_SaveCreateFailureKeepsRoadLocally(t *testing.T) {
	pending := &storage.PendingStorageMock{
		GetPendingRoadsFunc: func(ctx context.Context) ([]models.Road, error) { return nil, nil },
		SavePendingRoadsFunc: func(ctx context.Context, roads []models.Road) error {
			return nil
		},
	}
	gw := newTestGateway()
	gw.CreateRoadFunc = func(ctx context.Context, road models.Road) (*models.Road, error) {
		return nil, errors.New("network unreachable")
	}

	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: newNetwork(false), Pending: pending})
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Save(context.Background(), models.Road{Name: "New Rd"}))

	st := s.Snapshot()
	require.Len(t, st.LocalSavedRoads, 1)
	assert.Equal(t, int64(-1), st.LocalSavedRoads[0].ID)
	assert.Equal(t, "New Rd", st.LocalSavedRoads[0].Name)
	assert.True(t, st.LocalSavedRoads[0].CreatedOnFrontend)
	assert.False(t, st.Saving)
	assert.NoError(t, st.SavingError)

	saves := pending.SavePendingRoadsCalls()
	require.NotEmpty(t, saves)
	assert.Equal(t, []int64{-1}, ids(saves[len(saves)-1].Roads))
}

func TestStore_SaveUpdatesPersistedRoad(t *testing.T) {
	gw := newTestGateway()
	gw.ListRoadsFunc = func(ctx context.Context, q ListQuery) (*Page, error) {
		return &Page{Roads: []models.Road{{ID: 5, Name: "Main", Version: 1}}, Page: 1}, nil
	}
	gw.UpdateRoadFunc = func(ctx context.Context, road models.Road) (*models.Road, error) {
		road.Version++
		return &road, nil
	}

	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: newNetwork(true)})
	require.NoError(t, s.Start(context.Background()))
	st := await(t, s, func(st State) bool { return len(st.Roads) == 1 })

	edited := st.Roads[0]
	edited.Name = "Main renamed"
	require.NoError(t, s.Save(context.Background(), edited))

	require.Len(t, gw.UpdateRoadCalls(), 1)
	got, ok := s.Snapshot().Find(5)
	require.True(t, ok)
	assert.Equal(t, "Main renamed", got.Name)
	assert.Equal(t, int64(2), got.Version)
	assert.False(t, s.Snapshot().Saving)
}

func TestStore_SaveLocalRoadCreatesOnServer(t *testing.T) {
	var attempts atomic.Int32
	gw := newTestGateway()
	gw.CreateRoadFunc = func(ctx context.Context, road models.Road) (*models.Road, error) {
		if attempts.Add(1) == 1 {
			return nil, errors.New("offline")
		}
		road.ID = 42
		road.Version = 1
		return &road, nil
	}

	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: newNetwork(false)})
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Save(context.Background(), models.Road{Name: "Bridge"}))
	local := s.Snapshot().LocalSavedRoads[0]

	require.NoError(t, s.Save(context.Background(), local))

	calls := gw.CreateRoadCalls()
	require.Len(t, calls, 2)
	assert.Zero(t, calls[1].Road.ID)
	assert.False(t, calls[1].Road.CreatedOnFrontend)

	st := s.Snapshot()
	assert.Empty(t, st.LocalSavedRoads)
	assert.Equal(t, []int64{42}, ids(st.Roads))
}

func TestStore_SaveValidationError(t *testing.T) {
	gw := newTestGateway()
	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: newNetwork(false)})
	require.NoError(t, s.Start(context.Background()))

	err := s.Save(context.Background(), models.Road{Name: "  "})
	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)

	st := s.Snapshot()
	assert.ErrorAs(t, st.SavingError, &saveErr)
	assert.False(t, st.Saving)
	assert.Empty(t, gw.CreateRoadCalls())
}

func TestStore_SaveResultDroppedAfterLogout(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gw := newTestGateway()
	gw.CreateRoadFunc = func(ctx context.Context, road models.Road) (*models.Road, error) {
		close(entered)
		<-release
		return nil, errors.New("offline")
	}
	auth := newAuth("token")

	s := newTestStore(t, Config{Gateway: gw, Credentials: auth, Connectivity: newNetwork(false)})
	require.NoError(t, s.Start(context.Background()))

	saved := make(chan error, 1)
	go func() { saved <- s.Save(context.Background(), models.Road{Name: "Late"}) }()

	<-entered
	auth.set("")
	await(t, s, func(st State) bool { return !st.Saving })
	close(release)

	require.NoError(t, <-saved)
	assert.Empty(t, s.Snapshot().LocalSavedRoads)
}

func TestStore_ReconnectUploadsPending(t *testing.T) {
	pending := &storage.PendingStorageMock{
		GetPendingRoadsFunc: func(ctx context.Context) ([]models.Road, error) {
			return []models.Road{
				{ID: -2, Name: "A", CreatedOnFrontend: true},
				{ID: -1, Name: "B", CreatedOnFrontend: true},
			}, nil
		},
		SavePendingRoadsFunc: func(ctx context.Context, roads []models.Road) error { return nil },
	}
	metadata := &storage.MetadataStorageMock{
		SaveLastSyncTimestampFunc: func(ctx context.Context, timestamp int64) error { return nil },
	}
	gw := newTestGateway()
	gw.BulkUploadFunc = func(ctx context.Context, roads []models.Road) ([]models.Road, error) {
		return []models.Road{{ID: 10, Name: "A", Version: 1}, {ID: 11, Name: "B", Version: 1}}, nil
	}
	network := newNetwork(false)
	rec := &recorder{}

	s := newTestStore(t, Config{
		Gateway:      gw,
		Credentials:  newAuth("token"),
		Connectivity: network,
		Pending:      pending,
		Metadata:     metadata,
	})
	require.NoError(t, s.Start(context.Background()))
	assert.Len(t, s.Snapshot().LocalSavedRoads, 2)
	s.Subscribe(rec.observe)

	network.set(true)

	await(t, s, func(st State) bool { return !st.Fetching && len(st.LocalSavedRoads) == 0 })
	assert.True(t, rec.any(func(st State) bool {
		return len(st.LocalSavedRoads) == 0 && assert.ObjectsAreEqual([]int64{10, 11}, ids(st.Roads))
	}))

	uploads := gw.BulkUploadCalls()
	require.Len(t, uploads, 1)
	assert.Equal(t, []int64{-2, -1}, ids(uploads[0].Roads))
	assert.Len(t, metadata.SaveLastSyncTimestampCalls(), 1)

	saves := pending.SavePendingRoadsCalls()
	require.NotEmpty(t, saves)
	assert.Empty(t, saves[len(saves)-1].Roads)

	// После выгрузки список перезагружается
	require.Eventually(t, func() bool { return len(gw.ListRoadsCalls()) == 1 }, waitFor, tick)
}

func TestStore_ReconnectUploadFailureKeepsPending(t *testing.T) {
	pending := &storage.PendingStorageMock{
		GetPendingRoadsFunc: func(ctx context.Context) ([]models.Road, error) {
			return []models.Road{{ID: -1, Name: "A", CreatedOnFrontend: true}}, nil
		},
		SavePendingRoadsFunc: func(ctx context.Context, roads []models.Road) error { return nil },
	}
	gw := newTestGateway()
	gw.BulkUploadFunc = func(ctx context.Context, roads []models.Road) ([]models.Road, error) {
		return nil, errors.New("server error (500): boom")
	}
	network := newNetwork(false)

	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: network, Pending: pending})
	require.NoError(t, s.Start(context.Background()))

	network.set(true)

	st := await(t, s, func(st State) bool { return st.FetchingError != nil })
	var syncErr *SyncError
	require.ErrorAs(t, st.FetchingError, &syncErr)
	assert.Equal(t, 1, syncErr.Pending)
	assert.Len(t, st.LocalSavedRoads, 1)
	assert.False(t, st.Fetching)
	assert.Empty(t, gw.ListRoadsCalls())
}

// memoryPending хранилище локальных записей в памяти
type memoryPending struct {
	roads []models.Road
	mu    sync.Mutex
}

func (m *memoryPending) storage() *storage.PendingStorageMock {
	return &storage.PendingStorageMock{
		GetPendingRoadsFunc: func(ctx context.Context) ([]models.Road, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return append([]models.Road(nil), m.roads...), nil
		},
		SavePendingRoadsFunc: func(ctx context.Context, roads []models.Road) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.roads = append([]models.Road(nil), roads...)
			return nil
		},
	}
}

func (m *memoryPending) ids() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ids(m.roads)
}

func TestStore_RoadSavedDuringUploadIsUploadedNext(t *testing.T) {
	stored := &memoryPending{roads: []models.Road{{ID: -1, Name: "A", CreatedOnFrontend: true}}}
	entered := make(chan struct{})
	release := make(chan struct{})
	var uploads atomic.Int32

	gw := newTestGateway()
	gw.BulkUploadFunc = func(ctx context.Context, roads []models.Road) ([]models.Road, error) {
		if uploads.Add(1) == 1 {
			close(entered)
			<-release
			return []models.Road{{ID: 10, Name: "A", Version: 1}}, nil
		}
		return []models.Road{{ID: 11, Name: "C", Version: 1}}, nil
	}
	gw.CreateRoadFunc = func(ctx context.Context, road models.Road) (*models.Road, error) {
		return nil, errors.New("server error (503): unavailable")
	}
	gw.ListRoadsFunc = func(ctx context.Context, q ListQuery) (*Page, error) {
		if uploads.Load() < 2 {
			t.Errorf("page %d fetched while roads were still pending", q.Page)
		}
		return &Page{Roads: []models.Road{{ID: 10, Name: "A", Version: 1}, {ID: 11, Name: "C", Version: 1}}, Page: q.Page}, nil
	}

	s := newTestStore(t, Config{
		Gateway:      gw,
		Credentials:  newAuth("token"),
		Connectivity: newNetwork(true),
		Pending:      stored.storage(),
	})
	require.NoError(t, s.Start(context.Background()))
	<-entered

	require.NoError(t, s.Save(context.Background(), models.Road{Name: "C"}))
	assert.Equal(t, []int64{-2, -1}, ids(s.Snapshot().LocalSavedRoads))
	assert.Equal(t, []int64{-2, -1}, stored.ids())

	close(release)

	st := await(t, s, func(st State) bool {
		return !st.Fetching && st.PendingCount() == 0 && len(st.Roads) == 2
	})
	assert.ElementsMatch(t, []int64{10, 11}, ids(st.Roads))
	assert.Empty(t, stored.ids())

	calls := gw.BulkUploadCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, []int64{-1}, ids(calls[0].Roads))
	require.Len(t, calls[1].Roads, 1)
	assert.Equal(t, "C", calls[1].Roads[0].Name)
}

func TestStore_PageFetchAfterFailedUploadKeepsPendingStored(t *testing.T) {
	stored := &memoryPending{roads: []models.Road{{ID: -1, Name: "A", CreatedOnFrontend: true}}}
	var failUpload atomic.Bool
	failUpload.Store(true)

	gw := newTestGateway()
	gw.BulkUploadFunc = func(ctx context.Context, roads []models.Road) ([]models.Road, error) {
		if failUpload.Load() {
			return nil, errors.New("server error (503): unavailable")
		}
		return []models.Road{{ID: 7, Name: "A", Version: 1}}, nil
	}
	gw.ListRoadsFunc = func(ctx context.Context, q ListQuery) (*Page, error) {
		return &Page{Roads: []models.Road{{ID: 1, Name: "Main", Version: 1}}, Page: q.Page}, nil
	}
	network := newNetwork(true)

	s := newTestStore(t, Config{
		Gateway:      gw,
		Credentials:  newAuth("token"),
		Connectivity: network,
		Pending:      stored.storage(),
	})
	require.NoError(t, s.Start(context.Background()))
	await(t, s, func(st State) bool { return st.FetchingError != nil })

	require.NoError(t, s.SetNameFilter(context.Background(), "Main"))
	st := await(t, s, func(st State) bool { return !st.Fetching && len(st.Roads) == 1 })

	// Запись скрыта из списка, но не потеряна
	assert.Empty(t, st.LocalSavedRoads)
	assert.Equal(t, []int64{-1}, ids(st.UnsyncedRoads))
	assert.Equal(t, []int64{-1}, stored.ids())

	failUpload.Store(false)
	network.set(false)
	network.set(true)

	await(t, s, func(st State) bool { return !st.Fetching && st.PendingCount() == 0 })
	assert.Empty(t, stored.ids())

	calls := gw.BulkUploadCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, []int64{-1}, ids(calls[1].Roads))
}

func TestStore_LiveUpdates(t *testing.T) {
	var (
		mu        sync.Mutex
		onMessage func(LiveMessage)
	)
	channel := &fakeChannel{}
	gw := newTestGateway()
	gw.OpenLiveChannelFunc = func(ctx context.Context, credential string, fn func(LiveMessage)) (LiveChannel, error) {
		mu.Lock()
		defer mu.Unlock()
		onMessage = fn
		return channel, nil
	}
	deliver := func(msg LiveMessage) {
		mu.Lock()
		fn := onMessage
		mu.Unlock()
		fn(msg)
	}
	network := newNetwork(true)

	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: network})
	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return len(gw.OpenLiveChannelCalls()) == 1 }, waitFor, tick)
	await(t, s, func(st State) bool { return !st.Fetching })

	deliver(LiveMessage{Event: LiveCreated, Road: models.Road{ID: 9, Name: "Remote", Version: 1}})
	await(t, s, func(st State) bool { return len(st.Roads) == 1 })

	deliver(LiveMessage{Event: LiveUpdated, Road: models.Road{ID: 9, Name: "Remote v2", Version: 2}})
	await(t, s, func(st State) bool { return len(st.Roads) == 1 && st.Roads[0].Name == "Remote v2" })

	// Повтор и устаревшая версия не меняют список
	deliver(LiveMessage{Event: LiveUpdated, Road: models.Road{ID: 9, Name: "Remote v2", Version: 2}})
	deliver(LiveMessage{Event: LiveUpdated, Road: models.Road{ID: 9, Name: "Remote v1", Version: 1}})
	deliver(LiveMessage{Event: "deleted", Road: models.Road{ID: 9}})
	assert.Never(t, func() bool {
		st := s.Snapshot()
		return len(st.Roads) != 1 || st.Roads[0].Name != "Remote v2"
	}, 100*time.Millisecond, tick)

	// Потеря сети закрывает канал ровно один раз
	network.set(false)
	require.Eventually(t, func() bool { return channel.closed.Load() == 1 }, waitFor, tick)

	deliver(LiveMessage{Event: LiveCreated, Road: models.Road{ID: 10, Name: "Ignored"}})
	assert.Never(t, func() bool {
		_, found := s.Snapshot().Find(10)
		return found
	}, 100*time.Millisecond, tick)

	network.set(true)
	require.Eventually(t, func() bool { return len(gw.OpenLiveChannelCalls()) == 2 }, waitFor, tick)

	require.NoError(t, s.Close())
	require.Eventually(t, func() bool { return channel.closed.Load() == 2 }, waitFor, tick)
}

func TestStore_LiveChannelOpenedAfterTeardownIsClosed(t *testing.T) {
	release := make(chan struct{})
	channel := &fakeChannel{}
	gw := newTestGateway()
	gw.OpenLiveChannelFunc = func(ctx context.Context, credential string, fn func(LiveMessage)) (LiveChannel, error) {
		<-release
		return channel, nil
	}
	network := newNetwork(true)

	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: network})
	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return len(gw.OpenLiveChannelCalls()) == 1 }, waitFor, tick)

	network.set(false)
	await(t, s, func(State) bool { return true })
	close(release)

	require.Eventually(t, func() bool { return channel.closed.Load() == 1 }, waitFor, tick)
	assert.Never(t, func() bool { return channel.closed.Load() > 1 }, 100*time.Millisecond, tick)
}

func TestStore_LogoutClearsState(t *testing.T) {
	pending := &storage.PendingStorageMock{
		GetPendingRoadsFunc:  func(ctx context.Context) ([]models.Road, error) { return nil, nil },
		SavePendingRoadsFunc: func(ctx context.Context, roads []models.Road) error { return nil },
	}
	channel := &fakeChannel{}
	gw := newTestGateway()
	gw.ListRoadsFunc = func(ctx context.Context, q ListQuery) (*Page, error) {
		return &Page{Roads: []models.Road{{ID: 1, Name: "A"}}, Page: 1, More: true}, nil
	}
	gw.OpenLiveChannelFunc = func(ctx context.Context, credential string, fn func(LiveMessage)) (LiveChannel, error) {
		return channel, nil
	}
	auth := newAuth("token")

	s := newTestStore(t, Config{Gateway: gw, Credentials: auth, Connectivity: newNetwork(true), Pending: pending})
	require.NoError(t, s.Start(context.Background()))
	await(t, s, func(st State) bool { return len(st.Roads) == 1 })
	require.Eventually(t, func() bool { return len(gw.OpenLiveChannelCalls()) == 1 }, waitFor, tick)

	auth.set("")
	st := await(t, s, func(st State) bool { return len(st.Roads) == 0 })
	assert.Equal(t, InitialState(), st)
	require.Eventually(t, func() bool { return channel.closed.Load() == 1 }, waitFor, tick)

	// Новый вход загружает список заново
	auth.set("token-2")
	await(t, s, func(st State) bool { return len(st.Roads) == 1 })
	assert.Len(t, gw.ListRoadsCalls(), 2)
	require.Eventually(t, func() bool { return len(gw.OpenLiveChannelCalls()) == 2 }, waitFor, tick)
	assert.Equal(t, "token-2", gw.OpenLiveChannelCalls()[1].Credential)
}

func TestStore_Close(t *testing.T) {
	gw := newTestGateway()
	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: newNetwork(false)})
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Save(context.Background(), models.Road{Name: "After"}), ErrStoreClosed)
	assert.ErrorIs(t, s.SetPage(context.Background(), 2), ErrStoreClosed)

	_, err := s.Await(context.Background(), func(State) bool { return false })
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestStore_SubscribeReceivesCurrentState(t *testing.T) {
	gw := newTestGateway()
	s := newTestStore(t, Config{Gateway: gw, Credentials: newAuth("token"), Connectivity: newNetwork(false)})

	rec := &recorder{}
	unsubscribe := s.Subscribe(rec.observe)
	assert.True(t, rec.any(func(st State) bool { return st.Page == 1 }))

	unsubscribe()
	unsubscribe()
	require.NoError(t, s.SetPage(context.Background(), 3))
	assert.False(t, rec.any(func(st State) bool { return st.Page == 3 }))
}
