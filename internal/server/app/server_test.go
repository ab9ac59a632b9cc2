package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiclient "github.com/iudanet/roadsync/internal/client/api"
	"github.com/iudanet/roadsync/internal/client/gateway"
	"github.com/iudanet/roadsync/internal/client/roads"
	"github.com/iudanet/roadsync/internal/models"
	"github.com/iudanet/roadsync/pkg/api"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.DBPath = ":memory:"
	cfg.JWTSecret = "test-secret"
	cfg.PageSize = 2
	cfg.AuthRate = 100
	cfg.Version = "test"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Close()
	})
	return srv, ts
}

func loginClient(t *testing.T, baseURL, email string) *apiclient.Client {
	t.Helper()
	ctx := context.Background()

	client := apiclient.NewClient(baseURL)
	_, err := client.Register(ctx, api.RegisterRequest{Email: email, Password: "password123"})
	require.NoError(t, err)

	resp, err := client.Login(ctx, api.LoginRequest{Email: email, Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.UserID)
	client.SetToken(resp.Token)
	return client
}

func TestServer_New_RequiresSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DBPath = ":memory:"

	_, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestServer_Health(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := apiclient.NewClient(ts.URL).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
}

func TestServer_RoadsRequireAuth(t *testing.T) {
	_, ts := newTestServer(t)

	_, err := apiclient.NewClient(ts.URL).ListRoads(context.Background(), 1, "", false)
	require.Error(t, err)
	assert.True(t, apiclient.IsUnauthorized(err))
}

func TestServer_UnknownRouteAndMethod(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/road")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/road/abc")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/nowhere")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RegisterTwice(t *testing.T) {
	_, ts := newTestServer(t)
	loginClient(t, ts.URL, "dup@example.com")

	_, err := apiclient.NewClient(ts.URL).Register(context.Background(), api.RegisterRequest{
		Email:    "dup@example.com",
		Password: "password123",
	})
	var httpErr *apiclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.StatusCode)
}

func TestServer_GatewayRoundTrip(t *testing.T) {
	_, ts := newTestServer(t)
	ctx := context.Background()

	remote := gateway.NewRemote(loginClient(t, ts.URL, "inspector@example.com"), slog.New(slog.NewTextHandler(io.Discard, nil)))

	created, err := remote.CreateRoad(ctx, models.Road{Name: "Main St", Lanes: 2, IsOperational: true})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, int64(1), created.Version)

	created.Name = "Main Street"
	updated, err := remote.UpdateRoad(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Main Street", updated.Name)
	assert.Equal(t, int64(2), updated.Version)

	synced, err := remote.BulkUpload(ctx, []models.Road{
		{ID: -1, Name: "Offline A", CreatedOnFrontend: true},
		{ID: -2, Name: "Offline B", CreatedOnFrontend: true},
	})
	require.NoError(t, err)
	// В ответе только выгруженные записи с id сервера
	require.Len(t, synced, 2)
	assert.Equal(t, "Offline A", synced[0].Name)
	assert.Equal(t, "Offline B", synced[1].Name)
	assert.Greater(t, synced[0].ID, updated.ID)
	assert.Greater(t, synced[1].ID, synced[0].ID)
	assert.False(t, synced[0].CreatedOnFrontend)

	page, err := remote.ListRoads(ctx, roads.ListQuery{Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Roads, 1)
	assert.Equal(t, "Offline B", page.Roads[0].Name)
	assert.False(t, page.More)

	page, err = remote.ListRoads(ctx, roads.ListQuery{Page: 1, Name: "Main", OnlyOperational: true})
	require.NoError(t, err)
	require.Len(t, page.Roads, 1)
	assert.Equal(t, updated.ID, page.Roads[0].ID)

	// Чужие записи недоступны
	other := gateway.NewRemote(loginClient(t, ts.URL, "other@example.com"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	page, err = other.ListRoads(ctx, roads.ListQuery{Page: 1})
	require.NoError(t, err)
	assert.Empty(t, page.Roads)

	_, err = other.UpdateRoad(ctx, *updated)
	var httpErr *apiclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestServer_LiveChannel(t *testing.T) {
	srv, ts := newTestServer(t)
	ctx := context.Background()

	client := loginClient(t, ts.URL, "live@example.com")
	remote := gateway.NewRemote(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	received := make(chan roads.LiveMessage, 4)
	ch, err := remote.OpenLiveChannel(ctx, client.Token(), func(msg roads.LiveMessage) { received <- msg })
	require.NoError(t, err)
	defer ch.Close()

	resp, err := client.Login(ctx, api.LoginRequest{Email: "live@example.com", Password: "password123"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return srv.hub.Connections(resp.UserID) == 1 }, 2*time.Second, 10*time.Millisecond)

	created, err := remote.CreateRoad(ctx, models.Road{Name: "Live Rd"})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, roads.LiveCreated, msg.Event)
		assert.Equal(t, created.ID, msg.Road.ID)
		assert.Equal(t, "Live Rd", msg.Road.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("live notification was not delivered")
	}
}

func TestServer_AuthRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DBPath = ":memory:"
	cfg.JWTSecret = "test-secret"
	cfg.AuthRate = 2

	srv, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer func() {
		ts.Close()
		_ = srv.Close()
	}()

	client := apiclient.NewClient(ts.URL)
	for range 2 {
		_, err := client.Login(context.Background(), api.LoginRequest{Email: "a@b.co", Password: "password123"})
		assert.True(t, apiclient.IsUnauthorized(err))
	}

	_, err = client.Login(context.Background(), api.LoginRequest{Email: "a@b.co", Password: "password123"})
	var httpErr *apiclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)

	// Health не ограничивается
	_, err = client.Health(context.Background())
	assert.NoError(t, err)
}

func TestServer_RunAndShutdown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DBPath = ":memory:"
	cfg.JWTSecret = "test-secret"
	cfg.Addr = "127.0.0.1:0"

	srv, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer func() { _ = srv.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
