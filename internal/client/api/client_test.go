package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/roadsync/pkg/api"
)

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.BaseURL())
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Empty(t, client.Token())
}

// TestClient_Register проверяет успешную регистрацию
func TestClient_Register(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "inspector@example.com", req.Email)
		assert.Equal(t, "password123", req.Password)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(api.RegisterResponse{
			UserID:  "user-123",
			Message: "Registration successful",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Register(context.Background(), api.RegisterRequest{
		Email:    "inspector@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "user-123", resp.UserID)
	assert.Equal(t, "Registration successful", resp.Message)
}

// TestClient_Errors проверяет разбор ошибок сервера
func TestClient_Errors(t *testing.T) {
	tests := []struct {
		responseBody   interface{}
		name           string
		expectedErrMsg string
		statusCode     int
		unauthorized   bool
	}{
		{
			name:       "User already exists",
			statusCode: http.StatusConflict,
			responseBody: api.ErrorResponse{
				Error:   "Conflict",
				Message: "user already exists",
			},
			expectedErrMsg: "server error (409): user already exists",
		},
		{
			name:       "Invalid credentials",
			statusCode: http.StatusUnauthorized,
			responseBody: api.ErrorResponse{
				Error:   "Unauthorized",
				Message: "invalid credentials",
			},
			expectedErrMsg: "server error (401): invalid credentials",
			unauthorized:   true,
		},
		{
			name:           "Internal server error",
			statusCode:     http.StatusInternalServerError,
			responseBody:   "Internal Server Error",
			expectedErrMsg: "request failed with status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if errResp, ok := tt.responseBody.(api.ErrorResponse); ok {
					_ = json.NewEncoder(w).Encode(errResp)
				} else {
					_, _ = w.Write([]byte(tt.responseBody.(string)))
				}
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.Login(context.Background(), api.LoginRequest{Email: "a@b.co", Password: "password123"})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)

			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.statusCode, httpErr.StatusCode)
			assert.Equal(t, tt.unauthorized, IsUnauthorized(err))
			assert.False(t, IsNetworkError(err))
		})
	}
}

// TestClient_NetworkError проверяет ошибку недоступного сервера
func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url)
	_, err := client.Health(context.Background())

	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.False(t, IsUnauthorized(err))
}

// TestClient_ContextCanceled проверяет отмену запроса
func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL)
	_, err := client.Health(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_ListRoads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/roads", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "2", q.Get(api.QueryPage))
		assert.Equal(t, "Main St", q.Get(api.QueryNameFilter))
		assert.Equal(t, "true", q.Get(api.QueryOnlyOperational))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"roads":[{"id":"12","name":"Main St","lanes":2,"isOperational":true,"version":3}],"page":2,"more":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("secret")

	resp, err := client.ListRoads(context.Background(), 2, "Main St", true)
	require.NoError(t, err)
	require.Len(t, resp.Roads, 1)
	assert.Equal(t, api.RoadID(12), resp.Roads[0].ID)
	assert.Equal(t, int64(3), resp.Roads[0].Version)
	assert.Equal(t, 2, resp.Page)
	assert.True(t, resp.More)
}

func TestClient_CreateAndUpdateRoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var road api.Road
		require.NoError(t, json.NewDecoder(r.Body).Decode(&road))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/road":
			assert.Zero(t, road.ID)
			road.ID = 7
			road.Version = 1
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut && r.URL.Path == "/road/7":
			road.Version++
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(road)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	created, err := client.CreateRoad(context.Background(), api.Road{Name: "Bridge", Lanes: 1})
	require.NoError(t, err)
	assert.Equal(t, api.RoadID(7), created.ID)
	assert.Equal(t, int64(1), created.Version)

	updated, err := client.UpdateRoad(context.Background(), *created)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	_, err = client.UpdateRoad(context.Background(), api.Road{Name: "No id"})
	assert.Error(t, err)
}

func TestClient_SyncRoads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/roads/sync", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), "["), "body must be a bare array: %s", body)

		var req []api.Road
		require.NoError(t, json.Unmarshal(body, &req))
		require.Len(t, req, 2)

		resp := make([]api.Road, 0, len(req))
		for i, road := range req {
			road.ID = api.RoadID(100 + i)
			road.CreatedOnFrontend = false
			resp = append(resp, road)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	roads, err := client.SyncRoads(context.Background(), []api.Road{
		{ID: -1, Name: "A", CreatedOnFrontend: true},
		{ID: -2, Name: "B", CreatedOnFrontend: true},
	})
	require.NoError(t, err)
	require.Len(t, roads, 2)
	assert.Equal(t, api.RoadID(100), roads[0].ID)
	assert.False(t, roads[1].CreatedOnFrontend)
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.HealthResponse{Status: "ok", Version: "1.0.0"})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}

func TestNewClient_WithTimeout(t *testing.T) {
	client := NewClient("http://localhost", WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)

	client = NewClient("http://localhost", WithTimeout(0))
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}
