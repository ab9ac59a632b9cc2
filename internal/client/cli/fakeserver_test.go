package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/iudanet/roadsync/pkg/api"
)

const fakePageSize = 2

// fakeServer минимальный сервер дорог в памяти
type fakeServer struct {
	*httptest.Server
	roads  []api.Road
	mu     sync.Mutex
	nextID int64
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	s := &fakeServer{nextID: 1}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
	})
	mux.HandleFunc("POST /register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, api.RegisterResponse{UserID: "user-1", Message: "ok"})
	})
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "password123" {
			writeJSON(w, http.StatusUnauthorized, api.ErrorResponse{Error: "Unauthorized", Message: "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, api.TokenResponse{Token: "token-1", UserID: "user-1", ExpiresIn: 3600})
	})
	mux.HandleFunc("GET /roads", s.handleList)
	mux.HandleFunc("POST /road", func(w http.ResponseWriter, r *http.Request) {
		var road api.Road
		if err := json.NewDecoder(r.Body).Decode(&road); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, s.create(road))
	})
	mux.HandleFunc("PUT /road/{id}", func(w http.ResponseWriter, r *http.Request) {
		var road api.Road
		if err := json.NewDecoder(r.Body).Decode(&road); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		updated, ok := s.update(id, road)
		if !ok {
			writeJSON(w, http.StatusNotFound, api.ErrorResponse{Error: "Not Found", Message: "road not found"})
			return
		}
		writeJSON(w, http.StatusOK, updated)
	})
	mux.HandleFunc("POST /roads/sync", func(w http.ResponseWriter, r *http.Request) {
		var req []api.Road
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		created := make([]api.Road, 0, len(req))
		for _, road := range req {
			created = append(created, s.create(road))
		}
		writeJSON(w, http.StatusOK, created)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *fakeServer) create(road api.Road) api.Road {
	s.mu.Lock()
	defer s.mu.Unlock()
	road.ID = api.RoadID(s.nextID)
	road.Version = 1
	road.CreatedOnFrontend = false
	s.nextID++
	s.roads = append(s.roads, road)
	return road
}

func (s *fakeServer) update(id int64, road api.Road) (api.Road, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.roads {
		if int64(s.roads[i].ID) == id {
			road.ID = s.roads[i].ID
			road.Version = s.roads[i].Version + 1
			s.roads[i] = road
			return road, true
		}
	}
	return api.Road{}, false
}

func (s *fakeServer) page(page int, name string, onlyOperational bool) ([]api.Road, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []api.Road
	for _, road := range s.roads {
		if onlyOperational && !road.IsOperational {
			continue
		}
		if !strings.Contains(road.Name, name) {
			continue
		}
		matched = append(matched, road)
	}

	start := (page - 1) * fakePageSize
	if start >= len(matched) {
		return []api.Road{}, false
	}
	end := min(start+fakePageSize, len(matched))
	return matched[start:end], end < len(matched)
}

func (s *fakeServer) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get(api.QueryPage))
	if page < 1 {
		page = 1
	}
	roads, more := s.page(page, q.Get(api.QueryNameFilter), q.Get(api.QueryOnlyOperational) == "true")
	writeJSON(w, http.StatusOK, api.ListRoadsResponse{Roads: roads, Page: page, More: more})
}

func (s *fakeServer) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.roads))
	for _, road := range s.roads {
		names = append(names, road.Name)
	}
	return names
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
