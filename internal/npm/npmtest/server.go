// Package npmtest provides an in-memory Nginx Proxy Manager API for tests
package npmtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	Email    = "admin@example.com"
	Password = "changeme"
)

var collections = []string{
	"proxy-hosts",
	"streams",
	"redirection-hosts",
	"dead-hosts",
	"access-lists",
	"certificates",
	"users",
}

// enableable collections get enabled=true on create and enable/disable actions
var enableable = map[string]bool{
	"proxy-hosts":       true,
	"streams":           true,
	"redirection-hosts": true,
	"dead-hosts":        true,
}

type cannedResponse struct {
	status int
	body   string
}

// Server is a fake NPM instance. Counters let tests assert how many
// requests a client issued.
type Server struct {
	*httptest.Server

	// TokenTTL is added to Now for the expires field of issued tokens
	TokenTTL time.Duration
	// Expires, when set, is returned verbatim as the token expiry
	Expires string
	Now     func() time.Time

	mu            sync.Mutex
	tokenRequests int
	apiRequests   int
	issued        map[string]bool
	nextID        int
	data          map[string]map[int]map[string]any
	canned        map[string]cannedResponse
	lastRequest   *http.Request
	lastBody      map[string]any
}

// New starts a fake server that is closed when the test ends
func New(t testing.TB) *Server {
	s := &Server{
		TokenTTL: time.Hour,
		Now:      time.Now,
		issued:   make(map[string]bool),
		data:     make(map[string]map[int]map[string]any),
		canned:   make(map[string]cannedResponse),
	}
	for _, c := range collections {
		s.data[c] = make(map[int]map[string]any)
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Respond makes method+path answer with a fixed status and body
func (s *Server) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned[method+" "+path] = cannedResponse{status: status, body: body}
}

// Seed stores an object in a collection and returns its id
func (s *Server) Seed(collection string, obj map[string]any) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(collection, obj)
}

// TokenRequests returns the number of POST /api/tokens calls
func (s *Server) TokenRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenRequests
}

// APIRequests returns the number of requests other than token requests
func (s *Server) APIRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiRequests
}

// TotalRequests returns every request the server received
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenRequests + s.apiRequests
}

// LastRequest returns the most recent non-token request and its decoded JSON body
func (s *Server) LastRequest() (*http.Request, map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRequest, s.lastBody
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.URL.Path == "/api/tokens" && r.Method == http.MethodPost {
		s.tokenRequests++
		s.token(w, r)
		return
	}

	s.apiRequests++
	s.lastRequest = r
	s.lastBody = nil
	if r.Body != nil {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			s.lastBody = body
		}
	}

	auth := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !s.issued[auth] {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if c, ok := s.canned[r.Method+" "+r.URL.Path]; ok {
		w.WriteHeader(c.status)
		w.Write([]byte(c.body))
		return
	}

	if r.URL.Path == "/api/" || r.URL.Path == "/api" {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "OK",
			"version": map[string]int{"major": 2, "minor": 12, "revision": 3},
		})
		return
	}

	collection, id, action, ok := parsePath(r.URL.Path)
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	s.resource(w, r, collection, id, action)
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identity string `json:"identity"`
		Secret   string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Identity != Email || req.Secret != Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token := fmt.Sprintf("token-%d", s.tokenRequests)
	s.issued[token] = true
	expires := s.Expires
	if expires == "" {
		expires = s.Now().Add(s.TokenTTL).UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "expires": expires})
}

// parsePath splits /api/nginx/<collection>[/<id>[/<action>]] and /api/users[/<id>]
func parsePath(path string) (collection string, id int, action string, ok bool) {
	var rest string
	switch {
	case strings.HasPrefix(path, "/api/nginx/"):
		rest = strings.TrimPrefix(path, "/api/nginx/")
	case strings.HasPrefix(path, "/api/users"):
		rest = strings.TrimPrefix(path, "/api/")
	default:
		return "", 0, "", false
	}

	parts := strings.Split(strings.Trim(rest, "/"), "/")
	collection = parts[0]
	if _, known := enableable[collection]; !known && collection != "access-lists" && collection != "certificates" && collection != "users" {
		return "", 0, "", false
	}
	if len(parts) > 1 {
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", 0, "", false
		}
		id = n
	}
	if len(parts) > 2 {
		action = parts[2]
	}
	return collection, id, action, len(parts) <= 3
}

func (s *Server) resource(w http.ResponseWriter, r *http.Request, collection string, id int, action string) {
	items := s.data[collection]

	switch {
	case id == 0 && r.Method == http.MethodGet:
		ids := make([]int, 0, len(items))
		for k := range items {
			ids = append(ids, k)
		}
		sort.Ints(ids)
		list := make([]map[string]any, 0, len(ids))
		for _, k := range ids {
			list = append(list, items[k])
		}
		writeJSON(w, http.StatusOK, list)

	case id == 0 && r.Method == http.MethodPost:
		if s.lastBody == nil {
			writeError(w, http.StatusBadRequest, "data must be object")
			return
		}
		newID := s.insert(collection, s.lastBody)
		writeJSON(w, http.StatusCreated, items[newID])

	case id != 0 && action == "" && r.Method == http.MethodGet:
		obj, ok := items[id]
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Not Found - %d", id))
			return
		}
		writeJSON(w, http.StatusOK, obj)

	case id != 0 && action == "" && r.Method == http.MethodPut:
		obj, ok := items[id]
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Not Found - %d", id))
			return
		}
		for k, v := range s.lastBody {
			obj[k] = v
		}
		obj["modified_on"] = s.Now().UTC().Format(time.RFC3339)
		writeJSON(w, http.StatusOK, obj)

	case id != 0 && action == "" && r.Method == http.MethodDelete:
		if _, ok := items[id]; !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Not Found - %d", id))
			return
		}
		delete(items, id)
		writeJSON(w, http.StatusOK, true)

	case id != 0 && r.Method == http.MethodPost && (action == "enable" || action == "disable") && enableable[collection]:
		obj, ok := items[id]
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Not Found - %d", id))
			return
		}
		obj["enabled"] = action == "enable"
		writeJSON(w, http.StatusOK, true)

	case id != 0 && r.Method == http.MethodPost && action == "renew" && collection == "certificates":
		obj, ok := items[id]
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Not Found - %d", id))
			return
		}
		obj["expires_on"] = s.Now().Add(90 * 24 * time.Hour).UTC().Format(time.RFC3339)
		writeJSON(w, http.StatusOK, obj)

	default:
		writeError(w, http.StatusNotFound, "Not Found")
	}
}

// insert stores obj with server-assigned fields. Caller holds mu.
func (s *Server) insert(collection string, obj map[string]any) int {
	s.nextID++
	id := s.nextID
	stored := make(map[string]any, len(obj)+4)
	for k, v := range obj {
		stored[k] = v
	}
	now := s.Now().UTC().Format(time.RFC3339)
	stored["id"] = id
	stored["created_on"] = now
	stored["modified_on"] = now
	stored["owner_user_id"] = 1
	if enableable[collection] {
		if _, ok := stored["enabled"]; !ok {
			stored["enabled"] = true
		}
	}
	s.data[collection][id] = stored
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"code": status, "message": message}})
}
