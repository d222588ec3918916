package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"ptask/internal/service"
)

// RecordedRequest is one request seen by APIServer.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          string
}

type cannedFailure struct {
	status int
	body   string
}

// APIServer is an in-memory implementation of the project/task HTTP API.
// Routes under /api require a bearer token issued by login or IssueToken.
type APIServer struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]string // email -> password
	tokens   map[string]string // token -> email
	projects []service.Project
	tasks    map[int64][]service.Task
	nextID   int64
	nextTok  int
	requests []RecordedRequest
	failures map[string]cannedFailure // "METHOD /path" -> response
}

// NewAPIServer starts an APIServer that is closed when the test ends.
func NewAPIServer(t *testing.T) *APIServer {
	t.Helper()

	s := &APIServer{
		users:    make(map[string]string),
		tokens:   make(map[string]string),
		tasks:    make(map[int64][]service.Task),
		failures: make(map[string]cannedFailure),
	}

	r := mux.NewRouter()
	r.Use(s.record, s.inject)
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh-token", s.refresh).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authenticate)
	api.HandleFunc("/projects", s.listProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", s.createProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}", s.getProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}/progress", s.progress).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}/tasks", s.listTasks).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}/tasks", s.createTask).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}/tasks/{taskID}/complete", s.toggleTask).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}/tasks/{taskID}", s.deleteTask).Methods(http.MethodDelete)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddUser registers an account directly.
func (s *APIServer) AddUser(email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = password
}

// IssueToken returns a valid bearer token for email.
func (s *APIServer) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(email)
}

// RevokeTokens invalidates every issued token.
func (s *APIServer) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// AddProject seeds a project.
func (s *APIServer) AddProject(title, description string) service.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p := service.Project{ID: s.nextID, Title: title, Description: description}
	s.projects = append(s.projects, p)
	return p
}

// AddTask seeds a task in a project.
func (s *APIServer) AddTask(projectID int64, title string, completed bool) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	task := service.Task{ID: s.nextID, Title: title, Completed: completed}
	s.tasks[projectID] = append(s.tasks[projectID], task)
	return task
}

// Fail makes every request matching method and path answer with status and
// body instead of the normal handler.
func (s *APIServer) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = cannedFailure{status: status, body: body}
}

// Requests returns a copy of the requests seen so far.
func (s *APIServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests returns how many requests matched method and path.
func (s *APIServer) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (s *APIServer) issueLocked(email string) string {
	s.nextTok++
	tok := fmt.Sprintf("token-%d", s.nextTok)
	s.tokens[tok] = email
	return tok
}

func (s *APIServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body strings.Builder
		if r.Body != nil {
			var raw json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&raw); err == nil {
				body.Write(raw)
			}
			r.Body = readCloser(body.String())
		}
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body.String(),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *APIServer) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if ok {
			w.WriteHeader(f.status)
			fmt.Fprint(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *APIServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.bearerUser(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized", "message": "Full authentication is required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *APIServer) bearerUser(r *http.Request) (string, bool) {
	tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.tokens[tok]
	return email, ok
}

func (s *APIServer) login(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	pw, ok := s.users[creds.Email]
	if !ok || pw != creds.Password {
		s.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}
	tok := s.issueLocked(creds.Email)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, service.LoginResult{AccessToken: tok, TokenType: "Bearer"})
}

func (s *APIServer) register(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[creds.Email]; exists {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "Email address is already taken!")
		return
	}
	s.users[creds.Email] = creds.Password
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, "User registered successfully")
}

func (s *APIServer) refresh(w http.ResponseWriter, r *http.Request) {
	email, ok := s.bearerUser(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid refresh token"})
		return
	}
	s.mu.Lock()
	tok := s.issueLocked(email)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, service.LoginResult{AccessToken: tok, TokenType: "Bearer"})
}

func (s *APIServer) listProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]service.Project, len(s.projects))
	copy(out, s.projects)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *APIServer) createProject(w http.ResponseWriter, r *http.Request) {
	var p service.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.AddProject(p.Title, p.Description))
}

func (s *APIServer) getProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Project not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *APIServer) progress(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Project not found"})
		return
	}
	s.mu.Lock()
	tasks := s.tasks[p.ID]
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	s.mu.Unlock()
	pct := 0
	if len(tasks) > 0 {
		pct = done * 100 / len(tasks)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"projectId":          p.ID,
		"projectTitle":       p.Title,
		"totalTasks":         len(tasks),
		"completedTasks":     done,
		"progressPercentage": pct,
	})
}

func (s *APIServer) listTasks(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Project not found"})
		return
	}
	s.mu.Lock()
	out := append([]service.Task{}, s.tasks[p.ID]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *APIServer) createTask(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Project not found"})
		return
	}
	var nt service.NewTask
	if err := json.NewDecoder(r.Body).Decode(&nt); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.nextID++
	task := service.Task{ID: s.nextID, Title: nt.Title, Description: nt.Description, DueDate: nt.DueDate}
	s.tasks[p.ID] = append(s.tasks[p.ID], task)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, task)
}

func (s *APIServer) toggleTask(w http.ResponseWriter, r *http.Request) {
	projectID, taskID := pathID(r, "id"), pathID(r, "taskID")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks[projectID] {
		if t.ID == taskID {
			s.tasks[projectID][i].Completed = !t.Completed
			writeJSON(w, http.StatusOK, s.tasks[projectID][i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
}

func (s *APIServer) deleteTask(w http.ResponseWriter, r *http.Request) {
	projectID, taskID := pathID(r, "id"), pathID(r, "taskID")
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := s.tasks[projectID]
	for i, t := range tasks {
		if t.ID == taskID {
			s.tasks[projectID] = append(tasks[:i], tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
}

func (s *APIServer) project(r *http.Request) (service.Project, bool) {
	id := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return service.Project{}, false
}

func pathID(r *http.Request, key string) int64 {
	id, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	if err != nil {
		return -1
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type stringReadCloser struct{ *strings.Reader }

func (stringReadCloser) Close() error { return nil }

func readCloser(s string) stringReadCloser {
	return stringReadCloser{strings.NewReader(s)}
}
