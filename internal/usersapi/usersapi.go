// Package usersapi is an in-memory double of the users Web API the poster targets.
// It records every request so tests can inspect what went over the wire.
package usersapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
)

const (
	// Route is the users collection path.
	Route = "/api/users"

	contentTypeJSON  = "application/json; charset=utf-8"
	defaultFirstName = "John"
	defaultLastName  = "Doe"
)

// User is a stored user.
type User struct {
	ID        string
	Login     string
	FirstName string
	LastName  string
}

// UserDto is the representation returned by GET /api/users/{id}.
type UserDto struct {
	ID            string  `json:"id"`
	Login         string  `json:"login"`
	FullName      string  `json:"fullName"`
	GamesPlayed   int     `json:"gamesPlayed"`
	CurrentGameID *string `json:"currentGameId"`
}

type createUserRequest struct {
	Login     *string `json:"login"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
}

// Request is a recorded inbound request.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type cannedResponse struct {
	status int
	body   string
}

// API serves the create and get-by-id routes of the users API.
type API struct {
	mu       sync.Mutex
	users    map[string]User
	requests []Request
	canned   *cannedResponse
}

// New returns an empty users API.
func New() *API {
	return &API{users: make(map[string]User)}
}

// Respond makes every following request answer with status and body verbatim,
// bypassing the routes. Requests are still recorded.
func (a *API) Respond(status int, body string) {
	a.mu.Lock()
	a.canned = &cannedResponse{status: status, body: body}
	a.mu.Unlock()
}

// Requests returns a copy of the recorded requests in arrival order.
func (a *API) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Request, len(a.requests))
	copy(out, a.requests)
	return out
}

// User returns the stored user with the given id.
func (a *API) User(id string) (User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	u, ok := a.users[id]
	return u, ok
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	a.mu.Lock()
	a.requests = append(a.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	canned := a.canned
	a.mu.Unlock()

	if canned != nil {
		w.WriteHeader(canned.status)
		_, _ = io.WriteString(w, canned.body)
		return
	}

	switch {
	case r.URL.Path == Route && r.Method == http.MethodPost:
		a.create(w, r, body)
	case strings.HasPrefix(r.URL.Path, Route+"/") && r.Method == http.MethodGet:
		a.get(w, strings.TrimPrefix(r.URL.Path, Route+"/"))
	case r.URL.Path == Route || strings.HasPrefix(r.URL.Path, Route+"/"):
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// create answers 406 for a non-JSON Accept, 400 for an empty or undecodable body,
// 422 with a login error for a missing or non-alphanumeric login, and 201 with a
// Location header and the new id otherwise.
func (a *API) create(w http.ResponseWriter, r *http.Request, body []byte) {
	if !acceptsJSON(r.Header.Get("Accept")) {
		w.WriteHeader(http.StatusNotAcceptable)
		return
	}

	var req *createUserRequest
	if len(body) == 0 || json.Unmarshal(body, &req) != nil || req == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if req.Login == nil || *req.Login == "" || !isAlphanumeric(*req.Login) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string][]string{
			"login": {"login must be a non-empty string of letters and digits"},
		})
		return
	}

	user := User{
		ID:        uuid.NewString(),
		Login:     *req.Login,
		FirstName: valueOr(req.FirstName, defaultFirstName),
		LastName:  valueOr(req.LastName, defaultLastName),
	}
	a.mu.Lock()
	a.users[user.ID] = user
	a.mu.Unlock()

	w.Header().Set("Location", Route+"/"+user.ID)
	writeJSON(w, http.StatusCreated, user.ID)
}

func (a *API) get(w http.ResponseWriter, id string) {
	user, ok := a.User(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, UserDto{
		ID:       user.ID,
		Login:    user.Login,
		FullName: user.LastName + " " + user.FirstName,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func acceptsJSON(accept string) bool {
	if accept == "" {
		return true
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch mediaType {
		case "*/*", "application/*", "application/json":
			return true
		}
	}
	return false
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func valueOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
