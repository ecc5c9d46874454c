package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/Freeeeeet/court_bot/internal/model"
)

type fakeResponse struct {
	status int
	body   string
	err    error
}

// fakeGateway отвечает по префиксу пути и запоминает запросы
type fakeGateway struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	requests  []fakeRequest
	panicMsg  string
}

type fakeRequest struct {
	path    string
	referer string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{responses: make(map[string]fakeResponse)}
}

func (g *fakeGateway) on(pathPrefix string, status int, body string) *fakeGateway {
	g.responses[pathPrefix] = fakeResponse{status: status, body: body}
	return g
}

func (g *fakeGateway) fail(pathPrefix string, err error) *fakeGateway {
	g.responses[pathPrefix] = fakeResponse{err: err}
	return g
}

func (g *fakeGateway) Get(_ context.Context, path, referer string) (int, []byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests = append(g.requests, fakeRequest{path: path, referer: referer})
	if g.panicMsg != "" {
		panic(g.panicMsg)
	}

	best := ""
	for prefix := range g.responses {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return http.StatusNotFound, nil, nil
	}
	r := g.responses[best]
	if r.err != nil {
		return 0, nil, r.err
	}
	return r.status, []byte(r.body), nil
}

func (g *fakeGateway) lastRequest() fakeRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests[len(g.requests)-1]
}

type fakeParser struct {
	dates []string
	areas []string
	items []model.MenuItem
	err   error
}

func (p *fakeParser) ExtractDatesAndAreas([]byte) ([]string, []string, error) {
	return p.dates, p.areas, p.err
}

func (p *fakeParser) ExtractMenuItems([]byte) ([]model.MenuItem, error) {
	return p.items, p.err
}

// memoryStore TaskStore в памяти для тестов сервисов
type memoryStore struct {
	mu      sync.Mutex
	tasks   []model.BookingTask
	saveErr error
}

func (s *memoryStore) Load(context.Context) ([]model.BookingTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.BookingTask(nil), s.tasks...), nil
}

func (s *memoryStore) Save(_ context.Context, tasks []model.BookingTask) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	added := 0
	for _, t := range tasks {
		exists := false
		for _, cur := range s.tasks {
			if cur.Key() == t.Key() {
				exists = true
				break
			}
		}
		if !exists {
			s.tasks = append(s.tasks, t)
			added++
		}
	}
	return added, nil
}

func (s *memoryStore) DeleteAt(_ context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.tasks) {
		return ErrTaskNotFound
	}
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	return nil
}

func (s *memoryStore) DeleteByKey(_ context.Context, key model.TaskKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.Key() == key {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return ErrTaskNotFound
}

func (s *memoryStore) ScheduledTimes(_ context.Context, area, date string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	times := make(map[string]struct{})
	for _, t := range s.tasks {
		if t.AreaName == area && t.Date == date {
			times[t.Time] = struct{}{}
		}
	}
	return times, nil
}

var errNetwork = errors.New("connection refused")
