// Package server exposes the benchmark harness over HTTP: runs are started
// asynchronously, progress is streamed with server-sent events and finished
// summaries are archived when a store is configured.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/alexandrevicenzi/go-sse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"battlesim/internal/bench"
	"battlesim/internal/diag"
	"battlesim/internal/storage"
	"battlesim/internal/targeting"
)

const (
	ProgressChannel = "/events/progress"
	MaxGamesPerRun  = 1000000
)

type Defaults struct {
	Games    int
	Workers  int
	Player   string
	Opponent string
	Poll     time.Duration
}

type Server struct {
	store    *storage.Store
	diag     *diag.Log
	events   *sse.Server
	defaults Defaults

	mu     sync.Mutex
	nextID int64
	jobs   map[int64]*job
	wg     sync.WaitGroup
}

type job struct {
	ID        int64          `json:"id"`
	Status    string         `json:"status"`
	Player    string         `json:"player"`
	Opponent  string         `json:"opponent"`
	Total     int            `json:"total"`
	Completed int            `json:"completed"`
	RunID     int64          `json:"run_id,omitempty"`
	Error     string         `json:"error,omitempty"`
	Summary   *bench.Summary `json:"summary,omitempty"`
}

type ProgressUpdate struct {
	Type            string  `json:"type"`
	JobID           int64   `json:"job_id"`
	Completed       int     `json:"completed"`
	Total           int     `json:"total"`
	PercentComplete float64 `json:"percent_complete"`
	RunID           int64   `json:"run_id,omitempty"`
}

// New builds a server. store may be nil, in which case nothing is archived.
func New(store *storage.Store, d *diag.Log, defaults Defaults) *Server {
	return &Server{
		store:    store,
		diag:     d,
		events:   sse.NewServer(nil),
		defaults: defaults,
		jobs:     map[int64]*job{},
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Mount("/events/", s.events)
	r.Get("/api/strategies", s.handleStrategies)
	r.Post("/api/benchmarks", s.handleStartBenchmark)
	r.Get("/api/benchmarks", s.handleListJobs)
	r.Get("/api/benchmarks/{id}", s.handleGetJob)
	r.Get("/api/runs", s.handleListRuns)
	r.Get("/api/runs/{id}", s.handleGetRun)
	return r
}

// Wait blocks until every started benchmark has finished.
func (s *Server) Wait() { s.wg.Wait() }

// Shutdown waits for running benchmarks and closes the event stream.
func (s *Server) Shutdown() {
	s.Wait()
	s.events.Shutdown()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, targeting.Names())
}

type startRequest struct {
	Games    int    `json:"games"`
	Workers  int    `json:"workers"`
	Seed     int64  `json:"seed"`
	Player   string `json:"player"`
	Opponent string `json:"opponent"`
}

func (s *Server) handleStartBenchmark(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Workers < 0 || req.Workers > bench.MaxWorkers() {
		writeError(w, http.StatusBadRequest, "workers must be between 0 and "+strconv.Itoa(bench.MaxWorkers()))
		return
	}
	if req.Games == 0 {
		req.Games = s.defaults.Games
	}
	if req.Workers == 0 {
		req.Workers = s.defaults.Workers
	}
	if req.Player == "" {
		req.Player = s.defaults.Player
	}
	if req.Opponent == "" {
		req.Opponent = s.defaults.Opponent
	}
	if req.Games <= 0 || req.Games > MaxGamesPerRun {
		writeError(w, http.StatusBadRequest, "games must be between 1 and "+strconv.Itoa(MaxGamesPerRun))
		return
	}
	for _, name := range []string{req.Player, req.Opponent} {
		if _, err := targeting.Lookup(name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	s.mu.Lock()
	s.nextID++
	j := &job{ID: s.nextID, Status: "running", Player: req.Player, Opponent: req.Opponent, Total: req.Games}
	s.jobs[j.ID] = j
	s.mu.Unlock()

	s.wg.Add(1)
	go s.runJob(j, req)

	writeJSON(w, http.StatusAccepted, map[string]int64{"id": j.ID})
}

func (s *Server) runJob(j *job, req startRequest) {
	defer s.wg.Done()

	sum, err := bench.Run(bench.Options{
		Games:        req.Games,
		Workers:      req.Workers,
		Seed:         req.Seed,
		Player:       req.Player,
		Opponent:     req.Opponent,
		Diag:         s.diag,
		PollInterval: s.defaults.Poll,
		Progress: func(done, total int) {
			s.mu.Lock()
			j.Completed = done
			s.mu.Unlock()
			s.publish(ProgressUpdate{Type: "progress", JobID: j.ID, Completed: done, Total: total,
				PercentComplete: 100 * float64(done) / float64(total)})
		},
	})

	var runID int64
	if err == nil && s.store != nil {
		runID, err = s.store.SaveRun(sum)
	}

	s.mu.Lock()
	if err != nil {
		j.Status = "failed"
		j.Error = err.Error()
	} else {
		j.Status = "done"
		j.Completed = sum.Games
		j.RunID = runID
		j.Summary = &sum
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("server: benchmark %d failed: %v", j.ID, err)
		return
	}
	s.publish(ProgressUpdate{Type: "complete", JobID: j.ID, Completed: sum.Games, Total: sum.Games,
		PercentComplete: 100, RunID: runID})
}

func (s *Server) publish(p ProgressUpdate) {
	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("server: marshal progress: %v", err)
		return
	}
	s.events.SendMessage(ProgressChannel, sse.SimpleMessage(string(data)))
}

func (s *Server) snapshot(id int64) (job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return job{}, false
	}
	return *j, true
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]job, 0, len(s.jobs))
	for id := int64(1); id <= s.nextID; id++ {
		if j, ok := s.jobs[id]; ok {
			out = append(out, *j)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	j, ok := s.snapshot(id)
	if !ok {
		writeError(w, http.StatusNotFound, "benchmark not found")
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no run archive configured")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.store.ListRuns(limit)
	if err != nil {
		log.Printf("server: list runs: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []storage.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no run archive configured")
		return
	}
	id, ok := parseID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	run, err := s.store.GetRun(id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		log.Printf("server: get run %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}
