package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/PhucNguyen204/dictcount/internal/dicts"
	"github.com/PhucNguyen204/dictcount/internal/store"
	"github.com/PhucNguyen204/dictcount/pkg/automaton"
)

type AppServer struct {
	store *store.Store // nil => không persist
	opts  automaton.CountOptions
	limit int
	mu    sync.RWMutex // protects dicts
	dicts map[string]dicts.Dictionary
	stats counters
}

type counters struct {
	requests    atomic.Int64
	scanned     atomic.Int64
	prefiltered atomic.Int64
	total       atomic.Int64
}

func NewAppServer(st *store.Store, opts automaton.CountOptions, resultLimit int) *AppServer {
	if resultLimit <= 0 {
		resultLimit = 200
	}
	return &AppServer{store: st, opts: opts, limit: resultLimit, dicts: make(map[string]dicts.Dictionary)}
}

// RegisterRoutes wires HTTP handlers.
func (s *AppServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/count", s.handleCount)
	mux.HandleFunc("/api/v1/dictionaries", s.handleDictionaries)
	mux.HandleFunc("/api/v1/results", s.handleListResults)
}

// Router returns a mux with every route registered.
func (s *AppServer) Router() *http.ServeMux {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

func (s *AppServer) dictionary(name string) (dicts.Dictionary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dicts[name]
	return d, ok
}

// SetDictionaries replaces the in-memory dictionary set.
func (s *AppServer) SetDictionaries(ds []dicts.Dictionary) {
	m := make(map[string]dicts.Dictionary, len(ds))
	for _, d := range ds {
		m[d.Name] = d
	}
	s.mu.Lock()
	s.dicts = m
	s.mu.Unlock()
}

func (s *AppServer) dictionaryNames() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.dicts))
	for n := range s.dicts {
		names = append(names, n)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

// ---- Handlers ----

func (s *AppServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *AppServer) handleStats(w http.ResponseWriter, r *http.Request) {
	type statsResp struct {
		Requests     int64 `json:"requests"`
		TextsScanned int64 `json:"texts_scanned"`
		Prefiltered  int64 `json:"prefiltered"`
		TotalCount   int64 `json:"total_count"`
		Dictionaries int   `json:"dictionaries"`
		Persistence  bool  `json:"persistence"`
	}
	writeJSON(w, http.StatusOK, statsResp{
		Requests:     s.stats.requests.Load(),
		TextsScanned: s.stats.scanned.Load(),
		Prefiltered:  s.stats.prefiltered.Load(),
		TotalCount:   s.stats.total.Load(),
		Dictionaries: len(s.dictionaryNames()),
		Persistence:  s.store != nil,
	})
}

type countRequest struct {
	Patterns   []string `json:"patterns"`
	Dictionary string   `json:"dictionary"`
	Text       string   `json:"text"`
	// nil => theo cấu hình server
	Precheck *bool `json:"precheck"`
}

type countResponse struct {
	Count        int                        `json:"count"`
	Text         string                     `json:"text"`
	Nodes        int                        `json:"nodes"`
	Prefiltered  bool                       `json:"prefiltered"`
	PatternCount int                        `json:"pattern_count"`
	Matches      []automaton.PrefilterMatch `json:"matches,omitempty"`
	ResultID     int64                      `json:"result_id,omitempty"`
}

// handleCount builds a fresh automaton per request, so concurrent requests
// never share terminal counts.
func (s *AppServer) handleCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.stats.requests.Add(1)

	var req countRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	patterns := req.Patterns
	if req.Dictionary != "" {
		if len(patterns) > 0 {
			writeErr(w, http.StatusBadRequest, errors.New("use either patterns or dictionary, not both"))
			return
		}
		d, ok := s.dictionary(req.Dictionary)
		if !ok {
			writeErr(w, http.StatusNotFound, fmt.Errorf("unknown dictionary %q", req.Dictionary))
			return
		}
		patterns = d.Patterns
	}

	opts := s.opts
	if req.Precheck != nil {
		opts.Precheck = *req.Precheck
	}
	res := automaton.Count(patterns, req.Text, opts)
	s.stats.scanned.Add(1)
	s.stats.total.Add(int64(res.Count))
	if res.Prefiltered {
		s.stats.prefiltered.Add(1)
	}

	resp := countResponse{
		Count:        res.Count,
		Text:         res.Text,
		Nodes:        res.Nodes,
		Prefiltered:  res.Prefiltered,
		PatternCount: len(patterns),
	}
	// matches chỉ có khi prefilter được bật; dùng cùng cấu hình (MaxPatterns...) với Count
	if res.Count > 0 && opts.Prefilter.Enabled {
		resp.Matches = automaton.NewPrefilter(patterns, opts.Prefilter).FindMatches(res.Text)
	}

	if s.store != nil {
		id, err := s.store.InsertResult(r.Context(), store.Result{
			Source:       "api",
			Dictionary:   req.Dictionary,
			PatternCount: len(patterns),
			RawText:      req.Text,
			Text:         res.Text,
			Count:        res.Count,
		})
		if err != nil {
			log.Printf("persist result: %v", err)
		} else {
			resp.ResultID = id
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDictionaries supports GET (list) and POST (replace all).
// POST body: { documents: ["yaml...", "yaml..."] }
func (s *AppServer) handleDictionaries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		type item struct {
			Name         string `json:"name"`
			Description  string `json:"description,omitempty"`
			PatternCount int    `json:"pattern_count"`
		}
		out := []item{}
		for _, n := range s.dictionaryNames() {
			d, _ := s.dictionary(n)
			out = append(out, item{Name: d.Name, Description: d.Description, PatternCount: len(d.Patterns)})
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req struct {
			Documents []string `json:"documents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, err)
			return
		}
		var all []dicts.Dictionary
		for i, doc := range req.Documents {
			ds, err := dicts.LoadDocuments([]byte(doc))
			if err != nil {
				writeErr(w, http.StatusBadRequest, fmt.Errorf("document %d: %w", i, err))
				return
			}
			for _, d := range ds {
				if d.Name == "" {
					writeErr(w, http.StatusBadRequest, fmt.Errorf("document %d: dictionary without name", i))
					return
				}
			}
			all = append(all, ds...)
		}
		if err := s.PersistDictionaries(r.Context(), all); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		s.SetDictionaries(all)
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "dictionaries": len(all)})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *AppServer) handleListResults(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeErr(w, http.StatusServiceUnavailable, store.ErrNoDB)
		return
	}
	limit := s.limit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	out, err := s.store.ListResults(r.Context(), limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- Helpers ----

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON error: %v", err)
	}
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"error": err.Error()})
}
