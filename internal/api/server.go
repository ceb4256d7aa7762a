package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bazaar-flipper/internal/config"
	"bazaar-flipper/internal/engine"
	"bazaar-flipper/internal/metrics"
)

// HealthChecker reports upstream reachability. *bazaar.Client satisfies it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// Server is the HTTP API over the scanner.
type Server struct {
	cfg      *config.Config
	scanner  *engine.Scanner
	health   HealthChecker
	defaults config.RankOptions
	results  *expirable.LRU[string, *engine.ScanResult] // nil when caching is off
	started  time.Time

	mu       sync.RWMutex
	lastScan *engine.ScanResult
}

// NewServer creates a Server. defaults fill any ranking parameter a request
// leaves out. Rankings are cached for cfg.SnapshotTTL; a zero TTL disables
// the cache.
func NewServer(cfg *config.Config, scanner *engine.Scanner, health HealthChecker, defaults config.RankOptions) *Server {
	s := &Server{
		cfg:      cfg,
		scanner:  scanner,
		health:   health,
		defaults: defaults,
		started:  time.Now(),
	}
	if cfg.SnapshotTTL > 0 && cfg.ResultCacheSize > 0 {
		s.results = expirable.NewLRU[string, *engine.ScanResult](cfg.ResultCacheSize, nil, cfg.SnapshotTTL)
	}
	return s
}

// Handler returns the HTTP handler with all API routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/ranking", s.handleRanking)
	mux.HandleFunc("GET /api/recipe/{symbol}", s.handleRecipe)
	mux.Handle("GET /metrics", promhttp.Handler())
	return requestID(corsMiddleware(metrics.Middleware(mux)))
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result := map[string]interface{}{
		"bazaar_ok":        s.health.HealthCheck(ctx),
		"catalog_products": s.scanner.Catalog.Len(),
		"uptime_seconds":   int64(time.Since(s.started).Seconds()),
	}

	s.mu.RLock()
	last := s.lastScan
	s.mu.RUnlock()
	if last != nil {
		result["last_scan"] = map[string]interface{}{
			"id":            last.ID,
			"ranked":        last.Stats.Ranked,
			"snapshot_time": last.SnapshotTime.Unix(),
		}
	}
	writeJSON(w, result)
}

// rankingResponse is the body of GET /api/ranking.
type rankingResponse struct {
	ID           string              `json:"id"`
	Cached       bool                `json:"cached"`
	SnapshotTime int64               `json:"snapshot_time"`
	Params       config.RankOptions  `json:"params"`
	Stats        engine.RankStats    `json:"stats"`
	Total        int                 `json:"total"`
	Entries      engine.RankedResult `json:"entries"`
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	opts, params, err := s.parseRankQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := fmt.Sprintf("%s|%s|%d", params.CostBasis, params.RevenueBasis, params.MinBuyVolume)
	res, cached := s.cachedResult(key)
	if !cached {
		res, err = s.scanner.Scan(r.Context(), params)
		if err != nil {
			log.Printf("[API] ranking %s failed: %v", key, err)
			writeError(w, scanErrorStatus(err), err.Error())
			return
		}
		s.storeResult(key, res)
	}

	writeJSON(w, rankingResponse{
		ID:           res.ID,
		Cached:       cached,
		SnapshotTime: res.SnapshotTime.Unix(),
		Params:       opts,
		Stats:        res.Stats,
		Total:        len(res.Entries),
		Entries:      res.Entries.Top(opts.TopN),
	})
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	_, params, err := s.parseRankQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	symbol := engine.ItemSymbol(r.PathValue("symbol"))

	b, err := s.scanner.Explain(r.Context(), symbol, params)
	if err != nil {
		writeError(w, scanErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, b)
}

func (s *Server) cachedResult(key string) (*engine.ScanResult, bool) {
	if s.results == nil {
		return nil, false
	}
	res, ok := s.results.Get(key)
	if ok {
		metrics.RankingCacheLookups.WithLabelValues(metrics.ResultHit).Inc()
	} else {
		metrics.RankingCacheLookups.WithLabelValues(metrics.ResultMiss).Inc()
	}
	return res, ok
}

func (s *Server) storeResult(key string, res *engine.ScanResult) {
	if s.results != nil {
		s.results.Add(key, res)
	}
	s.mu.Lock()
	s.lastScan = res
	s.mu.Unlock()
}

// parseRankQuery overlays query parameters on the server defaults:
// cost, revenue, min_volume, limit.
func (s *Server) parseRankQuery(r *http.Request) (config.RankOptions, engine.RankParams, error) {
	q := r.URL.Query()
	opts := s.defaults
	if v := q.Get("cost"); v != "" {
		opts.CostBasis = v
	}
	if v := q.Get("revenue"); v != "" {
		opts.RevenueBasis = v
	}
	if v := q.Get("min_volume"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return opts, engine.RankParams{}, fmt.Errorf("invalid min_volume %q", v)
		}
		opts.MinBuyVolume = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, engine.RankParams{}, fmt.Errorf("invalid limit %q", v)
		}
		opts.TopN = n
	}
	params, err := engine.ParamsFromOptions(opts)
	return opts, params, err
}

func scanErrorStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotCraftable):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrMalformedRecipe), errors.Is(err, engine.ErrUnknownComponent):
		return http.StatusInternalServerError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
