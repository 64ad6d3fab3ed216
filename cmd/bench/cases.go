// README: Smoke and load cases: environment, delivery flow, live tracking and throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"medidrop/internal/infra"
)

const (
	StatusPass    = "PASS"
	StatusFail    = "FAIL"
	StatusPending = "PENDING"
	StatusSkip    = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// deliveryID is set by the create case and reused by later delivery cases.
	deliveryID string
	droneID    string
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:     cfg,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		droneID: "bench-" + uuid.NewString()[:8],
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	startBody := map[string]any{
		"drone_id":   r.droneID,
		"source_lat": 26.1445, "source_lon": 91.7362,
		"dest_lat": 26.6528, "dest_lon": 92.7926,
		"speed_kmph": 3600,
	}

	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration || r.db == nil {
					return Result{Status: StatusSkip, Note: "disabled"}
				}
				applied, err := infra.ApplyMigrations(ctx, r.db, r.cfg.MigrationsDir)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass, Note: strings.Join(applied, ",")}
			},
		},
		{
			Name: "HTTP: health",
			Run: func(ctx context.Context, r *Runner) Result {
				res, _ := r.call(ctx, http.MethodGet, base+"/health", nil, []int{http.StatusOK})
				return res
			},
		},
		{
			Name: "Delivery: create",
			Run: func(ctx context.Context, r *Runner) Result {
				res, body := r.call(ctx, http.MethodPost, base+"/delivery", map[string]any{
					"request_text": "Urgent blood units needed for surgery",
					"area":         r.cfg.Area,
				}, []int{http.StatusCreated})
				if res.Status != StatusPass {
					return res
				}
				var out struct {
					Data struct {
						ID                string `json:"id"`
						RecommendedMethod string `json:"recommended_method"`
						DroneETA          string `json:"drone_eta"`
						RoadETA           string `json:"road_eta"`
					} `json:"data"`
				}
				if err := json.Unmarshal(body, &out); err != nil || out.Data.ID == "" {
					return Result{Status: StatusFail, Latency: res.Latency, Note: "response missing delivery id"}
				}
				r.deliveryID = out.Data.ID
				res.Note = fmt.Sprintf("method=%s drone=%s road=%s", out.Data.RecommendedMethod, out.Data.DroneETA, out.Data.RoadETA)
				return res
			},
		},
		{
			Name: "Delivery: outside region rejected",
			Run: func(ctx context.Context, r *Runner) Result {
				res, _ := r.call(ctx, http.MethodPost, base+"/delivery", map[string]any{
					"request_text": "bandages", "area": "Mumbai",
				}, []int{http.StatusBadRequest})
				return res
			},
		},
		{
			Name: "Delivery: list and get",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.deliveryID == "" {
					return Result{Status: StatusPending, Note: "no delivery created"}
				}
				if res, _ := r.call(ctx, http.MethodGet, base+"/deliveries", nil, []int{http.StatusOK}); res.Status != StatusPass {
					return res
				}
				res, _ := r.call(ctx, http.MethodGet, base+"/deliveries/"+r.deliveryID, nil, []int{http.StatusOK})
				return res
			},
		},
		{
			Name: "Delivery: status flow",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.deliveryID == "" {
					return Result{Status: StatusPending, Note: "no delivery created"}
				}
				url := base + "/deliveries/" + r.deliveryID + "/status"
				if res, _ := r.call(ctx, http.MethodPost, url, map[string]any{"status": "Delivered"}, []int{http.StatusConflict}); res.Status != StatusPass {
					return Result{Status: StatusFail, Note: "queued -> delivered accepted"}
				}
				for _, s := range []string{"Dispatched", "Delivered"} {
					if res, _ := r.call(ctx, http.MethodPost, url, map[string]any{"status": s}, []int{http.StatusOK}); res.Status != StatusPass {
						return Result{Status: StatusFail, Note: s + ": " + res.Note}
					}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Delivery: concurrent dispatch",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentDispatch(ctx, r, base)
			},
		},
		{
			Name: "Tracking: start delivery",
			Run: func(ctx context.Context, r *Runner) Result {
				res, _ := r.call(ctx, http.MethodPost, base+"/start_delivery", startBody, []int{http.StatusOK})
				return res
			},
		},
		{
			Name: "Tracking: progress is monotonic",
			Run: func(ctx context.Context, r *Runner) Result {
				return monotonicProgress(ctx, r, base+"/live_location/"+r.droneID)
			},
		},
		{
			Name: "Tracking: unknown drone",
			Run: func(ctx context.Context, r *Runner) Result {
				res, _ := r.call(ctx, http.MethodGet, base+"/live_location/"+uuid.NewString(), nil, []int{http.StatusNotFound})
				return res
			},
		},
		{
			Name: "Load: live_location",
			Run: func(ctx context.Context, r *Runner) Result {
				return loadTest(ctx, r, http.MethodGet, base+"/live_location/"+r.droneID, nil)
			},
		},
		{
			Name: "Load: start_delivery",
			Run: func(ctx context.Context, r *Runner) Result {
				return loadTest(ctx, r, http.MethodPost, base+"/start_delivery", startBody)
			},
		},
	}
}

// call performs one request and grades it by status code.
func (r *Runner) call(ctx context.Context, method, url string, body any, okStatuses []int) (Result, []byte) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}, nil
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}, nil
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(resp.Body)
	latency := time.Since(start)

	note := fmt.Sprintf("status=%d", resp.StatusCode)
	if contains(okStatuses, resp.StatusCode) {
		return Result{Status: StatusPass, Latency: latency, Note: note}, payload
	}
	return Result{Status: StatusFail, Latency: latency, Note: note}, payload
}

func monotonicProgress(ctx context.Context, r *Runner, url string) Result {
	last := -1.0
	for i := 0; i < 5; i++ {
		res, body := r.call(ctx, http.MethodGet, url, nil, []int{http.StatusOK})
		if res.Status != StatusPass {
			return res
		}
		var pos struct {
			ProgressPercent float64 `json:"progress_percent"`
		}
		if err := json.Unmarshal(body, &pos); err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		if pos.ProgressPercent < last || pos.ProgressPercent > 100 {
			return Result{Status: StatusFail, Note: fmt.Sprintf("progress %.2f after %.2f", pos.ProgressPercent, last)}
		}
		last = pos.ProgressPercent
		time.Sleep(200 * time.Millisecond)
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("last=%.2f%%", last)}
}

// concurrentDispatch creates a delivery and races Dispatched/Cancelled on it;
// exactly one transition may win.
func concurrentDispatch(ctx context.Context, r *Runner, base string) Result {
	res, body := r.call(ctx, http.MethodPost, base+"/delivery", map[string]any{
		"request_text": "routine restock gloves", "area": r.cfg.Area,
	}, []int{http.StatusCreated})
	if res.Status != StatusPass {
		return Result{Status: StatusPending, Note: "create failed: " + res.Note}
	}
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	_ = json.Unmarshal(body, &out)
	url := base + "/deliveries/" + out.Data.ID + "/status"

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := "Dispatched"
			if i%2 == 0 {
				status = "Cancelled"
			}
			if res, _ := r.call(ctx, http.MethodPost, url, map[string]any{"status": status}, []int{http.StatusOK}); res.Status == StatusPass {
				atomic.AddInt32(&wins, 1)
			}
		}(i)
	}
	wg.Wait()

	if wins == 1 {
		return Result{Status: StatusPass, Note: "success=1"}
	}
	return Result{Status: StatusFail, Note: fmt.Sprintf("success=%d", wins)}
}

func loadTest(ctx context.Context, r *Runner, method, url string, payload any) Result {
	var b []byte
	if payload != nil {
		b, _ = json.Marshal(payload)
	}
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					atomic.AddInt64(&errCount, 1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode >= 400 {
					atomic.AddInt64(&errCount, 1)
					continue
				}
				atomic.AddInt64(&count, 1)
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}
