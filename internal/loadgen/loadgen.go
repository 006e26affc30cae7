// Package loadgen drives randomized weighted traffic against the item API
// for performance observation. Each simulated user runs in its own
// goroutine, pausing between tasks and sharing the set of item ids it has
// seen, so get/update tasks can target rows that actually exist.
package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Config struct {
	BaseURL  string
	Users    int
	Duration time.Duration

	// Wait bounds between tasks per user. Defaults to 1s..2s.
	MinWait time.Duration
	MaxWait time.Duration

	// Deletes mutate state heavily; off unless asked for.
	WithDelete bool

	Log *zap.Logger
}

type TaskStats struct {
	Requests     int
	Failures     int
	TotalLatency time.Duration
}

type Stats struct {
	ByTask map[string]TaskStats
}

func (s Stats) Requests() int {
	n := 0
	for _, t := range s.ByTask {
		n += t.Requests
	}
	return n
}

func (s Stats) Failures() int {
	n := 0
	for _, t := range s.ByTask {
		n += t.Failures
	}
	return n
}

type task struct {
	name   string
	weight int
	run    func(ctx context.Context) error
}

type Runner struct {
	cfg    Config
	client *http.Client
	tasks  []task
	total  int

	mu       sync.Mutex
	knownIDs []int
	stats    Stats
}

func New(cfg Config) *Runner {
	if cfg.Users <= 0 {
		cfg.Users = 1
	}
	if cfg.MinWait <= 0 {
		cfg.MinWait = 1 * time.Second
	}
	if cfg.MaxWait < cfg.MinWait {
		cfg.MaxWait = cfg.MinWait + 1*time.Second
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	r := &Runner{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		// Seed fixture ids, so early get/update tasks have targets.
		knownIDs: []int{1, 2, 3},
		stats:    Stats{ByTask: map[string]TaskStats{}},
	}

	r.tasks = []task{
		{name: "get_one", weight: 5, run: r.getOne},
		{name: "list_all", weight: 3, run: r.listAll},
		{name: "create", weight: 2, run: r.create},
		{name: "update", weight: 1, run: r.update},
	}
	if cfg.WithDelete {
		r.tasks = append(r.tasks, task{name: "delete", weight: 1, run: r.delete})
	}
	for _, t := range r.tasks {
		r.total += t.weight
	}

	return r
}

// Run blocks until the configured duration elapses or ctx is canceled,
// then returns the aggregated per-task stats.
func (r *Runner) Run(ctx context.Context) Stats {
	if r.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Duration)
		defer cancel()
	}

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Users; i++ {
		wg.Add(1)
		go func(user int) {
			defer wg.Done()
			r.cfg.Log.Info("user started", zap.Int("user", user))
			r.userLoop(ctx)
		}(i)
	}
	wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *Runner) userLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		t := r.pickTask()
		start := time.Now()
		err := t.run(ctx)
		r.record(t.name, time.Since(start), err)

		if err != nil {
			r.cfg.Log.Warn("task failed", zap.String("task", t.name), zap.Error(err))
		}

		if !sleepCtx(ctx, r.waitTime()) {
			return
		}
	}
}

func (r *Runner) pickTask() task {
	n := rand.Intn(r.total)
	for _, t := range r.tasks {
		if n < t.weight {
			return t
		}
		n -= t.weight
	}
	return r.tasks[len(r.tasks)-1]
}

func (r *Runner) waitTime() time.Duration {
	spread := r.cfg.MaxWait - r.cfg.MinWait
	if spread <= 0 {
		return r.cfg.MinWait
	}
	return r.cfg.MinWait + time.Duration(rand.Int63n(int64(spread)))
}

func (r *Runner) record(name string, d time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.stats.ByTask[name]
	t.Requests++
	t.TotalLatency += d
	if err != nil {
		t.Failures++
	}
	r.stats.ByTask[name] = t
}

func (r *Runner) randomKnownID() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.knownIDs) == 0 {
		return 1
	}
	return r.knownIDs[rand.Intn(len(r.knownIDs))]
}

func (r *Runner) addKnownID(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.knownIDs = append(r.knownIDs, id)
}

func (r *Runner) removeKnownID(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, known := range r.knownIDs {
		if known == id {
			r.knownIDs = append(r.knownIDs[:i], r.knownIDs[i+1:]...)
			return
		}
	}
}

func (r *Runner) listAll(ctx context.Context) error {
	resp, err := r.do(ctx, http.MethodGet, "/api/items", nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("list: status %d", resp.StatusCode)
	}
	return nil
}

func (r *Runner) getOne(ctx context.Context) error {
	id := r.randomKnownID()

	resp, err := r.do(ctx, http.MethodGet, fmt.Sprintf("/api/items/%d", id), nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %d: status %d", id, resp.StatusCode)
	}
	return nil
}

func (r *Runner) create(ctx context.Context) error {
	payload := map[string]any{
		"name":  "TestItem_" + uuid.NewString()[:8],
		"price": roundCents(50 + rand.Float64()*450),
	}

	resp, err := r.do(ctx, http.MethodPost, "/api/items", payload)
	if err != nil {
		return err
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusCreated:
		var body struct {
			Item struct {
				ID int `json:"id"`
			} `json:"item"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("create: decode response: %w", err)
		}
		if body.Item.ID > 0 {
			r.addKnownID(body.Item.ID)
		}
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		// Rejected input is an expected outcome, not a failure.
		return nil
	default:
		return fmt.Errorf("create: status %d", resp.StatusCode)
	}
}

func (r *Runner) update(ctx context.Context) error {
	id := r.randomKnownID()
	payload := map[string]any{"price": roundCents(100 + rand.Float64()*900)}

	resp, err := r.do(ctx, http.MethodPut, fmt.Sprintf("/api/items/%d", id), payload)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("update %d: status %d", id, resp.StatusCode)
	}
	return nil
}

func (r *Runner) delete(ctx context.Context) error {
	id := r.randomKnownID()

	resp, err := r.do(ctx, http.MethodDelete, fmt.Sprintf("/api/items/%d", id), nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		r.removeKnownID(id)
		return nil
	case http.StatusNotFound:
		// Another user got there first.
		r.removeKnownID(id)
		return nil
	default:
		return fmt.Errorf("delete %d: status %d", id, resp.StatusCode)
	}
}

func (r *Runner) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return r.client.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func roundCents(v float64) float64 {
	return float64(int(v*100)) / 100
}
