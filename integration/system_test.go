//go:build integration
// +build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"ItemStore/internal/items"
	"ItemStore/internal/loadgen"
)

// Runs the load client against the fully wired handler in-process and
// checks the store invariants survive concurrent traffic.
func TestSystem_LoadRun(t *testing.T) {
	s := &items.Server{Store: items.NewMemStore(), Log: zap.NewNop()}
	h := items.NewHandler(s, items.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "items",
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	r := loadgen.New(loadgen.Config{
		BaseURL:  ts.URL,
		Users:    8,
		Duration: 2 * time.Second,
		MinWait:  5 * time.Millisecond,
		MaxWait:  15 * time.Millisecond,
		Log:      zap.NewNop(),
	})

	stats := r.Run(context.Background())

	if stats.Requests() == 0 {
		t.Fatalf("no requests issued")
	}
	if f := stats.Failures(); f != 0 {
		t.Fatalf("failures=%d of %d requests: %+v", f, stats.Requests(), stats.ByTask)
	}

	resp, err := http.Get(ts.URL + "/api/items")
	if err != nil {
		t.Fatalf("final list: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("final list status=%d", resp.StatusCode)
	}

	var all []items.Item
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) < 3 {
		t.Fatalf("len=%d, fixture rows missing", len(all))
	}

	// Ids must be unique and strictly increasing in insertion order.
	prev := 0
	for _, it := range all {
		if it.ID <= prev {
			t.Fatalf("ids out of order or duplicated: %+v", all)
		}
		prev = it.ID
	}
}
