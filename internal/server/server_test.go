package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/eqreplay/internal/fetch"
	"github.com/san-kum/eqreplay/internal/playback"
	"github.com/san-kum/eqreplay/internal/record"
	"github.com/san-kum/eqreplay/internal/session"
)

var testResources = map[string]string{
	"strategy.json": `[
		{"iter": 0, "player": "p1", "SNITCH": 0.5, "SILENCE": 0.5},
		{"iter": 0, "player": "p2", "SNITCH": 0.3, "SILENCE": 0.7},
		{"iter": 1, "player": "p1", "SNITCH": 0.6, "SILENCE": 0.4},
		{"iter": 1, "player": "p2", "SNITCH": 0.2, "SILENCE": 0.8}
	]`,
	"avg_strategy.json": `[
		{"iter": 0, "player": "p1", "SNITCH": 0.5, "SILENCE": 0.5},
		{"iter": 1, "player": "p1", "SNITCH": 0.55, "SILENCE": 0.45}
	]`,
	"payoff.json": `[
		{"iter": 0, "payoffs": [-1, -1]},
		{"iter": 1, "payoffs": [0, -3]}
	]`,
	"history.json": `[
		{"iter": 0, "history": ["SNITCH", "SILENCE"]},
		{"iter": 1, "history": ["SILENCE", "SILENCE"]}
	]`,
}

func newTestServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()

	dir := t.TempDir()
	for name, body := range testResources {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	b, err := fetch.Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("load bundle: %v", err)
	}

	hub := NewHub(playback.New(b.MaxIter()))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := New(Config{Data: dir, CORSOrigins: []string{"*"}}, b, hub)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, hub
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	var health map[string]any
	resp := getJSON(t, ts.URL+"/health", &health)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if health["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", health["status"])
	}
}

func TestResourceRoundTrip(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/data/strategy.json")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var ds record.StrategyDataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		t.Fatalf("served resource does not decode: %v", err)
	}
	if len(ds) != 4 {
		t.Errorf("decoded %d records, want 4", len(ds))
	}
	if got := ds[0].AttrNames(); len(got) != 2 || got[0] != "SNITCH" {
		t.Errorf("attr names = %v", got)
	}
}

func TestResourceUnknownName(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, name := range []string{"secrets.txt", "strategy", "payoff.json.bak"} {
		resp, err := http.Get(ts.URL + "/data/" + name)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET /data/%s status = %d, want 404", name, resp.StatusCode)
		}
	}
}

func TestSummary(t *testing.T) {
	ts, _ := newTestServer(t)

	var sum session.Summary
	getJSON(t, ts.URL+"/api/v1/summary", &sum)

	if sum.MaxIter != 1 {
		t.Errorf("MaxIter = %d, want 1", sum.MaxIter)
	}
	if len(sum.Players) != 2 || sum.Players[0] != "p1" {
		t.Errorf("Players = %v", sum.Players)
	}
	if sum.Family != "prisoner_dilemma" {
		t.Errorf("Family = %q, want prisoner_dilemma", sum.Family)
	}
	if sum.PayoffSlots != 2 {
		t.Errorf("PayoffSlots = %d, want 2", sum.PayoffSlots)
	}
}

func TestStateEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	var st StateMsg
	getJSON(t, ts.URL+"/api/v1/state", &st)
	if st.Iter != 0 || st.State != "stopped" || st.Speed != "1x" {
		t.Errorf("initial state = %+v", st)
	}
}

func TestWebSocketSync(t *testing.T) {
	ts, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var st StateMsg
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatalf("read initial state: %v", err)
	}
	if st.Iter != 0 || st.State != "stopped" {
		t.Errorf("initial state = %+v", st)
	}

	if err := conn.WriteJSON(Command{Action: "seek", Value: 1}); err != nil {
		t.Fatalf("write command: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&st); err != nil {
		t.Fatalf("read state after seek: %v", err)
	}
	if st.Iter != 1 {
		t.Errorf("iter after seek = %d, want 1", st.Iter)
	}
}

func TestWebSocketTwoViewersShareCursor(t *testing.T) {
	ts, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	a, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial a: %v", err)
	}
	defer a.Close()
	b, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial b: %v", err)
	}
	defer b.Close()

	var st StateMsg
	a.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := a.ReadJSON(&st); err != nil {
		t.Fatalf("a initial: %v", err)
	}
	b.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := b.ReadJSON(&st); err != nil {
		t.Fatalf("b initial: %v", err)
	}

	// A command from one viewer lands on both.
	if err := a.WriteJSON(Command{Action: "step"}); err != nil {
		t.Fatalf("a write: %v", err)
	}
	b.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := b.ReadJSON(&st); err != nil {
		t.Fatalf("b read broadcast: %v", err)
	}
	if st.Iter != 1 {
		t.Errorf("viewer b iter = %d, want 1", st.Iter)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("EQREPLAY_ADDR", ":9900")
	t.Setenv("EQREPLAY_DATA", "/tmp/runs")

	cfg := LoadConfigFromEnv()
	if cfg.Addr != ":9900" {
		t.Errorf("Addr = %q, want :9900", cfg.Addr)
	}
	if cfg.Data != "/tmp/runs" {
		t.Errorf("Data = %q, want /tmp/runs", cfg.Data)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins default = %v", cfg.CORSOrigins)
	}
}
