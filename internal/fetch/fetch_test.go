package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/eqreplay/internal/record"
)

var testResources = map[string]string{
	ResourceStrategy: `[
		{"iter": 0, "player": "0", "ROCK": 0.4, "PAPER": 0.4, "SCISSOR": 0.2},
		{"iter": 0, "player": "1", "ROCK": 0.1, "PAPER": 0.2, "SCISSOR": 0.7},
		{"iter": 1, "player": "0", "ROCK": 0.5, "PAPER": 0.3, "SCISSOR": 0.2}
	]`,
	ResourceAvgStrategy: `[
		{"iter": 0, "player": "0", "ROCK": 0.4, "PAPER": 0.4, "SCISSOR": 0.2}
	]`,
	ResourcePayoff: `[
		{"iter": 0, "payoffs": [1, -1]},
		{"iter": 1, "payoffs": [-1, 1]}
	]`,
	ResourceHistory: `[
		{"iter": 0, "history": ["ROCK", "PAPER"]},
		{"iter": 1, "history": ["SCISSOR", "SCISSOR"]}
	]`,
}

func writeDir(t *testing.T, resources map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range resources {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func checkBundle(t *testing.T, b *record.Bundle) {
	t.Helper()
	if got := len(b.Strategies); got != 3 {
		t.Errorf("strategies = %d rows, want 3", got)
	}
	if got := b.MaxIter(); got != 1 {
		t.Errorf("MaxIter = %d, want 1", got)
	}
	names := b.Strategies[0].AttrNames()
	want := []string{"ROCK", "PAPER", "SCISSOR"}
	if len(names) != len(want) {
		t.Fatalf("attr names = %v, want %v", names, want)
	}
	for i, n := range want {
		if names[i] != n {
			t.Errorf("attr %d = %q, want %q (wire order must survive)", i, names[i], n)
		}
	}
	if got := b.Payoffs.Slots(); got != 2 {
		t.Errorf("payoff slots = %d, want 2", got)
	}
	if _, err := b.Histories.At(1); err != nil {
		t.Errorf("history at 1: %v", err)
	}
}

func TestLoadFromDirectory(t *testing.T) {
	dir := writeDir(t, testResources)
	b, err := Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	checkBundle(t, b)
}

func TestLoadFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := testResources[filepath.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	b, err := Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	checkBundle(t, b)
}

func TestLoadMissingStrategyFails(t *testing.T) {
	resources := map[string]string{}
	for name, body := range testResources {
		if name != ResourceStrategy {
			resources[name] = body
		}
	}
	dir := writeDir(t, resources)

	if _, err := Load(context.Background(), dir); err == nil {
		t.Fatal("Load should fail without the strategy resource")
	}
}

func TestLoadOptionalResourcesAbsent(t *testing.T) {
	resources := map[string]string{
		ResourceStrategy:    testResources[ResourceStrategy],
		ResourceAvgStrategy: testResources[ResourceAvgStrategy],
	}
	dir := writeDir(t, resources)

	b, err := Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(b.Payoffs) != 0 || len(b.Histories) != 0 {
		t.Errorf("absent optional resources should load empty, got %d payoffs, %d histories",
			len(b.Payoffs), len(b.Histories))
	}
}

// A resource that exists but does not parse is an error, never an
// empty dataset.
func TestLoadMalformedOptionalResourceFails(t *testing.T) {
	resources := map[string]string{}
	for name, body := range testResources {
		resources[name] = body
	}
	resources[ResourcePayoff] = `[{"iter": "zero", "payoffs": [1]}]`
	dir := writeDir(t, resources)

	_, err := Load(context.Background(), dir)
	if !errors.Is(err, record.ErrBadShape) {
		t.Errorf("err = %v, want ErrBadShape", err)
	}
}

func TestLoadRaggedBundleFails(t *testing.T) {
	resources := map[string]string{}
	for name, body := range testResources {
		resources[name] = body
	}
	resources[ResourceAvgStrategy] = `[
		{"iter": 0, "player": "0", "ROCK": 0.4, "PAPER": 0.4, "SCISSOR": 0.2},
		{"iter": 0, "player": "1", "ROCK": 1.0}
	]`
	dir := writeDir(t, resources)

	_, err := Load(context.Background(), dir)
	if !errors.Is(err, record.ErrRaggedAttributes) {
		t.Errorf("err = %v, want ErrRaggedAttributes", err)
	}
}

func TestLoadServerErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := Load(context.Background(), srv.URL); err == nil {
		t.Fatal("Load should surface non-404 failures")
	}
}

func TestLoadHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := writeDir(t, testResources)
	if _, err := Load(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
