// Package fetch loads replay bundles from a producer location. A base
// location is either a directory or an http(s) URL; each resource is
// retrieved whole under its stable name, decoded and validated. There
// is no streaming contract.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/eqreplay/internal/record"
)

// Resource names published by the producer.
const (
	ResourceStrategy    = "strategy.json"
	ResourceAvgStrategy = "avg_strategy.json"
	ResourcePayoff      = "payoff.json"
	ResourceHistory     = "history.json"
)

// Resources lists all resource names in load order.
var Resources = []string{
	ResourceStrategy,
	ResourceAvgStrategy,
	ResourcePayoff,
	ResourceHistory,
}

// IsResource reports whether name is one of the producer resources.
func IsResource(name string) bool {
	for _, r := range Resources {
		if r == name {
			return true
		}
	}
	return false
}

// Loader retrieves replay bundles. The zero value is usable; Client
// overrides the HTTP client used for URL sources.
type Loader struct {
	Client *http.Client
}

// Load retrieves a bundle from base with a zero-value Loader.
func Load(ctx context.Context, base string) (*record.Bundle, error) {
	return Loader{}.Load(ctx, base)
}

// Load retrieves the four resources from base and validates the
// bundle. The two strategy resources are required. Payoff and history
// resources are optional: absence yields an empty dataset, but a
// resource that exists and fails to parse is always an error. Bad
// shape never degrades to empty data.
func (l Loader) Load(ctx context.Context, base string) (*record.Bundle, error) {
	get := l.file
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		get = l.get
	}

	b := &record.Bundle{}

	raw, err := get(ctx, base, ResourceStrategy)
	if err != nil {
		return nil, err
	}
	if b.Strategies, err = record.DecodeStrategies(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", ResourceStrategy, err)
	}

	raw, err = get(ctx, base, ResourceAvgStrategy)
	if err != nil {
		return nil, err
	}
	if b.AvgStrategies, err = record.DecodeStrategies(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", ResourceAvgStrategy, err)
	}

	raw, err = get(ctx, base, ResourcePayoff)
	switch {
	case isAbsent(err):
	case err != nil:
		return nil, err
	default:
		if b.Payoffs, err = record.DecodePayoffs(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", ResourcePayoff, err)
		}
	}

	raw, err = get(ctx, base, ResourceHistory)
	switch {
	case isAbsent(err):
	case err != nil:
		return nil, err
	default:
		if b.Histories, err = record.DecodeHistories(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", ResourceHistory, err)
		}
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func isAbsent(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func (l Loader) file(ctx context.Context, base, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(base, name))
}

func (l Loader) get(ctx context.Context, base, name string) ([]byte, error) {
	url := strings.TrimRight(base, "/") + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, fs.ErrNotExist)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
