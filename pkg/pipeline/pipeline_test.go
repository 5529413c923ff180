package pipeline

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/habitmosaic/pkg/cache"
	"github.com/matzehuels/habitmosaic/pkg/errors"
	"github.com/matzehuels/habitmosaic/pkg/observability"
	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	got := ParseFormats(" SVG, png,,json ")
	want := []string{"svg", "png", "json"}
	if len(got) != len(want) {
		t.Fatalf("ParseFormats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseFormats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if got := ParseFormats(""); len(got) != 0 {
		t.Errorf("ParseFormats(\"\") = %v, want empty", got)
	}
}

func TestOptionsDefaults(t *testing.T) {
	days := BlankDays(2024, time.February, 0)
	var opts Options
	if err := opts.ValidateAndSetDefaults(days); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Year != 2024 || opts.Month != time.February {
		t.Errorf("month = %d-%d, want 2024-2", opts.Year, opts.Month)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %vx%v", opts.Width, opts.Height)
	}
	if opts.MinSizePercent != 90 || opts.MaxSizePercent != 110 {
		t.Errorf("percents = %v/%v", opts.MinSizePercent, opts.MaxSizePercent)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	days := BlankDays(2024, time.March, 0)
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"tiny canvas", Options{Width: 20, Height: 300}, errors.ErrCodeInvalidDimensions},
		{"huge canvas", Options{Width: 5000, Height: 300}, errors.ErrCodeInvalidDimensions},
		{"inverted percents", Options{MinSizePercent: 120, MaxSizePercent: 100}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"mismatched month", Options{Month: time.April}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults(days)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}

	empty := Options{}
	if err := empty.ValidateAndSetDefaults(nil); !errors.Is(err, errors.ErrCodeInvalidDate) {
		t.Errorf("no days and no month: err = %v, want INVALID_DATE", err)
	}
}

func TestBlankDays(t *testing.T) {
	days := BlankDays(2023, time.February, 0)
	if len(days) != 28 {
		t.Fatalf("len = %d, want 28", len(days))
	}
	if got := days[27].Date.Format(errors.DayLayout); got != "2023-02-28" {
		t.Errorf("last day = %s", got)
	}
	if got := len(BlankDays(2023, time.February, 10)); got != 10 {
		t.Errorf("explicit count = %d, want 10", got)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	opts := Options{}
	days := BlankDays(2024, time.May, 0)
	opts.SetDefaults(days)
	cells := GenerateCells(days, opts)

	data, err := MarshalLayout(cells)
	if err != nil {
		t.Fatalf("MarshalLayout() error: %v", err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error: %v", err)
	}
	if len(got) != len(cells) {
		t.Fatalf("cells = %d, want %d", len(got), len(cells))
	}
	for i := range cells {
		if got[i].Path != cells[i].Path || len(got[i].Points) != len(cells[i].Points) {
			t.Errorf("cell %d did not survive round trip", i)
		}
	}

	if _, err := UnmarshalLayout([]byte(`{"cells":[{}],"points":[]}`)); err == nil {
		t.Error("expected error for mismatched point rings")
	}
}

// countingCache is an in-memory cache that counts writes.
type countingCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newCountingCache() *countingCache {
	return &countingCache{data: make(map[string][]byte)}
}

func (c *countingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *countingCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *countingCache) Close() error { return nil }

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	days := BlankDays(2024, time.February, 0)
	days[3].Completed = true

	res, err := runner.Execute(context.Background(), days, Options{Formats: []string{"svg", "png", "json"}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Stats.DayCount != 29 || res.Stats.CellCount != 29 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Stats.Completed != 1 {
		t.Errorf("Completed = %d, want 1", res.Stats.Completed)
	}
	for _, f := range []string{"svg", "png", "json"} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if !bytes.HasPrefix(res.Artifacts["png"], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
	if li := res.LabelIndex(); li < 0 || li >= 29 {
		t.Errorf("LabelIndex() = %d", li)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("NullCache should never hit")
	}
}

func TestExecuteCaching(t *testing.T) {
	c := newCountingCache()
	runner := NewRunner(c, nil, nil)
	ctx := context.Background()
	days := BlankDays(2024, time.July, 0)
	opts := Options{Formats: []string{"svg"}, Color: "#E91E63"}

	first, err := runner.Execute(ctx, days, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	second, err := runner.Execute(ctx, days, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v, want both hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached artifact differs from rendered one")
	}

	// Completing a day keeps the layout but re-renders.
	days[10].Completed = true
	third, err := runner.Execute(ctx, days, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !third.CacheInfo.LayoutHit {
		t.Error("toggling a day should reuse the cached layout")
	}
	if third.CacheInfo.RenderHit {
		t.Error("toggling a day should miss the artifact cache")
	}
	if third.LayoutKey != first.LayoutKey {
		t.Error("layout key changed with completion state")
	}
	for i := range first.Cells {
		if first.Cells[i].Path != third.Cells[i].Path {
			t.Fatalf("cell %d path changed after toggle", i)
		}
	}

	// Refresh bypasses reads but still writes.
	before := c.sets
	refreshed := opts
	refreshed.Refresh = true
	res, err := runner.Execute(ctx, days, refreshed)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("refresh should not read from cache")
	}
	if c.sets <= before {
		t.Error("refresh should still write to cache")
	}
}

func TestExecuteCachedLayoutKeepsPoints(t *testing.T) {
	runner := NewRunner(newCountingCache(), nil, nil)
	ctx := context.Background()
	days := BlankDays(2024, time.January, 0)

	if _, err := runner.Execute(ctx, days, Options{Formats: []string{"svg"}}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	res, err := runner.Execute(ctx, days, Options{Formats: []string{"png"}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !res.CacheInfo.LayoutHit {
		t.Fatal("expected layout cache hit")
	}
	for i, c := range res.Cells {
		if len(c.Points) == 0 {
			t.Fatalf("cell %d lost its points through the cache", i)
		}
	}
}

func TestExecuteScopedKeyer(t *testing.T) {
	c := newCountingCache()
	ctx := context.Background()
	days := BlankDays(2024, time.June, 0)

	a := NewRunner(c, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "chain-a"), nil)
	b := NewRunner(c, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "chain-b"), nil)
	if _, err := a.Execute(ctx, days, Options{}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	res, err := b.Execute(ctx, days, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("scoped keyers should not share entries")
	}
}

func TestExecuteInvalid(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), BlankDays(2024, time.June, 0), Options{Width: 10})
	if !errors.Is(err, errors.ErrCodeInvalidDimensions) {
		t.Errorf("err = %v, want INVALID_DIMENSIONS", err)
	}
}

func TestExecuteYear(t *testing.T) {
	runner := NewRunner(newCountingCache(), nil, nil)
	results, err := runner.ExecuteYear(context.Background(), func(m time.Month) []voronoi.Day {
		return BlankDays(2023, m, 0)
	}, Options{Year: 2023, Formats: []string{"json"}})
	if err != nil {
		t.Fatalf("ExecuteYear() error: %v", err)
	}
	if len(results) != 12 {
		t.Fatalf("results = %d, want 12", len(results))
	}
	for i, res := range results {
		m := time.Month(i + 1)
		if res == nil || res.Month != m {
			t.Fatalf("results[%d] = %+v, want month %s", i, res, m)
		}
		if res.Stats.CellCount != len(BlankDays(2023, m, 0)) {
			t.Errorf("%s: cells = %d", m, res.Stats.CellCount)
		}
	}
}

func TestExecuteYearError(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.ExecuteYear(context.Background(), func(m time.Month) []voronoi.Day {
		return BlankDays(2023, m, 0)
	}, Options{Year: 2023, Formats: []string{"gif"}})
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	mu        sync.Mutex
	generated int
	rendered  int
	hits      map[string]int
}

func (h *recordingHooks) OnGenerateComplete(context.Context, int, time.Month, int, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.generated++
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rendered++
}

func (h *recordingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[keyType]++
}

func TestExecuteHooks(t *testing.T) {
	h := &recordingHooks{hits: make(map[string]int)}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	runner := NewRunner(newCountingCache(), nil, nil)
	days := BlankDays(2024, time.September, 0)
	for range 2 {
		if _, err := runner.Execute(context.Background(), days, Options{}); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
	}
	if h.generated != 1 || h.rendered != 1 {
		t.Errorf("generated=%d rendered=%d, want 1/1", h.generated, h.rendered)
	}
	if h.hits["layout"] != 1 || h.hits["artifact"] != 1 {
		t.Errorf("hits = %v", h.hits)
	}
}
