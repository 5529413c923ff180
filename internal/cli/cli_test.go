package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/habitmosaic/pkg/chain"
	"github.com/matzehuels/habitmosaic/pkg/observability"
	"github.com/matzehuels/habitmosaic/pkg/storage"
	"github.com/matzehuels/habitmosaic/pkg/voronoi"
)

type testEnv struct {
	configPath string
	storeDir   string
	cacheDir   string
}

func newTestEnv(t *testing.T, cacheBackend string) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		configPath: filepath.Join(dir, "config.toml"),
		storeDir:   filepath.Join(dir, "chains"),
		cacheDir:   filepath.Join(dir, "cache"),
	}
	cfg := "[store]\nbackend = \"file\"\npath = \"" + env.storeDir + "\"\n\n" +
		"[cache]\nbackend = \"" + cacheBackend + "\"\npath = \"" + env.cacheDir + "\"\n"
	if err := os.WriteFile(env.configPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(observability.Reset)
	return env
}

func (e testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", e.configPath}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func (e testEnv) chains(t *testing.T) []*chain.Chain {
	t.Helper()
	store, err := storage.NewFileStore(e.storeDir)
	if err != nil {
		t.Fatal(err)
	}
	chains, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return chains
}

func (e testEnv) createChain(t *testing.T, name string) *chain.Chain {
	t.Helper()
	if err := e.run(t, "chain", "create", name, "--start", "2024-01-01", "--color", "#2196F3"); err != nil {
		t.Fatalf("chain create: %v", err)
	}
	for _, ch := range e.chains(t) {
		if ch.Name == name {
			return ch
		}
	}
	t.Fatalf("chain %q not stored", name)
	return nil
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"chain", "render", "mosaic", "serve", "tui", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestChainLifecycle(t *testing.T) {
	env := newTestEnv(t, "none")
	ch := env.createChain(t, "Reading")

	if ch.Color != "#2196F3" || chain.DayKey(ch.StartDate) != "2024-01-01" {
		t.Errorf("created chain = %+v", ch)
	}

	// A unique ID prefix is enough to address a chain.
	if err := env.run(t, "chain", "toggle", shortID(ch.ID), "2024-02-05"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := env.run(t, "chain", "toggle", ch.ID, "2024-02-06", "--done"); err != nil {
		t.Fatalf("toggle --done: %v", err)
	}
	got := env.chains(t)[0]
	if !got.Days["2024-02-05"] || !got.Days["2024-02-06"] {
		t.Errorf("days = %v, want 05 and 06 done", got.Days)
	}

	if err := env.run(t, "chain", "toggle", ch.ID, "2024-02-05"); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if _, ok := env.chains(t)[0].Days["2024-02-05"]; ok {
		t.Error("toggled-off day should be removed")
	}

	if err := env.run(t, "chain", "update", ch.ID, "--name", "Reading more", "--end", "2024-12-31"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got = env.chains(t)[0]
	if got.Name != "Reading more" || got.EndDate == nil {
		t.Errorf("updated chain = %+v", got)
	}

	for _, args := range [][]string{{"chain", "list"}, {"chain", "show", ch.ID}} {
		if err := env.run(t, args...); err != nil {
			t.Errorf("%v: %v", args, err)
		}
	}

	export := filepath.Join(t.TempDir(), "chains.yaml")
	if err := env.run(t, "chain", "export", "-o", export); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := env.run(t, "chain", "delete", ch.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := len(env.chains(t)); n != 0 {
		t.Fatalf("chains after delete = %d", n)
	}
	if err := env.run(t, "chain", "import", export); err != nil {
		t.Fatalf("import: %v", err)
	}
	restored := env.chains(t)
	if len(restored) != 1 || restored[0].ID != ch.ID || !restored[0].Days["2024-02-06"] {
		t.Errorf("restored = %+v", restored)
	}
}

func TestChainErrors(t *testing.T) {
	env := newTestEnv(t, "none")
	tests := []struct {
		name string
		args []string
	}{
		{"empty name", []string{"chain", "create", ""}},
		{"bad start", []string{"chain", "create", "X", "--start", "01/02/2024"}},
		{"unknown chain", []string{"chain", "show", "nope"}},
		{"bad toggle date", []string{"chain", "toggle", "nope", "2024-13-01"}},
		{"conflicting flags", []string{"chain", "toggle", "nope", "--done", "--undone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := env.run(t, tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	env := newTestEnv(t, "file")
	ch := env.createChain(t, "Running")
	if err := env.run(t, "chain", "toggle", ch.ID, "2024-02-10"); err != nil {
		t.Fatal(err)
	}

	out := t.TempDir()
	args := []string{"render", ch.ID, "--year", "2024", "--month", "2", "-f", "svg,json", "-o", out, "--day-numbers"}
	if err := env.run(t, args...); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(filepath.Join(out, "2024-02.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "<title>Running · February 2024</title>") {
		t.Error("svg title should name the chain and month")
	}

	data, err := os.ReadFile(filepath.Join(out, "2024-02.json"))
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Cells []struct {
			Date      string `json:"date"`
			Completed bool   `json:"completed"`
		} `json:"cells"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Cells) != 29 {
		t.Errorf("cells = %d, want 29", len(doc.Cells))
	}

	// The second run is served from the file cache.
	if err := env.run(t, args...); err != nil {
		t.Fatalf("cached render: %v", err)
	}
	entries, _ := os.ReadDir(env.cacheDir)
	if len(entries) == 0 {
		t.Error("file cache is empty after render")
	}

	if err := env.run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
}

func TestRenderCommandYear(t *testing.T) {
	env := newTestEnv(t, "none")
	ch := env.createChain(t, "Yoga")

	out := t.TempDir()
	if err := env.run(t, "render", ch.ID, "--year", "2023", "--month", "0", "-f", "json", "-o", out); err != nil {
		t.Fatalf("render year: %v", err)
	}
	for m := time.January; m <= time.December; m++ {
		name := filepath.Join(out, fmt.Sprintf("2023-%02d.json", m))
		if _, err := os.Stat(name); err != nil {
			t.Errorf("missing %s", name)
		}
	}
}

func TestRenderCommandInvalid(t *testing.T) {
	env := newTestEnv(t, "none")
	ch := env.createChain(t, "Yoga")

	tests := [][]string{
		{"render", ch.ID, "--month", "13"},
		{"render", ch.ID, "--month", "2", "-f", "gif"},
		{"render", ch.ID, "--month", "2", "--min-size", "120", "--max-size", "110"},
	}
	for _, args := range tests {
		if err := env.run(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestMosaicCommand(t *testing.T) {
	env := newTestEnv(t, "none")
	out := t.TempDir()
	if err := env.run(t, "mosaic", "--days", "28", "--year", "2025", "--month", "2", "-f", "svg,png", "-o", out); err != nil {
		t.Fatalf("mosaic: %v", err)
	}
	for _, name := range []string{"2025-02.svg", "2025-02.png"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s", name)
		}
	}
}

func TestResolveChain(t *testing.T) {
	ctx := context.Background()
	svc := chain.NewService(storage.NewMemoryStore())
	ch, err := svc.Create(ctx, chain.CreateParams{Name: "Walk"})
	if err != nil {
		t.Fatal(err)
	}

	for _, arg := range []string{ch.ID, ch.ID[:4]} {
		got, err := resolveChain(ctx, svc, arg)
		if err != nil || got.ID != ch.ID {
			t.Errorf("resolveChain(%q) = %v, %v", arg, got, err)
		}
	}
	if _, err := resolveChain(ctx, svc, "zzzz"); err == nil {
		t.Error("expected not found")
	}
}

func TestCalendarRows(t *testing.T) {
	var days []voronoi.Day
	for d := 1; d <= 29; d++ {
		days = append(days, voronoi.Day{Date: time.Date(2024, time.February, d, 0, 0, 0, 0, time.UTC)})
	}
	rows, offset := calendarRows(days, 14)

	// 1 February 2024 is a Thursday.
	if offset != 3 {
		t.Errorf("offset = %d, want 3", offset)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if rows[0][3] != " 1" || rows[0][2] != "" {
		t.Errorf("first row = %q", rows[0])
	}
	if rows[2][3] != "FEB" {
		t.Errorf("label day = %q, want FEB", rows[2][3])
	}
	if rows[4][3] != "29" {
		t.Errorf("last day = %q, want 29", rows[4][3])
	}
}

func TestMonthModel(t *testing.T) {
	ctx := context.Background()
	svc := chain.NewService(storage.NewMemoryStore())
	ch, err := svc.Create(ctx, chain.CreateParams{Name: "Stretch", StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatal(err)
	}
	labelOf := func(context.Context, []voronoi.Day) (int, error) { return 10, nil }

	var m tea.Model = NewMonthModel(ctx, svc, ch, labelOf, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	m, _ = m.Update(m.Init()())
	mm := m.(MonthModel)
	if len(mm.Days) != 29 || mm.Label != 10 || mm.Cursor != 0 {
		t.Fatalf("loaded model = %d days, label %d, cursor %d", len(mm.Days), mm.Label, mm.Cursor)
	}

	// Toggle the first day.
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil {
		t.Fatal("space should toggle")
	}
	m, _ = m.Update(cmd())
	if !m.(MonthModel).Days[0].Completed {
		t.Error("day 1 not completed after toggle")
	}
	if done, _ := svc.DayStatus(ctx, ch.ID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)); !done {
		t.Error("toggle not persisted")
	}

	// Down then right lands on the label cell, which cannot be toggled.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	for i := 0; i < 3; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	if c := m.(MonthModel).Cursor; c != 10 {
		t.Fatalf("cursor = %d, want 10", c)
	}
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd != nil {
		t.Error("label cell should not toggle")
	}
	if m.(MonthModel).Status == "" {
		t.Error("expected status explaining the label cell")
	}

	// Next month reloads March.
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m, _ = m.Update(cmd())
	if mm := m.(MonthModel); mm.Month != time.March || len(mm.Days) != 31 {
		t.Errorf("after n: %s with %d days", mm.Month, len(mm.Days))
	}

	if !strings.Contains(m.View(), "Stretch") {
		t.Error("view should show the chain name")
	}
	if _, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
}

func TestShiftMonth(t *testing.T) {
	if y, m := shiftMonth(2024, time.January, -1); y != 2023 || m != time.December {
		t.Errorf("shiftMonth back = %d-%d", y, m)
	}
	if y, m := shiftMonth(2024, time.December, 1); y != 2025 || m != time.January {
		t.Errorf("shiftMonth forward = %d-%d", y, m)
	}
}

func TestNoStoreLeavesDiskUntouched(t *testing.T) {
	env := newTestEnv(t, "none")
	if err := env.run(t, "--no-store", "chain", "create", "Ephemeral"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := os.Stat(env.storeDir); err == nil {
		if n := len(env.chains(t)); n != 0 {
			t.Errorf("chains on disk = %d, want 0", n)
		}
	}
}
