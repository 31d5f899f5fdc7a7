package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/biasharafund/discounting/internal/extract"
)

type fakeExtractor struct{}

func (fakeExtractor) Extract(_ context.Context, path string) extract.Result {
	return extract.Result{
		RunID:    uuid.New(),
		Document: extract.TextResult{Success: true, Text: "from " + path},
	}
}

func TestIntake_ProcessesAllPaths(t *testing.T) {
	paths := make(chan string, 3)
	paths <- "/in/a.pdf"
	paths <- "/in/b.png"
	paths <- "/in/c.jpg"
	close(paths)

	var mu sync.Mutex
	var seen []string
	sink := func(path string, _ extract.Result) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, path)
	}

	NewIntake(fakeExtractor{}, sink, 2, nil).Run(context.Background(), paths)

	sort.Strings(seen)
	require.Equal(t, []string{"/in/a.pdf", "/in/b.png", "/in/c.jpg"}, seen)
}

func TestIntake_StopsOnContextCancel(t *testing.T) {
	paths := make(chan string) // never closed
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		NewIntake(fakeExtractor{}, nil, 2, nil).Run(ctx, paths)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("intake did not stop on cancel")
	}
}

func TestWatcher_InitialScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoice.pdf"), []byte("%PDF-1.7"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}, InitialScan: true}, nil)
	require.NoError(t, err)

	select {
	case p := <-paths:
		require.Equal(t, filepath.Join(dir, "invoice.pdf"), p)
	case <-time.After(5 * time.Second):
		t.Fatal("initial scan emitted nothing")
	}
}

func TestWatcher_DebouncedBurst(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := StartWatcher(ctx, WatchConfig{
		Roots:    []string{dir},
		Debounce: time.Millisecond,
	}, nil)
	require.NoError(t, err)

	const n = 200
	for i := 0; i < n; i++ {
		name := filepath.Join(dir, fmt.Sprintf("scan-%03d.png", i))
		require.NoError(t, os.WriteFile(name, []byte{0x89, 'P', 'N', 'G'}, 0o600))
	}

	got := map[string]struct{}{}
	deadline := time.After(10 * time.Second)
	for len(got) < n {
		select {
		case p := <-paths:
			got[p] = struct{}{}
		case <-deadline:
			t.Fatalf("debounced burst: got %d of %d paths", len(got), n)
		}
	}
}

func TestWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, nil)
	require.Error(t, err)
}

func TestWatcher_PicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paths, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}}, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan.png"), []byte{0x89, 'P', 'N', 'G'}, 0o600))

	select {
	case p := <-paths:
		require.Equal(t, filepath.Join(dir, "scan.png"), p)
	case <-time.After(5 * time.Second):
		t.Fatal("create event not observed")
	}
}

func TestSupported(t *testing.T) {
	require.True(t, supported("/x/a.pdf"))
	require.True(t, supported("/x/a.JPG"))
	require.False(t, supported("/x/a.txt"))
	require.False(t, supported("/x/noext"))
}
