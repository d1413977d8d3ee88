package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchFileRunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "churn.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// A sibling file must not trigger a run.
	other := filepath.Join(dir, "other.csv")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, func() { calls <- struct{}{} })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(other, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-calls:
		t.Fatalf("writing a sibling file triggered a run")
	case <-time.After(200 * time.Millisecond):
	}
	if err := os.WriteFile(path, []byte("a,b\n1,2\n3,4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatalf("expected a run after writing the watched file")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watchFile returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watchFile did not stop after cancel")
	}
}
