package dev

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWatcher_NewFile(t *testing.T) {
	tmpDir := t.TempDir()

	watcher := NewWatcher(WatcherConfig{
		Root:     tmpDir,
		Interval: 20 * time.Millisecond,
	})

	changes := make(chan Change, 10)
	watcher.OnChange(func(c Change) {
		changes <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watcher.Start(ctx)

	// Wait for initial scan
	time.Sleep(100 * time.Millisecond)

	newFile := filepath.Join(tmpDir, "about.html")
	if err := os.WriteFile(newFile, []byte("<h1>About</h1>"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-changes:
		if change.Type != ChangePage {
			t.Errorf("Expected page change, got %v", change.Type)
		}
		if change.Path != newFile {
			t.Errorf("Expected path %q, got %q", newFile, change.Path)
		}
	case <-time.After(500 * time.Millisecond):
		t.Error("Timeout waiting for new file change")
	}

	watcher.Stop()
}

func TestWatcher_ManifestChange(t *testing.T) {
	tmpDir := t.TempDir()

	manifestFile := filepath.Join(tmpDir, "routes.json")
	if err := os.WriteFile(manifestFile, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	watcher := NewWatcher(WatcherConfig{
		Root:     tmpDir,
		Interval: 20 * time.Millisecond,
	})

	changes := make(chan Change, 10)
	watcher.OnChange(func(c Change) {
		changes <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watcher.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(manifestFile, []byte(`{"html": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	// Force a newer mtime on filesystems with coarse timestamps.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(manifestFile, future, future); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-changes:
		if change.Type != ChangeManifest {
			t.Errorf("Expected manifest change, got %v", change.Type)
		}
	case <-time.After(500 * time.Millisecond):
		t.Error("Timeout waiting for manifest change")
	}

	watcher.Stop()
}

func TestWatcher_Ignore(t *testing.T) {
	tmpDir := t.TempDir()

	watcher := NewWatcher(WatcherConfig{
		Root:     tmpDir,
		Ignore:   []string{"*.tmp"},
		Interval: 20 * time.Millisecond,
	})

	changes := make(chan Change, 10)
	watcher.OnChange(func(c Change) {
		changes <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watcher.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(tmpDir, "scratch.tmp"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-changes:
		t.Errorf("Ignored file should not be reported, got %v", change)
	case <-time.After(200 * time.Millisecond):
	}

	watcher.Stop()
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	watcher := NewWatcher(WatcherConfig{Root: t.TempDir()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watcher.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	if !watcher.IsRunning() {
		t.Error("watcher should be running")
	}
	watcher.Stop()
	watcher.Stop()
	if watcher.IsRunning() {
		t.Error("watcher should be stopped")
	}
}

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		path string
		want ChangeType
	}{
		{"dist/routes.json", ChangeManifest},
		{"dist/pages/about.html", ChangePage},
		{"dist/pages/legacy.HTM", ChangePage},
		{"dist/assets/app.css", ChangeAsset},
		{"dist/assets/logo.png", ChangeAsset},
	}

	for _, tt := range tests {
		if got := classifyChange(tt.path); got != tt.want {
			t.Errorf("classifyChange(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestReloadServer_Broadcast(t *testing.T) {
	server := NewReloadServer()
	defer server.Close()

	srv := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Wait for the server to register the client.
	deadline := time.Now().Add(time.Second)
	for server.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if server.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", server.ClientCount())
	}

	server.NotifyReload("pages/about.html")

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg ReloadMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != ReloadTypeFull {
		t.Errorf("Type = %q, want %q", msg.Type, ReloadTypeFull)
	}
	if msg.File != "pages/about.html" {
		t.Errorf("File = %q, want pages/about.html", msg.File)
	}
}

func TestReloadServer_ConcurrentBroadcasts(t *testing.T) {
	server := NewReloadServer()
	defer server.Close()

	srv := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for server.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if server.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", server.ClientCount())
	}

	const (
		goroutines = 4
		perSender  = 5
	)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				if n%2 == 0 {
					server.NotifyReload("pages/index.html")
				} else {
					server.NotifyError("rebuild failed")
				}
			}
		}(i)
	}
	wg.Wait()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < goroutines*perSender; i++ {
		var msg ReloadMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read message %d: %v", i, err)
		}
		if msg.Type != ReloadTypeFull && msg.Type != ReloadTypeError {
			t.Fatalf("message %d has type %q", i, msg.Type)
		}
	}
}

func TestReloadServer_ErrorMessages(t *testing.T) {
	server := NewReloadServer()
	defer server.Close()

	srv := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for server.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	server.NotifyError("manifest parse failed")

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg ReloadMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != ReloadTypeError || msg.Error != "manifest parse failed" {
		t.Errorf("msg = %+v, want error message", msg)
	}

	server.ClearError()
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != ReloadTypeClear {
		t.Errorf("Type = %q, want %q", msg.Type, ReloadTypeClear)
	}
}
