// Package mobile exposes the demo host to gomobile. Native code calls
// Start with a writable directory, loads the returned URL in its own
// WebView and calls Stop when the app goes away.
package mobile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arko-chat/webuicall/internal/config"
	"github.com/arko-chat/webuicall/internal/server"
)

var (
	mu      sync.Mutex
	running *server.Server
)

func Start(dataDir string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if running != nil {
		return "", fmt.Errorf("server already running")
	}

	slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load(filepath.Join(dataDir, "config.json"))
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	s, err := server.Start(cfg, slogger)
	if err != nil {
		return "", err
	}
	running = s
	return s.URL, nil
}

func Stop() {
	mu.Lock()
	defer mu.Unlock()

	if running == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	running.Stop(ctx)
	running = nil
}
