package main

import (
	"chat-room/api"
	"chat-room/infrastructure/ws"
	"chat-room/internal"
	"chat-room/moderation"
	"chat-room/observability"
	"chat-room/repositories"
	"chat-room/runtime"
	"chat-room/runtime/workers"
	"chat-room/services"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server and workers.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config validation failed: %w", err)
	}
	log := internal.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	// Defer ensures the database lock is released and buffers are flushed before the function returns.
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Repositories & Gateway
	messageRepository := repositories.NewMessageRepository(db, log)
	presenceRepository := repositories.NewPresenceRepository(db)
	searchIndex := repositories.NewSearchIndex(blugeWriter, log)
	gateway := repositories.NewGateway(messageRepository, presenceRepository, searchIndex, log)

	// 4. Moderation
	var filter runtime.ContentFilter
	if config.EnableModeration {
		replacement, err := internal.CharacterRune(config.CharReplacement)
		if err != nil {
			return exitConfig, err
		}
		wordList, err := moderation.LoadWords()
		if err != nil {
			return exitConfig, fmt.Errorf("loading censored words failed: %w", err)
		}
		f, err := moderation.NewFilter(wordList.Words, replacement)
		if err != nil {
			return exitConfig, fmt.Errorf("building moderation filter failed: %w", err)
		}
		filter = f
		log.Info("Moderation enabled",
			"words", len(wordList.Words),
			"languages", wordList.Languages)
	}

	// 5. Coordinator & Supervised Workers
	coordinator := runtime.NewCoordinator(log, gateway, filter)

	collector, err := observability.NewCollector(log)
	if err != nil {
		return exitRuntime, fmt.Errorf("stats collector init failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := workers.NewSupervisor(log)
	go sup.Add(
		workers.NewBadgerGCWorker(db, config.GCInterval, log),
		workers.NewStatsWorker(collector, config.StatsInterval, log),
	).Run(ctx)

	// 6. HTTP Server Setup (WebSocket + REST)
	history := services.NewHistoryService(messageRepository, presenceRepository, searchIndex)

	mux := http.NewServeMux()
	mux.Handle("GET /ws", ws.NewServer(log, coordinator, config.ConnectionBufferSize))
	api.NewHandler(log, history, collector, config.HistoryLimit).Register(mux)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: mux}

	// Use an error channel to capture Serve() issues asynchronously.
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	// The execution blocks here until either a signal is received or the server crashes.
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 8. Final Cleanup (Graceful Shutdown)
	// Shutdown drains pending REST requests; WebSocket connections are
	// hijacked from the HTTP server and drop when the process exits.
	log.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	sup.Stop()
	log.Info("Program stopped cleanly")

	return exitOK, nil
}
