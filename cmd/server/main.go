/*
main.go - Application entry point

PURPOSE:
  Starts the sinking fund planning server. Handles configuration and
  graceful shutdown. Bills can optionally be preloaded from a CSV or
  JSON file at startup; everything else happens over the API.

CONFIGURATION:
  Flags take precedence; a .env file (loaded via godotenv when present)
  and process environment fill in defaults.

  -port / PORT      HTTP server port (default: 8080)
  -bills / BILLS    optional bill definition file (.csv or .json)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Exit

SEE ALSO:
  - api/server.go: router configuration
  - loader: bill file parsing
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gfbarbieri/sinkingfund/api"
	"github.com/gfbarbieri/sinkingfund/loader"
)

func main() {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	billsPath := flag.String("bills", os.Getenv("BILLS"), "bill definition file to preload (.csv or .json)")
	flag.Parse()

	handler := api.NewHandler()

	if *billsPath != "" {
		if err := preloadBills(handler, *billsPath); err != nil {
			log.Fatalf("Failed to load bills from %s: %v", *billsPath, err)
		}
	}

	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// preloadBills reads a bill definition file and registers its bills.
func preloadBills(handler *api.Handler, path string) error {
	registry := loader.NewRegistry()
	reader, err := registry.ByPath(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bills, err := reader.Read(f)
	if err != nil {
		return err
	}
	for _, b := range bills {
		if err := handler.Bills.Add(b); err != nil {
			return fmt.Errorf("bill %s: %w", b.ID(), err)
		}
	}
	log.Printf("Loaded %d bills from %s", len(bills), path)
	return nil
}

// envInt reads an integer environment variable with a fallback.
func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
