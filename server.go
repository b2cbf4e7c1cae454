package shiptrack

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/colisselect/shipment-tracking/config"
)

var (
	server *http.Server

	sessionsMu sync.RWMutex
	sessions   = map[string]*Session{}
)

// RegisterSession exposes a running session on the monitoring surface.
func RegisterSession(s *Session) {
	sessionsMu.Lock()
	sessions[s.Shipment().ID] = s
	sessionsMu.Unlock()
}

// UnregisterSession removes a session from the monitoring surface.
func UnregisterSession(shipmentID string) {
	sessionsMu.Lock()
	delete(sessions, shipmentID)
	sessionsMu.Unlock()
}

func lookupSession(shipmentID string) *Session {
	sessionsMu.RLock()
	defer sessionsMu.RUnlock()
	return sessions[shipmentID]
}

func sessionCount() int {
	sessionsMu.RLock()
	defer sessionsMu.RUnlock()
	return len(sessions)
}

func StartServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", handleHealth)
	mux.HandleFunc("/api/tracking/", handleTrackingJSON)

	addr := fmt.Sprintf(":%d", config.Config.Server.Port)
	server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

func HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		} else {
			log.Printf("server shut down successfully")
		}
	}
}
