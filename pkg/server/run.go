package server

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// banCleanupInterval and transferCleanupInterval drive the two
// background sweeps the server runs for its lifetime (spec §5, §9).
const (
	banCleanupInterval      = 60 * time.Second
	transferCleanupInterval = 60 * time.Second
)

// defaultChannelName is created on startup if absent, mirroring the
// always-present default channel a freshly started relay offers.
const defaultChannelName = "general"

// Run starts the TLS listener and background tasks, and blocks until
// SIGINT/SIGTERM or the server context is otherwise cancelled.
func (s *Server) Run() error {
	if key := os.Getenv("DARKRELAY_SPECIAL_KEY"); key != "" {
		s.cfg.SpecialKey = key
	}

	if err := s.channels.EnsureChannel(defaultChannelName, true, ""); err != nil {
		return fmt.Errorf("server: create default channel: %w", err)
	}

	if s.cfg.ChannelsFile != "" {
		if err := s.LoadChannelsFromYAML(s.cfg.ChannelsFile); err != nil {
			slog.Warn("failed to load channels config", "err", err)
		}
	}

	cert, err := loadOrGenerateTLS(s.cfg)
	if err != nil {
		return fmt.Errorf("server: load TLS credentials: %w", err)
	}

	listener, err := tls.Listen("tcp", s.cfg.ListenAddr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	s.listener = listener

	s.StartMetricsHTTP()
	go s.acceptLoop()
	go s.cleanupLoop()

	slog.Info("darkrelay listening", "addr", s.cfg.ListenAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", "signal", sig.String())
	case <-s.ctx.Done():
	}

	return s.Shutdown()
}

// acceptLoop accepts connections until the listener is closed, spawning
// one goroutine per connection (spec §5: cooperative per-connection
// tasks, no global serialization across connections).
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
				slog.Warn("accept error", "err", err)
				return
			}
		}
		go s.serve(conn)
	}
}

// cleanupLoop runs the periodic ban-expiry and file-transfer-expiry
// sweeps on independent tickers (spec §5, §9).
func (s *Server) cleanupLoop() {
	banTicker := time.NewTicker(banCleanupInterval)
	transferTicker := time.NewTicker(transferCleanupInterval)
	defer banTicker.Stop()
	defer transferTicker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-banTicker.C:
			s.bans.CleanupExpired()
		case <-transferTicker.C:
			s.transfers.CleanupExpired()
		}
	}
}

// Shutdown cancels the server context and closes the listener. Live
// connections' writers are given their own drain budget as each one
// unwinds (spec §4.1, §5); Shutdown itself does not block on them.
func (s *Server) Shutdown() error {
	s.cancel()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// ListenAddr reports the address the server is configured to bind.
func (s *Server) ListenAddr() string {
	return s.cfg.ListenAddr
}
