// Package server wires together the session state machine, the
// shared stores (auth, channels, admin, bans, ecdh, registry, dm), and
// the TLS listener that accepts connections for them (spec §2, §4.1).
package server

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/darkrelay/darkrelay/pkg/admin"
	"github.com/darkrelay/darkrelay/pkg/auth"
	"github.com/darkrelay/darkrelay/pkg/bans"
	"github.com/darkrelay/darkrelay/pkg/channels"
	"github.com/darkrelay/darkrelay/pkg/dm"
	"github.com/darkrelay/darkrelay/pkg/ecdh"
	"github.com/darkrelay/darkrelay/pkg/registry"
	"github.com/darkrelay/darkrelay/pkg/wire"
)

// Config holds server configuration.
type Config struct {
	ListenAddr   string // TLS bind address (e.g. ":8080")
	CertFile     string // TLS certificate file path
	KeyFile      string // TLS private key file path
	DataDir      string // directory for generated self-signed certs
	SpecialKey   string // process-wide gate key (spec §6, DARKRELAY_SPECIAL_KEY)
	ChannelsFile string // YAML file defining channels to create on startup
	MetricsAddr  string // HTTP bind address for /metrics and /healthz (empty = disabled)
}

// DefaultConfig returns a config with the defaults named in spec §6.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
		DataDir:    ".",
		SpecialKey: "darkrelay-dev-key",
	}
}

// Server is the DarkRelay relay core: every shared store plus the
// listener that feeds connections into per-connection sessions.
type Server struct {
	cfg Config

	auth      *auth.Service
	channels  *channels.Manager
	admin     *admin.Manager
	bans      *bans.Manager
	ecdh      *ecdh.Manager
	registry  *registry.Registry
	dmStore   *dm.Store
	transfers *dm.TransferManager
	metrics   *Metrics

	listener net.Listener
	ctx      context.Context
	cancel   context.CancelFunc

	nextConnID uint64
	nextMsgID  uint64
}

// meta mints a MessageMeta for a message the server originates itself
// rather than in direct reply to one connection's request (e.g. a
// broadcast following another member's disconnect).
func (s *Server) meta() wire.MessageMeta {
	id := atomic.AddUint64(&s.nextMsgID, 1)
	return wire.MessageMeta{ID: id, Timestamp: time.Now().UTC()}
}

// New creates a Server with fresh, empty stores.
func New(cfg Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:        cfg,
		auth:       auth.New(),
		channels:   channels.New(),
		admin:      admin.New(),
		bans:       bans.New(),
		ecdh:       ecdh.NewManager(),
		registry:   registry.New(),
		dmStore:    dm.NewStore(),
		transfers:  dm.NewTransferManager(),
		metrics:    NewMetrics(),
		ctx:        ctx,
		cancel:     cancel,
		nextConnID: 1,
	}
}
