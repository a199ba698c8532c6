package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-pursuit/internal/config"
	"github.com/vovakirdan/tui-pursuit/internal/maps"
	"github.com/vovakirdan/tui-pursuit/internal/storage"
)

// shutdownGrace bounds how long open connections get to drain.
const shutdownGrace = 10 * time.Second

// SSHServerConfig configures the multi-user server.
type SSHServerConfig struct {
	Address string
	// HostKeyPath defaults to ~/.pursuit/host_key, generated on first use.
	HostKeyPath string
	IdleTimeout time.Duration

	// Maps offered in the menu. Game carries the pursuer tuning and the
	// results database path.
	Maps []maps.Map
	Game config.Config
}

// DefaultSSHServerConfig returns the serve command defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Game:        config.Default(),
	}
}

// SSHServer gives every connection its own menu and runs. All
// connections share one results store.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer prepares the server. A results database that cannot be
// opened only disables score saving.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pursuit-ssh",
	})

	keyPath, err := resolveHostKey(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Game.Storage.DBPath)
	if err != nil {
		logger.Warn("scores will not be saved", "db", cfg.Game.Storage.DBPath, "error", err)
		store = nil
	}

	srv := &SSHServer{config: cfg, store: store, logger: logger}
	srv.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.newPlayerApp),
			srv.trackConnection,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("ssh: %w", err)
	}
	return srv, nil
}

// resolveHostKey returns the key location and makes sure its directory
// exists.
func resolveHostKey(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("ssh: no host key path and no home directory: %w", err)
		}
		path = filepath.Join(home, ".pursuit", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("ssh: host key directory: %w", err)
	}
	return path, nil
}

// newPlayerApp builds the App for one connection, named after the SSH
// user. Its runs are released when the connection goes away.
func (s *SSHServer) newPlayerApp(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	player := sess.User()
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("connection without a terminal", "player", player)
		return nil, nil
	}

	app, err := NewApp(AppOptions{
		Maps:   s.config.Maps,
		Config: s.config.Game,
		Store:  s.store,
		Player: player,
		Seed:   time.Now().UnixNano(),
		Logger: s.logger.With("player", player),
		Width:  pty.Window.Width,
		Height: pty.Window.Height,
	})
	if err != nil {
		s.logger.Error("cannot build app", "player", player, "error", err)
		return nil, nil
	}

	go func() {
		<-sess.Context().Done()
		app.Close()
	}()
	return app, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) trackConnection(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		logger := s.logger.With("player", sess.User(), "remote", sess.RemoteAddr().String())
		connected := time.Now()
		logger.Info("player connected")
		next(sess)
		logger.Info("player left", "stayed", time.Since(connected).Round(time.Second))
	}
}

// ListenAndServe serves until ctx is done or the listener fails, then
// shuts down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("listening", "address", s.config.Address, "maps", len(s.config.Maps))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("ssh: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		return s.Shutdown()
	})
	return g.Wait()
}

// Shutdown drains open connections, then closes the results store.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
