package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/mathrush/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.mathrush/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves mathrush over SSH. Every SSH user plays in their own
// storage namespace, so best scores, inventory and streaks are per user.
// A user may hold only one session at a time; each engine keeps its own
// copy of the inventory, so parallel sessions would undo each other's spending.
type SSHServer struct {
	config   SSHServerConfig
	services Services
	server   *ssh.Server
	logger   *log.Logger
	players  *playerLocks
}

// playerLocks tracks players with an open session.
type playerLocks struct {
	mu     sync.Mutex
	active map[string]bool
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{active: make(map[string]bool)}
}

// acquire claims player, reporting false if another session holds it.
func (l *playerLocks) acquire(player string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active[player] {
		return false
	}
	l.active[player] = true
	return true
}

func (l *playerLocks) release(player string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.active, player)
}

// NewSSHServer creates a new SSH server. The caller keeps ownership of the
// stores in services and closes them after the server stops.
func NewSSHServer(cfg SSHServerConfig, services Services) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "mathrush-ssh",
	})
	if services.Logger == nil {
		services.Logger = logger
	}

	srv := &SSHServer{
		config:   cfg,
		services: services,
		logger:   logger,
		players:  newPlayerLocks(),
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".mathrush", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.singleSessionMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a game model for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := s.services.NewModel(sshSession.User()).WithSize(pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// singleSessionMiddleware rejects a user who already has a session open.
func (s *SSHServer) singleSessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		player := sshSession.User()
		if player == "" {
			player = storage.DefaultPlayer
		}
		if !s.players.acquire(player) {
			s.logger.Warn("rejected concurrent session", "user", player)
			wish.Fatalln(sshSession, fmt.Sprintf("mathrush: %s is already playing in another session", player))
			return
		}
		defer s.players.release(player)

		next(sshSession)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errc:
		s.logger.Error("server error", "error", err)
		return err
	}
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
