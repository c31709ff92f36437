// Package instance keeps a single copy of the application running. The first
// process holds a lock and listens on a local socket; later launches forward
// their arguments there and exit.
package instance

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lugvitc/antigravity-tray/internal/utils/lockfile"
)

const (
	dialTimeout = 2 * time.Second
	readTimeout = 5 * time.Second
)

type Role uint8

const (
	Primary Role = iota
	Secondary
)

func (r Role) String() string {
	if r == Primary {
		return "primary"
	}
	return "secondary"
}

// Handler receives activations forwarded by later launches.
type Handler func(Activation)

type Guard struct {
	role       Role
	lock       *lockfile.Lock
	socketPath string
	log        *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// Acquire takes the instance lock. When another process holds it the guard
// comes back as Secondary and only Forward is meaningful.
func Acquire(lockPath, socketPath string, log *zap.Logger) (*Guard, error) {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Guard{
		socketPath: socketPath,
		log:        log.With(zap.String("component", "instance")),
	}
	lock, err := lockfile.Acquire(lockPath)
	switch {
	case errors.Is(err, lockfile.ErrLocked):
		g.role = Secondary
		g.log.Debug("instance lock busy", zap.Int("owner", lockfile.Owner(lockPath)))
		return g, nil
	case err != nil:
		return nil, fmt.Errorf("acquire instance lock: %w", err)
	}
	g.role = Primary
	g.lock = lock
	return g, nil
}

func (g *Guard) Role() Role { return g.role }

// SetLogger replaces the logger. Call it before Listen or Serve.
func (g *Guard) SetLogger(log *zap.Logger) {
	if log == nil {
		return
	}
	g.log = log.With(zap.String("component", "instance"))
}

// Listen binds the activation socket. Only the primary may listen.
func (g *Guard) Listen() error {
	if g.role != Primary {
		return errors.New("only the primary instance can listen")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listener != nil {
		return nil
	}
	// a socket left behind by a crashed primary; we hold the lock so it is stale
	if err := os.RemoveAll(g.socketPath); err != nil {
		return fmt.Errorf("remove stale socket: %w", err)
	}
	l, err := net.Listen("unix", g.socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", g.socketPath, err)
	}
	g.listener = l
	return nil
}

// Serve accepts activations until ctx is done or the guard is released.
func (g *Guard) Serve(ctx context.Context, handle Handler) error {
	if err := g.Listen(); err != nil {
		return err
	}
	g.mu.Lock()
	l := g.listener
	g.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = l.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || g.isClosed() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			g.log.Warn("accept error", zap.Error(err))
			continue
		}
		g.handleConn(conn, handle)
	}
}

func (g *Guard) handleConn(conn net.Conn, handle Handler) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

	a, err := ReadFrame(conn)
	if err != nil {
		g.log.Warn("read activation", zap.Error(err))
		return
	}
	g.log.Info("second instance launched",
		zap.String("activation", a.ID),
		zap.Strings("args", a.Args),
		zap.String("cwd", a.Cwd))
	handle(a)
}

// ForwardResult reports how a forward went. A duplicate launch exits no
// matter what it says.
type ForwardResult struct {
	Activation Activation
	Err        error
}

// Forward sends args and cwd to the primary. Fire and forget: nothing is
// read back and nothing is retried.
func (g *Guard) Forward(args []string, cwd string) ForwardResult {
	a := Activation{ID: uuid.NewString(), Args: args, Cwd: cwd}
	conn, err := net.DialTimeout("unix", g.socketPath, dialTimeout)
	if err != nil {
		return ForwardResult{Activation: a, Err: fmt.Errorf("dial running instance: %w", err)}
	}
	defer conn.Close()
	if err := WriteFrame(conn, a); err != nil {
		return ForwardResult{Activation: a, Err: fmt.Errorf("send activation: %w", err)}
	}
	return ForwardResult{Activation: a}
}

func (g *Guard) isClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// Release stops listening and frees the lock.
func (g *Guard) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	var errs []error
	if g.listener != nil {
		if err := g.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
		_ = os.Remove(g.socketPath)
	}
	if err := g.lock.Release(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
