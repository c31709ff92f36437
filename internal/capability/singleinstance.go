package capability

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lugvitc/antigravity-tray/internal/instance"
)

// SingleInstance serves activations from later launches once the runtime is
// up. The lock itself is taken earlier, before any capability is set up.
type SingleInstance struct {
	guard  *instance.Guard
	handle instance.Handler
	log    *zap.Logger

	cancel context.CancelFunc
	served chan struct{}
}

func NewSingleInstance(guard *instance.Guard, handle instance.Handler, log *zap.Logger) *SingleInstance {
	if log == nil {
		log = zap.NewNop()
	}
	return &SingleInstance{guard: guard, handle: handle, log: log}
}

func (s *SingleInstance) Name() string { return "single-instance" }

// setup binds the socket so launches racing our startup queue up in the
// listen backlog instead of failing to connect.
func (s *SingleInstance) setup() error {
	if s.guard == nil || s.handle == nil {
		return errors.New("single-instance needs a guard and a handler")
	}
	if s.guard.Role() != instance.Primary {
		return errors.New("single-instance requires the instance lock")
	}
	return s.guard.Listen()
}

func (s *SingleInstance) startup(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.served = make(chan struct{})
	go func() {
		defer close(s.served)
		if err := s.guard.Serve(ctx, s.handle); err != nil {
			s.log.Error("activation listener stopped", zap.Error(err))
		}
	}()
}

func (s *SingleInstance) close() error {
	if s.cancel != nil {
		s.cancel()
		<-s.served
		s.cancel = nil
	}
	return s.guard.Release()
}
