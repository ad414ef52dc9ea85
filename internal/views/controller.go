package views

import (
	"fmt"
	"strings"
	"sync"

	"github.com/inkspire/inkspire-client/internal/notify"
	"github.com/inkspire/inkspire-client/internal/validation"
	"github.com/inkspire/inkspire-client/pkg/errors"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

// Paths the views navigate to
const (
	PathHome  = "/"
	PathLogin = "/login"
	PathPlans = "/plans"
	PathPosts = "/posts"
)

// Navigator moves the front end to another view
type Navigator func(path string)

func (n Navigator) to(path string) {
	if n != nil {
		n(path)
	}
}

// FormError carries the field errors that blocked a submission.
// It never reaches the network.
type FormError struct {
	Fields []validation.FieldError
}

func (e *FormError) Error() string {
	return strings.Join(validation.Messages(e.Fields), "; ")
}

func (e *FormError) Unwrap() error {
	return errors.ErrInvalidInput
}

func validateForm(form interface{}) error {
	if fields := validation.ValidateStruct(form); len(fields) > 0 {
		return &FormError{Fields: fields}
	}
	return nil
}

// lifecycle tracks whether a view is mounted and which of its resources
// have an action in flight. Results that arrive for an older mount
// generation are dropped.
type lifecycle struct {
	mu      sync.Mutex
	gen     uint64
	mounted bool
	pending map[string]struct{}
}

func (l *lifecycle) mount() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.mounted = true
	return l.gen
}

func (l *lifecycle) unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.mounted = false
}

// generation returns the current mount generation
func (l *lifecycle) generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

func (l *lifecycle) live(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted && l.gen == gen
}

// begin marks resource busy until the returned release is called
func (l *lifecycle) begin(resource string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == nil {
		l.pending = map[string]struct{}{}
	}
	if _, busy := l.pending[resource]; busy {
		return nil, fmt.Errorf("%s: %w", resource, errors.ErrBusy)
	}
	l.pending[resource] = struct{}{}
	return func() {
		l.mu.Lock()
		delete(l.pending, resource)
		l.mu.Unlock()
	}, nil
}

func resourceKey(kind string, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// report shows err on the notification surface and hands it back
func report(n notify.Surface, err error, fallback string) error {
	n.ShowError(errors.UserMessage(err, fallback))
	logger.Warn("View action failed", zap.String("message", fallback), zap.Error(err))
	return err
}
