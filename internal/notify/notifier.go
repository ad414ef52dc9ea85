package notify

import (
	"sync"
	"time"

	"github.com/inkspire/inkspire-client/pkg/logger"
	"github.com/inkspire/inkspire-client/pkg/metrics"
	"go.uber.org/zap"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// DefaultDuration is how long a notification stays visible unless told otherwise
const DefaultDuration = 6 * time.Second

// Notification is the single visible message
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Visible  bool     `json:"visible"`
}

type options struct {
	duration time.Duration
	onClose  func()
}

type Option func(*options)

// WithDuration overrides how long the notification stays visible
func WithDuration(d time.Duration) Option {
	return func(o *options) { o.duration = d }
}

// WithOnClose registers fn to run once the notification is dismissed,
// either by Clear or by the auto-dismiss timer. It does not run when a
// newer notification replaces this one.
func WithOnClose(fn func()) Option {
	return func(o *options) { o.onClose = fn }
}

// Surface is what feature controllers report outcomes to
type Surface interface {
	ShowError(message string, opts ...Option)
	ShowSuccess(message string, opts ...Option)
	Clear()
	Current() Notification
}

type subscriber struct {
	id uint64
	fn func(Notification)
}

// Notifier is a process-wide single-slot notification surface.
// Showing a message of either severity replaces whatever was visible.
type Notifier struct {
	mu              sync.Mutex
	current         Notification
	onClose         func()
	timer           *time.Timer
	generation      uint64
	defaultDuration time.Duration
	subscribers     []subscriber
	nextID          uint64
}

var _ Surface = (*Notifier)(nil)

func New(defaultDuration time.Duration) *Notifier {
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	return &Notifier{defaultDuration: defaultDuration}
}

func (n *Notifier) ShowError(message string, opts ...Option) {
	n.show(message, SeverityError, opts)
}

func (n *Notifier) ShowSuccess(message string, opts ...Option) {
	n.show(message, SeveritySuccess, opts)
}

func (n *Notifier) show(message string, severity Severity, opts []Option) {
	o := options{duration: n.defaultDuration}
	for _, opt := range opts {
		opt(&o)
	}
	if o.duration <= 0 {
		o.duration = n.defaultDuration
	}

	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.generation++
	gen := n.generation
	n.current = Notification{Message: message, Severity: severity, Visible: true}
	n.onClose = o.onClose
	n.timer = time.AfterFunc(o.duration, func() { n.expire(gen) })
	snapshot := n.current
	subs := n.snapshotSubscribers()
	n.mu.Unlock()

	metrics.Notifications.WithLabelValues(string(severity)).Inc()
	logger.Debug("Notification shown",
		zap.String("severity", string(severity)),
		zap.Duration("duration", o.duration))

	publish(subs, snapshot)
}

// Clear dismisses the visible notification and runs its on-close callback
func (n *Notifier) Clear() {
	n.mu.Lock()
	n.dismissLocked()
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.generation {
		n.mu.Unlock()
		return
	}
	n.dismissLocked()
}

// dismissLocked is entered with n.mu held and releases it before running
// callbacks
func (n *Notifier) dismissLocked() {
	if !n.current.Visible {
		n.mu.Unlock()
		return
	}
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.generation++
	onClose := n.onClose
	n.onClose = nil
	n.current = Notification{}
	subs := n.snapshotSubscribers()
	n.mu.Unlock()

	publish(subs, Notification{})
	if onClose != nil {
		onClose()
	}
}

// Current returns a copy of the slot
func (n *Notifier) Current() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Subscribe calls fn on every change of the slot, including dismissals.
// The returned func removes the subscription.
func (n *Notifier) Subscribe(fn func(Notification)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.subscribers = append(n.subscribers, subscriber{id: id, fn: fn})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, s := range n.subscribers {
			if s.id == id {
				n.subscribers = append(n.subscribers[:i:i], n.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (n *Notifier) snapshotSubscribers() []subscriber {
	subs := make([]subscriber, len(n.subscribers))
	copy(subs, n.subscribers)
	return subs
}

func publish(subs []subscriber, value Notification) {
	for _, s := range subs {
		s.fn(value)
	}
}
