package notify

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SingleSlot(t *testing.T) {
	n := New(time.Minute)

	n.ShowError("A")
	n.ShowSuccess("B")

	assert.Equal(t, Notification{Message: "B", Severity: SeveritySuccess, Visible: true}, n.Current())
}

func TestNotifier_Clear(t *testing.T) {
	n := New(time.Minute)
	n.ShowError("boom")
	n.Clear()

	assert.False(t, n.Current().Visible)
	assert.Empty(t, n.Current().Message)

	// Clearing an empty slot is a no-op
	n.Clear()
}

func TestNotifier_AutoDismiss(t *testing.T) {
	n := New(time.Minute)
	n.ShowSuccess("saved", WithDuration(20*time.Millisecond))

	assert.True(t, n.Current().Visible)
	require.Eventually(t, func() bool { return !n.Current().Visible }, time.Second, 5*time.Millisecond)
}

func TestNotifier_StaleTimerKeepsNewerMessage(t *testing.T) {
	n := New(time.Minute)
	n.ShowError("old", WithDuration(10*time.Millisecond))
	n.ShowSuccess("new", WithDuration(time.Minute))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "new", n.Current().Message)
	assert.True(t, n.Current().Visible)
}

func TestNotifier_OnClose(t *testing.T) {
	t.Run("runs once on clear", func(t *testing.T) {
		n := New(time.Minute)
		var calls int32
		n.ShowSuccess("reminder", WithOnClose(func() { atomic.AddInt32(&calls, 1) }))

		n.Clear()
		n.Clear()
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("runs on auto-dismiss", func(t *testing.T) {
		n := New(time.Minute)
		done := make(chan struct{})
		n.ShowSuccess("reminder",
			WithDuration(10*time.Millisecond),
			WithOnClose(func() { close(done) }))

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("on-close callback was not called")
		}
	})

	t.Run("not run when replaced", func(t *testing.T) {
		n := New(time.Minute)
		var calls int32
		n.ShowSuccess("first", WithOnClose(func() { atomic.AddInt32(&calls, 1) }))
		n.ShowSuccess("second")
		n.Clear()

		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	})
}

func TestNotifier_Subscribe(t *testing.T) {
	n := New(time.Minute)

	var mu sync.Mutex
	var seen []Notification
	unsubscribe := n.Subscribe(func(v Notification) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, v)
	})

	n.ShowError("A")
	n.Clear()
	unsubscribe()
	n.ShowSuccess("ignored")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Notification{
		{Message: "A", Severity: SeverityError, Visible: true},
		{},
	}, seen)
}

func TestNew_DefaultDuration(t *testing.T) {
	assert.Equal(t, DefaultDuration, New(0).defaultDuration)
}
