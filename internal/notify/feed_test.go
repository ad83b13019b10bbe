package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/blueprint/internal/logging"
	"github.com/mesh-intelligence/blueprint/internal/metrics"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// recorder collects every list a listener receives.
type recorder struct {
	mu    sync.Mutex
	calls [][]types.Notification
}

func (r *recorder) listen(list []types.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, list)
}

func (r *recorder) last() []types.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func newFeed() *Feed {
	return New(WithLogger(logging.Discard()))
}

func TestFeed_Scenario(t *testing.T) {
	f := newFeed()
	rec := &recorder{}
	f.Subscribe(rec.listen)

	require.Equal(t, 1, rec.count(), "subscribe delivers the current list")
	assert.Empty(t, rec.last())

	n, err := f.Add("hello", types.NotificationSuccess, "")
	require.NoError(t, err)

	got := rec.last()
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Message)
	assert.Equal(t, types.NotificationSuccess, got[0].Type)
	assert.False(t, got[0].Read)
	assert.Equal(t, n.ID, got[0].ID)

	f.MarkAsRead(n.ID)
	got = rec.last()
	require.Len(t, got, 1)
	assert.Equal(t, n.ID, got[0].ID)
	assert.True(t, got[0].Read)

	f.ClearAll()
	got = rec.last()
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 4, rec.count())
}

func TestFeed_AddNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f := New(WithClock(func() time.Time { return base }))

	_, err := f.Add("first", types.NotificationInfo, "")
	require.NoError(t, err)
	_, err = f.Add("second", "", "/goals")
	require.NoError(t, err)

	list := f.List()
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, types.NotificationInfo, list[0].Type, "empty type defaults to info")
	assert.Equal(t, "/goals", list[0].ActionLink)
	assert.Equal(t, base, list[0].Timestamp)
	assert.NotEqual(t, list[0].ID, list[1].ID)
}

func TestFeed_AddRejectsUnknownType(t *testing.T) {
	f := newFeed()
	rec := &recorder{}
	f.Subscribe(rec.listen)

	_, err := f.Add("nope", "critical", "")
	assert.ErrorIs(t, err, types.ErrInvalidNotificationType)
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Empty(t, f.List())
	assert.Equal(t, 1, rec.count(), "rejected add does not notify")
}

func TestFeed_MarkAsReadUnknownID(t *testing.T) {
	f := newFeed()
	f.Add("a", types.NotificationInfo, "")
	rec := &recorder{}
	f.Subscribe(rec.listen)

	f.MarkAsRead("missing")

	assert.Equal(t, 2, rec.count())
	assert.Equal(t, 1, f.UnreadCount())
}

func TestFeed_ListenersGetIndependentCopies(t *testing.T) {
	f := newFeed()
	var first, second []types.Notification
	f.Subscribe(func(l []types.Notification) { first = l })
	f.Subscribe(func(l []types.Notification) { second = l })

	f.Add("hello", types.NotificationInfo, "")
	require.Len(t, first, 1)
	require.Len(t, second, 1)

	first[0].Message = "tampered"
	first[0].Read = true

	assert.Equal(t, "hello", second[0].Message)
	assert.Equal(t, "hello", f.List()[0].Message)
	assert.Equal(t, 1, f.UnreadCount())
}

func TestFeed_SubscriptionOrder(t *testing.T) {
	f := newFeed()
	var order []string
	f.Subscribe(func([]types.Notification) { order = append(order, "a") })
	f.Subscribe(func([]types.Notification) { order = append(order, "b") })
	order = nil

	f.Add("x", types.NotificationInfo, "")
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestFeed_PanickingListenerIsContained(t *testing.T) {
	f := newFeed()
	calls := 0
	f.Subscribe(func(l []types.Notification) {
		if len(l) > 0 {
			panic("boom")
		}
	})
	f.Subscribe(func([]types.Notification) { calls++ })

	assert.NotPanics(t, func() {
		f.Add("x", types.NotificationError, "")
	})
	assert.Equal(t, 2, calls)
}

func TestFeed_Unsubscribe(t *testing.T) {
	f := newFeed()
	rec := &recorder{}
	unsubscribe := f.Subscribe(rec.listen)

	unsubscribe()
	unsubscribe()
	f.Add("x", types.NotificationInfo, "")

	assert.Equal(t, 1, rec.count())
}

func TestFeed_UnsubscribeAfterClose(t *testing.T) {
	f := newFeed()
	rec := &recorder{}
	unsubscribe := f.Subscribe(rec.listen)

	f.Close()
	assert.NotPanics(t, unsubscribe)

	f.Add("after close", types.NotificationInfo, "")
	assert.Equal(t, 1, rec.count())
	assert.Len(t, f.List(), 1)

	late := &recorder{}
	f.Subscribe(late.listen)
	assert.Equal(t, 0, late.count())
}

func TestFeed_ListenerMayCallBack(t *testing.T) {
	f := newFeed()
	var unread int
	f.Subscribe(func([]types.Notification) { unread = f.UnreadCount() })

	done := make(chan struct{})
	go func() {
		f.Add("x", types.NotificationInfo, "")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener calling back into the feed deadlocked")
	}
	assert.Equal(t, 1, unread)
}

func TestFeed_Metrics(t *testing.T) {
	m := metrics.New()
	f := New(WithMetrics(m))
	f.Add("a", types.NotificationSuccess, "")
	f.Add("b", types.NotificationSuccess, "")

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "blueprint_feed_notifications_total", families[0].GetName())
	assert.Equal(t, 2.0, families[0].GetMetric()[0].GetCounter().GetValue())
}
