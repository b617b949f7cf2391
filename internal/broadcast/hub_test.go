package broadcast

import (
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv[T any](t *testing.T, sub *Subscription[T]) T {
	t.Helper()
	v, ok := <-sub.C
	require.True(t, ok, "subscription closed unexpectedly")
	return v
}

func TestHub_LateJoinReceivesCurrent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := New[int]()
		defer h.Close()

		h.Publish(1)
		h.Publish(2)

		sub := h.Subscribe()
		assert.Equal(t, 2, recv(t, sub))

		h.Publish(3)
		assert.Equal(t, 3, recv(t, sub))
	})
}

func TestHub_NoCurrentBeforeFirstPublish(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := New[string]()
		defer h.Close()

		sub := h.Subscribe()
		synctest.Wait()
		assert.Zero(t, sub.Pending())

		_, ok := h.Current()
		assert.False(t, ok)

		h.Publish("first")
		assert.Equal(t, "first", recv(t, sub))
	})
}

func TestHub_EveryValueOnceInOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := New[int]()
		defer h.Close()

		fast := h.Subscribe()
		stalled := h.Subscribe()

		const n = 200
		for i := range n {
			h.Publish(i)
		}

		// The stalled subscriber has not read anything; the fast one still
		// gets every value.
		for i := range n {
			assert.Equal(t, i, recv(t, fast))
		}

		for i := range n {
			assert.Equal(t, i, recv(t, stalled))
		}

		synctest.Wait()
		assert.Zero(t, fast.Pending())
		assert.Zero(t, stalled.Pending())
	})
}

func TestHub_PublishDoesNotBlockWithoutReaders(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := New[int]()
		defer h.Close()

		sub := h.Subscribe()
		for i := range 10_000 {
			h.Publish(i)
		}
		synctest.Wait()

		// One value may already be held by the pump waiting on C.
		assert.GreaterOrEqual(t, sub.Pending(), 9_999)
	})
}

func TestSubscription_CloseStopsOnlyThatSubscriber(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := New[int]()
		defer h.Close()

		a := h.Subscribe()
		b := h.Subscribe()
		require.Equal(t, 2, h.Len())

		h.Publish(1)
		a.Close()
		<-a.Done()

		// C drains to closed once the pump exits.
		for range a.C {
		}

		assert.Equal(t, 1, h.Len())
		assert.Equal(t, 1, recv(t, b))

		h.Publish(2)
		assert.Equal(t, 2, recv(t, b))
	})
}

func TestHub_CloseClosesSubscriptions(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := New[int]()
		sub := h.Subscribe()

		h.Close()
		<-sub.Done()
		for range sub.C {
		}

		h.Publish(5)
		_, ok := h.Current()
		assert.False(t, ok, "publish after close is ignored")
		assert.Zero(t, h.Len())

		late := h.Subscribe()
		<-late.Done()
		_, open := <-late.C
		assert.False(t, open)

		h.Close()
	})
}
