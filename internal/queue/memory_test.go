package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_PublishSubscribe(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	received := make(chan []byte, 10)
	require.NoError(t, q.Subscribe("anomaly.detected.cpu", func(data []byte) error {
		received <- data
		return nil
	}))

	require.NoError(t, q.Publish(context.Background(), "anomaly.detected.cpu", []byte("event-1")))

	select {
	case data := <-received:
		assert.Equal(t, "event-1", string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestMemoryQueue_PublishCopiesData(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	payload := []byte("original")
	require.NoError(t, q.Publish(context.Background(), "metrics.cpu", payload))
	payload[0] = 'X'

	received := make(chan []byte, 1)
	require.NoError(t, q.Subscribe("metrics.cpu", func(data []byte) error {
		received <- data
		return nil
	}))

	select {
	case data := <-received:
		assert.Equal(t, "original", string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}
}

func TestMemoryQueue_PublishBatch(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	messages := make([]BatchMessage, 5)
	for i := range messages {
		messages[i] = BatchMessage{
			Subject: "metrics.cpu",
			Data:    []byte(fmt.Sprintf("point-%d", i)),
		}
	}

	count, err := q.PublishBatch(context.Background(), messages)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.Equal(t, 5, q.GetPendingCount("metrics.cpu"))
}

func TestMemoryQueue_DuplicateSubscribe(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	handler := func(data []byte) error { return nil }
	require.NoError(t, q.Subscribe("metrics.cpu", handler))
	assert.Error(t, q.Subscribe("metrics.cpu", handler))
}

func TestMemoryQueue_Unsubscribe(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	require.NoError(t, q.Subscribe("metrics.cpu", func(data []byte) error { return nil }))
	require.NoError(t, q.Unsubscribe("metrics.cpu"))
	assert.Error(t, q.Unsubscribe("metrics.cpu"))
}

func TestMemoryQueue_ConcurrentPublish(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = q.Publish(context.Background(), "metrics.cpu", []byte(fmt.Sprintf("%d-%d", n, j)))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1000, q.GetPendingCount("metrics.cpu"))
}
