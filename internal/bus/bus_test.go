package bus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPublishReachesSubscribersInOrder(t *testing.T) {
	b := New()

	var got []string
	b.Subscribe(TopicContentUpdate, func(topic string, payload any) {
		got = append(got, "first:"+payload.(string))
	})
	b.Subscribe(TopicContentUpdate, func(topic string, payload any) {
		got = append(got, "second:"+payload.(string))
	})

	b.Publish(TopicContentUpdate, "hello")
	assert.Equal(t, []string{"first:hello", "second:hello"}, got)
}

func TestTopicsAreIsolated(t *testing.T) {
	b := New()

	deviceEvents := 0
	b.Subscribe(TopicDeviceUpdate, func(string, any) { deviceEvents++ })

	b.Publish(TopicContentUpdate, nil)
	assert.Zero(t, deviceEvents)

	b.Publish(TopicDeviceUpdate, nil)
	assert.Equal(t, 1, deviceEvents)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()

	calls := 0
	token := b.Subscribe(TopicDeviceUpdate, func(string, any) { calls++ })

	b.Publish(TopicDeviceUpdate, nil)
	b.Unsubscribe(TopicDeviceUpdate, token)
	b.Publish(TopicDeviceUpdate, nil)

	assert.Equal(t, 1, calls)

	// Unknown tokens are ignored.
	b.Unsubscribe(TopicDeviceUpdate, "no-such-token")
}

func TestDuplicateDeliveryIsTolerated(t *testing.T) {
	b := New()

	// A subscriber registered twice simply hears the event twice;
	// delivery is at-least-once by contract.
	calls := 0
	fn := func(string, any) { calls++ }
	b.Subscribe(TopicContentUpdate, fn)
	b.Subscribe(TopicContentUpdate, fn)

	b.Publish(TopicContentUpdate, nil)
	assert.Equal(t, 2, calls)
}

func TestConcurrentSubscribePublish(t *testing.T) {
	b := New()

	var mu sync.Mutex
	total := 0
	b.Subscribe(TopicDeviceUpdate, func(string, any) {
		mu.Lock()
		total++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(TopicDeviceUpdate, nil)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, total)
}
