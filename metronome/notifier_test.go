package metronome

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifierDeliversInOrder(t *testing.T) {
	t.Parallel()

	var (
		lock sync.Mutex
		got  []interface{}
	)
	release := make(chan struct{})
	n := newNotifier(func(ev interface{}) {
		<-release
		lock.Lock()
		got = append(got, ev)
		lock.Unlock()
	})

	// pushing must not wait for the blocked handler
	for i := 0; i < 100; i++ {
		n.push(i)
	}
	close(release)
	n.close()

	expected := make([]interface{}, 100)
	for i := range expected {
		expected[i] = i
	}
	assert.Equal(t, expected, got)
}

func TestNotifierCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	n := newNotifier(func(interface{}) {})
	n.close()
	n.close()
}
