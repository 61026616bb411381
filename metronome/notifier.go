package metronome

import "sync"

// notifier hands events to a dispatch function on its own goroutine, in order. Pushing never blocks, so a slow
// handler cannot hold up the timing loop.
type notifier struct {
	dispatch func(interface{})

	lock  sync.Mutex
	queue []interface{}
	wake  chan struct{}
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newNotifier(dispatch func(interface{})) *notifier {
	n := &notifier{
		dispatch: dispatch,
		wake:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *notifier) push(ev interface{}) {
	n.lock.Lock()
	n.queue = append(n.queue, ev)
	n.lock.Unlock()

	select {
	case n.wake <- struct{}{}:
	default:
	}
}

// close delivers whatever is still queued and stops the dispatch goroutine.
func (n *notifier) close() {
	n.once.Do(func() {
		close(n.quit)
	})
	<-n.done
}

func (n *notifier) run() {
	defer close(n.done)

	for {
		n.lock.Lock()
		if len(n.queue) == 0 {
			n.lock.Unlock()
			select {
			case <-n.wake:
				continue
			case <-n.quit:
				return
			}
		}
		ev := n.queue[0]
		n.queue[0] = nil
		n.queue = n.queue[1:]
		n.lock.Unlock()

		n.dispatch(ev)
	}
}
