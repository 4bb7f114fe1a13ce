package session

import "sync"

// Queue is the inbound command queue: multi-producer, single-consumer,
// unbounded, FIFO. Send never blocks on the consumer; a pump goroutine
// buffers whatever the actor has not yet taken.
type Queue struct {
	in   chan Command
	out  chan Command
	done chan struct{}
	once sync.Once
}

func NewQueue() *Queue {
	q := &Queue{
		in:   make(chan Command),
		out:  make(chan Command),
		done: make(chan struct{}),
	}
	go q.pump()
	return q
}

func (q *Queue) pump() {
	var buf []Command
	in, done := q.in, q.done
	for in != nil || len(buf) > 0 {
		var out chan Command
		var head Command
		if len(buf) > 0 {
			out = q.out
			head = buf[0]
		}
		select {
		case c := <-in:
			buf = append(buf, c)
		case <-done:
			// nil channels block forever, so this arm and the intake
			// arm both drop out of the select once closed.
			in, done = nil, nil
		case out <- head:
			buf = buf[1:]
		}
	}
	close(q.out)
}

// Send enqueues a command. Safe from any goroutine; never waits on the
// consumer. After Close the command is silently dropped.
func (q *Queue) Send(c Command) {
	select {
	case <-q.done:
	case q.in <- c:
	}
}

// Out is the consumer side. It is closed once Close has been called and the
// buffer has drained, which ends the actor's receive loop.
func (q *Queue) Out() <-chan Command {
	return q.out
}

// Close stops intake. Buffered commands still reach the consumer. Safe to
// call more than once, and safe against concurrent Send.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
}
