// Package playertest provides an in-memory player.Conn for tests.
package playertest

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"
)

var ErrClosed = errors.New("playertest: connection closed")

// Conn records sent frames and replays frames pushed with Push.
type Conn struct {
	mu         sync.Mutex
	sent       [][]byte
	closed     bool
	closeCalls int
	sendErr    error

	inbound chan []byte
	done    chan struct{}
}

// NewConn returns an open connection.
func NewConn() *Conn {
	return &Conn{
		inbound: make(chan []byte, 64),
		done:    make(chan struct{}),
	}
}

func (c *Conn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, data)
	return nil
}

func (c *Conn) Receive() ([]byte, error) {
	select {
	case data := <-c.inbound:
		return data, nil
	case <-c.done:
		return nil, io.EOF
	}
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeCalls++
	if !c.closed {
		c.closed = true
		close(c.done)
	}
	return nil
}

// Push queues an inbound frame.
func (c *Conn) Push(data []byte) {
	c.inbound <- data
}

// FailSends makes every later Send return err.
func (c *Conn) FailSends(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendErr = err
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// CloseCalls counts Close invocations.
func (c *Conn) CloseCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeCalls
}

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Sent returns a copy of all frames sent so far.
func (c *Conn) Sent() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.sent))
	copy(out, c.sent)
	return out
}

// Messages decodes every sent frame as a JSON object.
func (c *Conn) Messages() []map[string]interface{} {
	var out []map[string]interface{}
	for _, data := range c.Sent() {
		var m map[string]interface{}
		if err := json.Unmarshal(data, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

// OfType returns the sent JSON messages whose Type equals kind.
func (c *Conn) OfType(kind string) []map[string]interface{} {
	var out []map[string]interface{}
	for _, m := range c.Messages() {
		if m["Type"] == kind {
			out = append(out, m)
		}
	}
	return out
}

// WaitFor polls until cond holds or timeout elapses.
func WaitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}
