package sockets

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrClosed = errors.New("closed connection")

type Connection interface {
	Dial(ctx context.Context, url, subprotocol string) error
	Send(msg Msg) error
	// Done is closed once the read loop has stopped.
	Done() <-chan struct{}
	io.Closer
}

type Conn struct {
	ws               *websocket.Conn
	sslSkipVerify    bool
	pingIntervalSecs int
	pingMsg          []byte
	header           http.Header
	onError          func(err error)
	onMessage        func([]byte, Connection)
	onConnected      func(Connection)

	writeMu sync.Mutex
	mu      sync.Mutex
	closed  bool
	done    chan struct{}
}

func New(opts ...func(*Conn)) Connection {
	c := &Conn{closed: true}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Msg is a single outbound frame.
type Msg struct {
	Body   []byte
	Binary bool
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Conn) closeLocked() error {
	if c.closed || c.ws == nil {
		return nil
	}
	c.closed = true
	return c.ws.Close()
}

func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) Send(msg Msg) error {
	if c.isClosed() {
		return ErrClosed
	}
	kind := websocket.TextMessage
	if msg.Binary {
		kind = websocket.BinaryMessage
	}

	c.writeMu.Lock()
	err := c.ws.WriteMessage(kind, msg.Body)
	c.writeMu.Unlock()
	if err != nil {
		_ = c.Close()
		if c.onError != nil {
			c.onError(err)
		}
		return err
	}
	return nil
}

func (c *Conn) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done == nil {
		c.done = make(chan struct{})
		close(c.done)
	}
	return c.done
}

func (c *Conn) Dial(ctx context.Context, url, subProtocol string) error {
	dialer := &websocket.Dialer{
		HandshakeTimeout: 15 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: c.sslSkipVerify,
		},
	}
	if subProtocol != "" {
		dialer.Subprotocols = []string{subProtocol}
	}
	conn, res, err := dialer.DialContext(ctx, url, c.header)
	if res != nil && res.Body != nil {
		_ = res.Body.Close()
	}
	if err != nil {
		if res != nil {
			return fmt.Errorf("dial %s: HTTP %d: %w", url, res.StatusCode, err)
		}
		return fmt.Errorf("dial %s: %w", url, err)
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.ws = conn
	c.closed = false
	c.done = done
	c.mu.Unlock()

	if c.onConnected != nil {
		go c.onConnected(c)
	}
	go c.readLoop(conn, done)
	c.setupPing(done)
	return nil
}

func (c *Conn) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			closedByUs := c.isClosed()
			_ = c.Close()
			if !closedByUs && c.onError != nil {
				c.onError(err)
			}
			return
		}
		c.onMsg(msg)
	}
}

func (c *Conn) onMsg(msg []byte) {
	if c.onMessage != nil {
		go c.onMessage(msg, c)
	}
}

func (c *Conn) setupPing(done <-chan struct{}) {
	if c.pingIntervalSecs <= 0 || len(c.pingMsg) == 0 {
		return
	}
	ticker := time.NewTicker(time.Second * time.Duration(c.pingIntervalSecs))
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if c.Send(Msg{Body: c.pingMsg}) != nil {
					return
				}
			}
		}
	}()
}
