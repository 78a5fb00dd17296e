package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/anicoll/smartthings-integration/pkg/sockets"
)

const (
	frameReady    = "ready"
	frameRequest  = "request"
	frameResponse = "response"
)

// frame is the relay wire format. The relay announces the public URL with a
// ready frame, then forwards each inbound HTTP request as a request frame and
// expects a response frame with the same id.
type frame struct {
	Type   string      `json:"type"`
	ID     string      `json:"id,omitempty"`
	URL    string      `json:"url,omitempty"`
	Method string      `json:"method,omitempty"`
	Path   string      `json:"path,omitempty"`
	Header http.Header `json:"header,omitempty"`
	Body   []byte      `json:"body,omitempty"`
	Status int         `json:"status,omitempty"`
}

type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: http.Header{}}
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedResponse) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

type tunnel struct {
	handler   http.Handler
	onReady   func(url string)
	logger    *zap.Logger
	newSocket func(opts ...func(*sockets.Conn)) sockets.Connection
	conn      sockets.Connection
}

func (t *tunnel) open(ctx context.Context, relay, subdomain string, port int) error {
	u, err := url.Parse(relay)
	if err != nil {
		return fmt.Errorf("parse relay url: %w", err)
	}
	q := u.Query()
	q.Set("subdomain", subdomain)
	q.Set("port", strconv.Itoa(port))
	u.RawQuery = q.Encode()

	t.conn = t.newSocket(
		sockets.WithPingIntervalSec(30),
		sockets.WithPingMsg([]byte(`{"type":"ping"}`)),
		sockets.OnMessage(func(msg []byte, c sockets.Connection) {
			t.onMessage(ctx, msg, c)
		}),
		sockets.OnError(func(err error) {
			t.logger.Debug("tunnel connection error", zap.Error(err))
		}),
	)
	return t.conn.Dial(ctx, u.String(), "")
}

func (t *tunnel) onMessage(ctx context.Context, msg []byte, c sockets.Connection) {
	var f frame
	if err := json.Unmarshal(msg, &f); err != nil {
		t.logger.Debug("dropping malformed tunnel frame", zap.Error(err))
		return
	}
	switch f.Type {
	case frameReady:
		t.onReady(f.URL)
	case frameRequest:
		resp := t.forward(ctx, f)
		body, err := json.Marshal(resp)
		if err != nil {
			t.logger.Error("failed to encode tunnel response", zap.Error(err))
			return
		}
		if err := c.Send(sockets.Msg{Body: body}); err != nil {
			t.logger.Debug("failed to send tunnel response", zap.String("id", f.ID), zap.Error(err))
		}
	}
}

// forward replays a relayed request against the local handler.
func (t *tunnel) forward(ctx context.Context, f frame) frame {
	resp := frame{Type: frameResponse, ID: f.ID}
	req, err := http.NewRequestWithContext(ctx, f.Method, f.Path, bytes.NewReader(f.Body))
	if err != nil {
		resp.Status = http.StatusBadRequest
		return resp
	}
	for k, vs := range f.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	rec := newBufferedResponse()
	t.handler.ServeHTTP(rec, req)
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	resp.Status = rec.status
	resp.Header = rec.header
	resp.Body = rec.body.Bytes()
	return resp
}

func (t *tunnel) done() <-chan struct{} {
	return t.conn.Done()
}

func (t *tunnel) close() error {
	return t.conn.Close()
}

// Start serves the webhook through the relay tunnel until ctx is cancelled.
// It never fails: without a relay, or when the tunnel cannot be opened, the
// bridge keeps working from polling alone.
func (m *Manager) Start(ctx context.Context) error {
	if !m.cfg.Enabled {
		return nil
	}
	if err := m.SetupSubscriptions(ctx); err != nil {
		m.logger.Warn("failed to create subscriptions", zap.Error(err))
	}
	defer func() {
		if err := m.RemoveSubscriptions(context.WithoutCancel(ctx)); err != nil {
			m.logger.Warn("failed to delete subscriptions", zap.Error(err))
		}
	}()

	if m.cfg.RelayURL == "" {
		m.logger.Info("real-time webhooks not available, using polling mode")
		<-ctx.Done()
		return nil
	}

	t := &tunnel{
		handler:   m,
		onReady:   m.onTunnelReady,
		logger:    m.logger,
		newSocket: sockets.New,
	}
	m.logger.Info("starting webhook tunnel",
		zap.Int("port", m.cfg.LocalPort),
		zap.String("subdomain", m.cfg.TunnelSubdomain),
	)
	if err := t.open(ctx, m.cfg.RelayURL, m.cfg.TunnelSubdomain, m.cfg.LocalPort); err != nil {
		m.logger.Debug("webhook tunnel unavailable, using polling mode", zap.Error(err))
		<-ctx.Done()
		return nil
	}

	select {
	case <-ctx.Done():
		_ = t.close()
	case <-t.done():
		m.setTunnelURL("")
		m.logger.Debug("webhook tunnel closed, using polling mode")
		<-ctx.Done()
	}
	return nil
}

func (m *Manager) onTunnelReady(u string) {
	m.setTunnelURL(u)
	m.logger.Info("webhook tunnel started", zap.String("url", m.PublicURL()))
}
