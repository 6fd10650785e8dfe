package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/preston-bernstein/nba-game-recommender/internal/poller"
)

type stubPoller struct {
	startCalls atomic.Int32
	stopCalls  atomic.Int32
	err        error
	status     poller.Status
}

func (p *stubPoller) Start(ctx context.Context) {
	_ = ctx
	p.startCalls.Add(1)
}

func (p *stubPoller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopCalls.Add(1)
	return p.err
}

func (p *stubPoller) Status() poller.Status {
	return p.status
}

type stubHTTPServer struct {
	addr          string
	handler       http.Handler
	listenErr     error
	shutdownErr   error
	shutdownCalls atomic.Int32
}

func (s *stubHTTPServer) ListenAndServe() error {
	if s.listenErr != nil {
		return s.listenErr
	}
	return http.ErrServerClosed
}

func (s *stubHTTPServer) Shutdown(ctx context.Context) error {
	_ = ctx
	s.shutdownCalls.Add(1)
	return s.shutdownErr
}

func (s *stubHTTPServer) Addr() string          { return s.addr }
func (s *stubHTTPServer) Handler() http.Handler { return s.handler }

// blockingHTTPServer waits in Shutdown until unblocked or the context ends.
type blockingHTTPServer struct {
	stubHTTPServer
	unblock chan struct{}
}

func (b *blockingHTTPServer) Shutdown(ctx context.Context) error {
	b.shutdownCalls.Add(1)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.unblock:
		return nil
	}
}

var errListen = errors.New("listen failure")
