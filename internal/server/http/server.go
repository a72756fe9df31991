package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/relaykit/relay/internal/runtime"
	"github.com/relaykit/relay/internal/server/http/controllers"
	messagesvc "github.com/relaykit/relay/internal/services/messages"
	streamsvc "github.com/relaykit/relay/internal/services/stream"
	"github.com/relaykit/relay/pkg/log"
)

type Server struct {
	rt     *runtime.Runtime
	srv    *http.Server
	lis    net.Listener
	logger log.Logger
}

// New wires the controllers onto a mux and returns an unstarted server.
func New(rt *runtime.Runtime, streams *streamsvc.Service, messages *messagesvc.Service, logger log.Logger) *Server {
	mux := http.NewServeMux()
	controllers.NewControllerRegistry(rt, streams, messages, logger).RegisterAllRoutes(mux)
	return &Server{
		rt:     rt,
		srv:    &http.Server{Handler: cors(mux)},
		logger: logger.WithComponent("http"),
	}
}

// Handler returns the root handler, cors included. Used by tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("http server listening", log.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
