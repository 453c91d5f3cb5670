package site

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves HTTP, and TLS too when a cert and key are configured, until
// ctx is done or a listener fails. It then shuts every server down.
func (s *Site) Run(ctx context.Context) error {
	meta := s.config.Meta
	servers := []*http.Server{newServer(meta.ListenAddr, s.Handler())}
	errc := make(chan error, 2)

	go func(srv *http.Server) {
		s.log.Info("serving HTTP", zap.String("addr", srv.Addr), zap.String("siteurl", meta.SiteURL))
		errc <- srv.ListenAndServe()
	}(servers[0])

	if meta.SSLCert != "" && meta.SSLKey != "" && meta.ListenAddrTLS != "" {
		srv := newServer(meta.ListenAddrTLS, s.Handler())
		servers = append(servers, srv)
		go func() {
			s.log.Info("serving TLS", zap.String("addr", srv.Addr))
			errc <- srv.ListenAndServeTLS(meta.SSLCert, meta.SSLKey)
		}()
	}

	var err error
	select {
	case err = <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	case <-ctx.Done():
		s.log.Info("shutting down")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if serr := srv.Shutdown(sctx); serr != nil {
			s.log.Warn("error shutting down", zap.String("addr", srv.Addr), zap.Error(serr))
		}
	}
	return err
}
