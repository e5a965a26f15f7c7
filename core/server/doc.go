// Package server runs an http.Handler with production timeouts and graceful
// shutdown.
//
// A Server is usually driven by an errgroup next to other long-running
// workers:
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//	return g.Wait()
//
// Run blocks until ctx is canceled, then drains in-flight requests for at most
// the shutdown timeout. Start and Stop are available for manual control.
//
// TLS is enabled with WithTLS or by setting SERVER_TLS_CERT_FILE and
// SERVER_TLS_KEY_FILE; DefaultTLSConfig restricts connections to TLS 1.2+
// with AEAD cipher suites.
package server
