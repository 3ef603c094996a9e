// Package server runs the HTTP or HTTPS listener of an application and
// dispatches every request to a single HandlerFunc through an
// httpcontext.Context.
//
// # Plain HTTP
//
//	srv := server.New(server.Options{Port: 8080}, func(c *httpcontext.Context) error {
//		return c.Route("GET /health", func(map[string]string) error {
//			return c.Response(httpcontext.ResponseOptions{Content: []byte("ok")})
//		})
//	})
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx))
//	return g.Wait()
//
// # Multi-domain TLS
//
// When Options.TLS is set, every key pair is loaded into a CertCache before
// the listener is bound. Certificates are selected per handshake by SNI; a
// server name that is not in the cache fails the handshake unless
// WithDefaultDomain is used.
//
//	srv := server.New(server.Options{
//		Port:         443,
//		RedirectPort: 80,
//		AutoRenew:    true,
//		TLS:          server.CertificatesFromDir("/etc/letsencrypt/live", "example.com", "api.example.com"),
//	}, handler, server.WithLogger(log), server.WithCertWatch())
//
// The cache is reloaded every 24 hours (WithReloadInterval). A reload builds a
// fresh map and swaps it in atomically, so handshakes never observe a
// partially loaded set. A domain whose files fail to load keeps serving its
// previous certificate.
//
// With AutoRenew, "certbot renew" (or the Renewer given to WithRenewer) runs in
// the background right after start and on every reload tick; a successful run
// triggers an immediate reload. WithCertWatch additionally reloads shortly
// after a key or certificate file changes on disk.
//
// RedirectPort opens a second, plain listener that answers every request with
// 302 to https://<host>[:port]<uri>. It never calls the handler.
//
// # Dispatch
//
// ServeHTTP answers OPTIONS with permissive CORS headers, forwards WebSocket
// upgrades to the hook set by HandleUpgrade, and runs the handler for
// everything else. Errors and panics are logged and turned into a 500 response
// when nothing was written yet. A handler that returns without responding
// yields 404.
//
// # Lifecycle
//
// Started is closed exactly once, after the primary listener is bound.
// Companion layers use it together with Listening and Listener to attach to a
// running server. Run returns an errgroup-compatible function that shuts the
// server down gracefully when its context is canceled.
//
// # Configuration
//
// Config is loaded from WEBSERVER_* environment variables:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg, handler)
package server
