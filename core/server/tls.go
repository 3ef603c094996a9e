package server

import (
	"crypto/tls"
	"slices"
)

// ECDHE only, AEAD only.
var tls12CipherSuites = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
	tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
}

// DefaultTLSConfig is the base of the HTTPS listener unless WithTLSConfig is
// used: TLS 1.2+ with forward-secret AEAD suites.
func DefaultTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:       tls.VersionTLS12,
		CipherSuites:     slices.Clone(tls12CipherSuites),
		CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP256},
	}
}

// ModernTLSConfig accepts TLS 1.3 only. Suitable when every client is known.
func ModernTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:       tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP256},
	}
}

// IntermediateTLSConfig is DefaultTLSConfig plus P-384 for older clients.
func IntermediateTLSConfig() *tls.Config {
	cfg := DefaultTLSConfig()
	cfg.CurvePreferences = append(cfg.CurvePreferences, tls.CurveP384)
	return cfg
}

// StrictTLSConfig is ModernTLSConfig without session tickets or renegotiation.
func StrictTLSConfig() *tls.Config {
	cfg := ModernTLSConfig()
	cfg.SessionTicketsDisabled = true
	cfg.Renegotiation = tls.RenegotiateNever
	return cfg
}
