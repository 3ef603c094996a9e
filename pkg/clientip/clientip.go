package clientip

import (
	"net"
	"net/http"
	"strings"
)

// HeaderForwardedFor is the proxy header consulted before the peer address.
const HeaderForwardedFor = "X-Forwarded-For"

// GetIP returns the client address of r.
// The leftmost non-empty entry of X-Forwarded-For wins; otherwise the host
// part of RemoteAddr is used. Forwarded values are returned as sent, with
// surrounding whitespace trimmed.
func GetIP(r *http.Request) string {
	if xff := r.Header.Get(HeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return peerIP(r.RemoteAddr)
}

func peerIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
