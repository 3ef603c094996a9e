package server

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// RedirectHandler answers every request with 302 to the same URI on the
// HTTPS listener. The port of the Host header is replaced by httpsPort,
// which is omitted when it is 443. Requests without a Host fall back to the
// address the connection was accepted on, or get 400 when that is unknown.
func RedirectHandler(httpsPort int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		location, ok := redirectLocation(r, httpsPort)
		if !ok {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, location, http.StatusFound)
	})
}

func redirectLocation(r *http.Request, httpsPort int) (string, bool) {
	host := redirectHost(r)
	if host == "" {
		return "", false
	}
	if httpsPort != HTTPSPort && httpsPort != 0 {
		host = net.JoinHostPort(host, strconv.Itoa(httpsPort))
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return "https://" + host + r.URL.RequestURI(), true
}

// redirectHost returns the bare host name or IP: no port, no brackets.
func redirectHost(r *http.Request) string {
	host := r.Host
	if host == "" {
		if addr, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr); ok {
			host = addr.String()
		}
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
}
