// Package clientip extracts the client address from HTTP requests.
//
// When a request arrives through a proxy, the first entry of X-Forwarded-For
// is the original client:
//
//	X-Forwarded-For: 203.0.113.7, 10.0.0.2  ->  "203.0.113.7"
//
// Without that header the peer address of the connection is used, with the
// port stripped. GetIP never fails; if RemoteAddr has no port it is returned
// unchanged.
package clientip
