package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Proxy headers checked in order of trust. CDN-injected headers win over
// the standard forwarding chain because intermediaries can append to
// X-Forwarded-For but not overwrite CF-Connecting-IP.
var proxyHeaders = []string{
	"CF-Connecting-IP",
	"True-Client-IP",
	"X-Real-IP",
}

// FromRequest resolves the originating client address of r.
//
// Proxy headers are consulted first, then the leftmost valid entry of
// X-Forwarded-For, then the connection's remote address. The result is
// a canonical textual address, or "" when nothing parseable was found.
func FromRequest(r *http.Request) string {
	for _, h := range proxyHeaders {
		if ip := canonical(r.Header.Get(h)); ip != "" {
			return ip
		}
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for part := range strings.SplitSeq(fwd, ",") {
			if ip := canonical(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, as some test servers produce.
		return canonical(r.RemoteAddr)
	}
	return canonical(host)
}

// canonical parses s as an IP address and returns its normalized form.
func canonical(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return ""
	}
	return addr.String()
}
