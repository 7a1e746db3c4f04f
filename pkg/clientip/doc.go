// Package clientip resolves the originating client IP of an HTTP request
// behind CDNs and reverse proxies.
//
// FromRequest walks the common proxy headers before falling back to the
// socket address, and always returns a validated, canonical IP so the
// value is safe to log or rate-limit on.
package clientip
