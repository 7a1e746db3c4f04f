// Package cookie signs and verifies HTTP cookie values.
//
// A Manager holds one or more HMAC-SHA256 secrets and the default cookie
// attributes. The cookie name is part of the signed input: a signature made
// for "session" never verifies for "csrf", even with an identical value.
// The first secret signs new cookies; every secret verifies, so keys can
// rotate without invalidating live sessions.
//
// Usage:
//
//	man, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// write
//	_ = man.SetSigned(w, "session", userID)
//
//	// read
//	id, err := man.GetSigned(r, "session")
//
// Manager satisfies the signer/verifier interfaces the binding engine uses
// for `cookie:"name,signed"` fields and Meta().SetSignedCookie.
//
// Config reads the manager's settings from the environment
// (COOKIE_SECRETS, COOKIE_PATH, ...) via github.com/caarlos0/env.
package cookie
