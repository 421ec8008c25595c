package auth

import "net/http"

// BasicChallenge is the WWW-Authenticate value sent with 401 responses.
const BasicChallenge = `Basic realm="Admin"`

// BasicPassword extracts the password from an HTTP Basic Authorization header.
// The username is ignored. ok is false when the header is missing or malformed.
func BasicPassword(r *http.Request) (password string, ok bool) {
	_, password, ok = r.BasicAuth()
	return password, ok
}
