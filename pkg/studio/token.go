package studio

import "regexp"

// Older backends embed the session token in the human-readable activation
// message instead of a structured field. The backend here returns both; the
// message format and the extraction below keep old clients and the new
// backend interoperable.

const activationMessagePrefix = "Booking activated. Access token: "

var accessTokenPattern = regexp.MustCompile(`Access token:\s*(\S+)`)

// ActivationMessage builds the legacy activation message for a token.
func ActivationMessage(token string) string {
	return activationMessagePrefix + token
}

// ExtractAccessToken pulls the session token out of an activation message.
// A message without the pattern yields ok=false; that is a normal outcome
// (no active session), not a failure.
func ExtractAccessToken(message string) (token string, ok bool) {
	m := accessTokenPattern.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return m[1], true
}
