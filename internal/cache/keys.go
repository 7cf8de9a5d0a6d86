package cache

import "strings"

// Namespace prefixes every key this application writes, so a shared Redis can host
// several tools.
const Namespace = "studybuddy"

// Key joins parts under Namespace with ":". Empty parts are skipped.
func Key(parts ...string) string {
	var b strings.Builder
	b.WriteString(Namespace)
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}

// SessionTokenKey is where the redis token store keeps the token persisted under tokenKey.
func SessionTokenKey(tokenKey string) string {
	return Key("session", "token", tokenKey)
}
