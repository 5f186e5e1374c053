// Package route maps disposable recipient addresses to chat destinations.
// An address carries its routing token as a sub-address: localpart+TOKEN@domain.
package route

import (
	"fmt"
	"strings"
)

// Token extracts the routing token from a recipient address. The token is
// the literal text between the first "+" in the local part and the "@"
// separator; it may contain any character except "@". The second return is
// false when the address carries no token.
func Token(addr string) (string, bool) {
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return "", false
	}
	local := addr[:at]
	plus := strings.Index(local, "+")
	if plus < 0 {
		return "", false
	}
	token := local[plus+1:]
	if token == "" {
		return "", false
	}
	return token, true
}

// Address builds the routable address for a token.
func Address(localpart, token, domain string) string {
	return fmt.Sprintf("%s+%s@%s", localpart, token, domain)
}
