package wodify

import (
	"net/http"
	"net/url"
	"strings"
)

const csrfCookieName = "nr2W_Theme_UI"

// sessionCookies derives the csrf token and the Cookie header value from the
// cookies set by a login response.
//
// The csrf cookie's value is itself a serialized cookie ("crf=<token>; ..."),
// the token is the value of its first pair.
func sessionCookies(cookies []*http.Cookie) (csrfToken string, cookieHeader string) {
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
		if c.Name == csrfCookieName && csrfToken == "" {
			csrfToken = innerCookieValue(decodeCookieValue(c.Value))
		}
	}
	return csrfToken, strings.Join(pairs, "; ")
}

func innerCookieValue(serialized string) string {
	first, _, _ := strings.Cut(serialized, ";")
	_, value, found := strings.Cut(first, "=")
	if !found {
		value = first
	}
	return decodeCookieValue(strings.TrimSpace(value))
}

func decodeCookieValue(value string) string {
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}
