package news

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

var trackingParams = map[string]struct{}{
	"fbclid": {}, "gclid": {}, "oc": {}, "ved": {}, "usg": {}, "ei": {}, "sa": {},
}

// CleanLink unwraps Google redirect links and removes tracking parameters.
// Unparseable input is returned trimmed.
func CleanLink(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	if isGoogleHost(u.Host) && (u.Path == "/url" || strings.HasSuffix(u.Path, "/url")) {
		for _, key := range []string{"url", "q"} {
			if target := u.Query().Get(key); target != "" {
				if inner, err := url.Parse(target); err == nil && inner.Host != "" {
					u = inner
					break
				}
			}
		}
	}
	query := u.Query()
	changed := false
	for key := range query {
		lower := strings.ToLower(key)
		if _, ok := trackingParams[lower]; ok || strings.HasPrefix(lower, "utm_") {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
	u.Fragment = ""
	return u.String()
}

func isGoogleHost(host string) bool {
	host = strings.ToLower(host)
	return host == "google.com" || strings.HasSuffix(host, ".google.com")
}

// HTMLText returns the visible text of an HTML fragment with runs of
// whitespace collapsed to single spaces.
func HTMLText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	z := html.NewTokenizer(strings.NewReader(fragment))
	var parts []string
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way keep what was read.
			return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "script" || string(name) == "style" {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); (string(name) == "script" || string(name) == "style") && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				parts = append(parts, string(z.Text()))
			}
		}
	}
}
