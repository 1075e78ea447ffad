package connection

import "strings"

// DefaultFeedURL is the Captain Up firehose endpoint.
const DefaultFeedURL = "wss://captainup.com/mechanics/v2/firehose/events"

// BuildURL appends the app and secret query parameters to base.
//
// The values are copied as given, not escaped: the feed authenticates on the
// exact query string.
func BuildURL(base, appID, secret string) string {
	sep := "?"
	switch {
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		sep = ""
	case strings.Contains(base, "?"):
		sep = "&"
	}
	return base + sep + "app=" + appID + "&secret=" + secret
}

// RedactURL hides the secret query parameter for logging. The whole value
// up to the next '&' is replaced, whatever characters it holds.
func RedactURL(raw string) string {
	base, query, ok := strings.Cut(raw, "?")
	if !ok {
		return raw
	}

	params := strings.Split(query, "&")
	for i, p := range params {
		if strings.HasPrefix(p, "secret=") {
			params[i] = "secret=REDACTED"
		}
	}
	return base + "?" + strings.Join(params, "&")
}
