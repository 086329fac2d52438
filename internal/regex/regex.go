package regex

import "regexp"

var (
	// PR reference patterns accepted by the check command
	PRNumber = regexp.MustCompile(`^#?(\d+)$`)
	PRURL    = regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/]+)/pull/(\d+)/?$`)
)
