package policy

import (
	"net/url"
	"strings"
)

const paramPrefix = ":"

// ExtractParams matches path against pattern segment by segment. It
// returns nil when the segment counts differ or any literal segment
// disagrees, and otherwise a map of parameter names to their captured
// values. A pattern with no parameters against an identical literal path
// returns an empty, non-nil map: "matched, no params".
//
// Captured values are URL-decoded (percent escapes and '+' as space) and
// returned as-is with no numeric coercion.
func ExtractParams(pattern, path string) map[string]string {
	patternSegs := strings.Split(pattern, "/")
	pathSegs := strings.Split(path, "/")

	if len(patternSegs) != len(pathSegs) {
		return nil
	}

	params := map[string]string{}
	for i, seg := range patternSegs {
		if strings.HasPrefix(seg, paramPrefix) {
			name := strings.TrimPrefix(seg, paramPrefix)
			params[name] = decodeSegment(pathSegs[i])
			continue
		}
		if seg != pathSegs[i] {
			return nil
		}
	}

	return params
}

func decodeSegment(seg string) string {
	decoded, err := url.QueryUnescape(seg)
	if err != nil {
		// An undecodable segment is passed through untouched rather than
		// failing the match.
		return seg
	}
	return decoded
}
