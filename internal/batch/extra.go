// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const dateFmt = "2006-01-02"

// timeNow feeds the date stamp on citation lines. Tests substitute it for
// stable output.
var timeNow = time.Now

// mergeCitationLine rewrites the free-text extra field around a fresh
// citation count. Any stale line for the same source is removed, matched
// case-insensitively in both the current and the legacy format; every
// unrelated line keeps its position. The new line goes on top:
//
//	42 citations (Crossref/DOI) [2026-08-25]
//
// Rewriting with the same source is idempotent apart from the count and
// date, so repeated batch runs do not grow the field.
func mergeCitationLine(extra string, count int, source string) string {
	line := fmt.Sprintf("%d citations (%s) [%s]", count, source, timeNow().Format(dateFmt))

	src := regexp.QuoteMeta(source)
	stale := regexp.MustCompile(`(?i)^(\d+ citations \(` + src + `\)|citations \(` + src + `\):)`)

	if strings.TrimSpace(extra) == "" {
		return line
	}

	var kept []string
	for _, l := range strings.Split(extra, "\n") {
		if stale.MatchString(l) {
			continue
		}
		kept = append(kept, l)
	}

	if len(kept) == 0 {
		return line
	}
	return line + "\n" + strings.Join(kept, "\n")
}
