package alias

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// orderingPrefix matches a leading run of digits plus any following
// characters that are neither Latin letters nor CJK ideographs.
var orderingPrefix = regexp.MustCompile(`^\p{Nd}+[^A-Za-z\p{Han}]*`)

// formerNameMarkers introduce a "formerly named" annotation.
var formerNameMarkers = []string{"原：", "原:"}

// Normalize converts a raw directory name into its alias. The result may be
// empty, in which case the directory cannot be matched.
func Normalize(name string) string {
	clean := norm.NFC.String(name)
	clean = orderingPrefix.ReplaceAllString(clean, "")
	cut := -1
	for _, marker := range formerNameMarkers {
		if idx := strings.Index(clean, marker); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut >= 0 {
		clean = clean[:cut]
	}
	return strings.TrimSpace(clean)
}
