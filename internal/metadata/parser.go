// Package metadata turns playerctl's key/value listing into TrackMetadata.
package metadata

import (
	"regexp"
	"strings"

	"github.com/genricoloni/barstatus/internal/domain"
)

// recordPattern matches "<namespace> <key>   <value>". The namespace
// (player name) is discarded and the value runs to the end of the line.
// RE2's \s is ASCII only, so the separator class also accepts \v, the
// information separators, NEL and Unicode space separators.
var recordPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+ ([a-zA-Z0-9_:]+)[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]+(.*)$`)

// Parse extracts every well-formed record from raw. Lines that do not match
// are skipped and a repeated key keeps its last value. Empty input yields an
// empty TrackMetadata.
func Parse(raw string) domain.TrackMetadata {
	fields := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		match := recordPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		fields[match[1]] = match[2]
	}
	return domain.NewTrackMetadata(fields)
}
