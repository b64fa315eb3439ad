package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

func TranscriptKey(videoID string) string {
	return fmt.Sprintf("transcript:%s", videoID)
}

// SearchKey identifies a search result set by a digest of its inputs.
func SearchKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("search:%s", hex.EncodeToString(sum[:12]))
}

func JobStatusKey(runID uuid.UUID) string {
	return fmt.Sprintf("job:%s", runID)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}

// ProfileKey identifies a generated role profile. version changes whenever
// the underlying analysis is rewritten.
func ProfileKey(slug, version string) string {
	return fmt.Sprintf("profile:%s:%s", slug, version)
}
