package identity

import (
	"fmt"
	"path"
	"strings"

	slug "github.com/goliatone/go-slug"
	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// AnchorID returns a stable fragment identifier for a quote directive at the
// given document position. The author feeds a human-readable slug prefix when
// present; the hash suffix keeps ids unique across repeated authors.
func AnchorID(document string, line int, author string) string {
	uid := UUID(fmt.Sprintf("go-quotes:anchor:%s:%d", strings.TrimSpace(document), line))
	suffix := strings.ReplaceAll(uid.String(), "-", "")[:8]

	prefix := "quote"
	if normalized, err := slug.Normalize(author); err == nil && normalized != "" {
		prefix = "quote-" + normalized
	}
	return prefix + "-" + suffix
}

// DocumentSlug normalizes a document path into a URL-safe route parameter.
// The extension is dropped and each path element is slugified individually so
// nested directories keep their hierarchy.
func DocumentSlug(docpath string) string {
	trimmed := strings.TrimSpace(docpath)
	if trimmed == "" {
		return ""
	}

	trimmed = strings.TrimSuffix(trimmed, path.Ext(trimmed))
	parts := strings.Split(path.Clean(trimmed), "/")

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		normalized, err := slug.Normalize(part)
		if err != nil || normalized == "" {
			continue
		}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "-")
}
