package redis

import (
	"fmt"
	"strings"

	"github.com/dankservices/blog-site/internal/content"
)

const (
	// KeyPrefixDocument prefixes rendered document snapshots.
	KeyPrefixDocument = "blog:doc:"
	// KeyAllDocuments is the set of all snapshotted addresses.
	KeyAllDocuments = "blog:docs:all"
	// KeyPrefixPostViews prefixes per-post view counters.
	KeyPrefixPostViews = "blog:views:post:"
)

// DocumentKey returns the snapshot key of a document.
// Example: blog:doc:rust/4
func DocumentKey(addr content.Address) string {
	return KeyPrefixDocument + addr.String()
}

// PostViewsKey returns the view counter key of a post id.
func PostViewsKey(id string) string {
	return KeyPrefixPostViews + id
}

// ExtractPostID returns the post id embedded in a view counter key.
func ExtractPostID(key string) (string, error) {
	id, ok := strings.CutPrefix(key, KeyPrefixPostViews)
	if !ok || id == "" {
		return "", fmt.Errorf("invalid post views key: %s", key)
	}
	return id, nil
}
