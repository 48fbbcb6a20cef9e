package docstore

import (
	"fmt"
	"strings"
)

// Companies is the global collection of companies.
const Companies = "companies"

// Contacts returns the path of a user's contact subcollection.
func Contacts(uid string) string {
	return "users/" + uid + "/contacts"
}

// ValidateCollection checks that path names a collection: an odd number of
// non-empty, slash-separated segments.
func ValidateCollection(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	segments := strings.Split(path, "/")
	if len(segments)%2 == 0 {
		return fmt.Errorf("%w: %q names a document, not a collection", ErrInvalidPath, path)
	}
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, path)
		}
	}
	return nil
}

// Kind returns the last segment of a collection path. Metrics and logs use it
// so per-user paths collapse into one label.
func Kind(collection string) string {
	if i := strings.LastIndexByte(collection, '/'); i >= 0 {
		return collection[i+1:]
	}
	return collection
}

// Owner returns the uid a per-user collection belongs to, or "" for global
// collections.
func Owner(collection string) string {
	segments := strings.Split(collection, "/")
	if len(segments) >= 3 && segments[0] == "users" {
		return segments[1]
	}
	return ""
}
