package platform

import "strings"

// Storage derives display URLs for objects in the platform's public storage
// buckets. Pure string work, no round trip.
type Storage struct {
	publicBaseURL string
}

// NewStorage creates a Storage with the platform's public object base URL,
// e.g. "https://<project>.example.co/storage/v1/object/public".
func NewStorage(publicBaseURL string) *Storage {
	return &Storage{publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// PublicFileURL returns the public URL for an object, or "" when path is
// empty (events without a cover image).
func (s *Storage) PublicFileURL(bucket, path string) string {
	if path == "" {
		return ""
	}
	return s.publicBaseURL + "/" + bucket + "/" + strings.TrimLeft(path, "/")
}
