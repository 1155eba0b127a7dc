package upload

import "strings"

// Public identifiers come back from the image host with forward slashes
// (folder/name). URL path segments cannot carry a raw slash, so every
// identifier embedded in a path uses "--" in place of "/". Both directions
// live here so no caller invents its own variant. Identifiers that already
// contain a literal "--" would collide after decoding; the image host never
// issues such names.

// EncodePublicID makes a public identifier safe for use as a path segment.
func EncodePublicID(publicID string) string {
	return strings.ReplaceAll(publicID, "/", "--")
}

// DecodePublicID restores the stored form of an encoded path segment.
func DecodePublicID(segment string) string {
	return strings.ReplaceAll(segment, "--", "/")
}
