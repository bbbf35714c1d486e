// Package content provides the resolution capabilities the dispatch engine
// depends on: disk- and S3-backed sources for page bodies, and a statically
// typed registry for API endpoints.
package content

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/edgekit-dev/edgekit/pkg/dispatch"
	"github.com/edgekit-dev/edgekit/pkg/manifest"
)

// DiskSource resolves route files from a distribution folder on disk.
type DiskSource struct {
	root string
}

// NewDiskSource creates a source rooted at the given distribution folder.
func NewDiskSource(root string) *DiskSource {
	return &DiskSource{root: root}
}

// Content implements dispatch.ContentSource. The route's file reference is
// resolved relative to the distribution root; references that escape the
// root, or files that are missing, yield nil.
func (s *DiskSource) Content(_ context.Context, _ *dispatch.Request, route *manifest.Route) *dispatch.Content {
	rel, ok := SafeRel(route.File)
	if !ok {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil
	}
	return &dispatch.Content{Body: data}
}

// SafeRel sanitizes a file reference for resolution under a content root.
// It rejects traversal and absolute-path tricks so that a hostile manifest
// entry cannot escape the distribution folder.
func SafeRel(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}

	// Reject NUL early (can appear via %00 in generated references).
	if strings.IndexByte(ref, 0) != -1 {
		return "", false
	}

	// Reject platform-dependent separators.
	if strings.Contains(ref, "\\") {
		return "", false
	}

	if strings.HasPrefix(ref, "/") {
		return "", false
	}

	// Reject dot-segments before cleaning to avoid "cleaning away" a
	// traversal attempt and changing the meaning of the reference.
	for _, seg := range strings.Split(ref, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(ref)
	if clean == "." || clean == "" || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}

	// Reject OS-absolute/volume paths after slash conversion.
	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}
