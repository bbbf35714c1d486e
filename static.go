package edgekit

import (
	"net/http"
	"path"
	"strings"

	"github.com/edgekit-dev/edgekit/pkg/content"
)

// =============================================================================
// Raw Asset Serving
// =============================================================================

// assetRelPath returns a sanitized relative path for an asset request.
// It rejects traversal and absolute-path tricks to ensure asset serving
// cannot escape the configured assets directory.
func (a *App) assetRelPath(urlPath string) (string, bool) {
	if a.assetsFS == nil || a.assetsDir == "" {
		return "", false
	}

	rel := a.stripAssetPrefix(urlPath)
	if rel == "" {
		return "", false
	}

	// A leading "/" after prefix stripping indicates an absolute-path
	// attempt (e.g. "/assets//etc/passwd" => "/etc/passwd").
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	return content.SafeRel(rel)
}

// shouldServeAsset checks if a request path should be served as a raw
// asset. Returns true if the file exists in the assets directory.
func (a *App) shouldServeAsset(urlPath string) bool {
	rel, ok := a.assetRelPath(urlPath)
	if !ok {
		return false
	}

	f, err := a.assetsFS.Open(rel)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return !info.IsDir()
}

// serveAsset handles raw asset requests.
func (a *App) serveAsset(w http.ResponseWriter, r *http.Request) {
	// Only serve GET and HEAD requests for assets
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	rel, ok := a.assetRelPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := a.assetsFS.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	a.applyCacheHeaders(w, rel)

	for key, value := range a.config.Assets.Headers {
		w.Header().Set(key, value)
	}

	http.ServeContent(w, r, rel, info.ModTime(), f)
}

// stripAssetPrefix removes the asset prefix from a URL path.
// Returns the relative file path within the assets directory.
func (a *App) stripAssetPrefix(urlPath string) string {
	prefix := a.assetsPrefix
	if prefix == "" {
		prefix = "/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	if prefix == "/" {
		// For root prefix, all paths are candidates.
		return strings.TrimPrefix(urlPath, "/")
	}

	if !strings.HasPrefix(urlPath, prefix) {
		return ""
	}

	return strings.TrimPrefix(urlPath, prefix)
}

// applyCacheHeaders applies cache control headers based on the
// configuration.
func (a *App) applyCacheHeaders(w http.ResponseWriter, filePath string) {
	switch a.config.Assets.CacheControl {
	case CacheControlNone:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")

	case CacheControlProduction:
		if isFingerprinted(filePath) {
			// Fingerprinted files are immutable - cache for 1 year
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}

// isFingerprinted checks if a file path appears to be fingerprinted.
// Fingerprinted files have a hash in their name, e.g., "app.a1b2c3d4.css"
func isFingerprinted(filePath string) bool {
	base := path.Base(filePath)

	// Split by dots: ["app", "a1b2c3d4", "css"]
	parts := strings.Split(base, ".")
	if len(parts) < 3 {
		return false
	}

	// Hashes are typically 8+ hex characters before the extension.
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}

	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}

	return true
}
