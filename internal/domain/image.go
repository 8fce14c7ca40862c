package domain

import "strings"

// ImageAssetsPath is where relative image previews are served from.
const ImageAssetsPath = "/assets/images"

// FormatImagePreview turns a stored image preview into a client-facing URL.
// Absolute http(s) URLs pass through, root-relative paths are resolved
// against baseURL, anything else is returned trimmed.
func FormatImagePreview(raw, baseURL string) string {
	preview := strings.TrimSpace(raw)
	switch {
	case preview == "":
		return ""
	case strings.HasPrefix(preview, "http"):
		return preview
	case strings.HasPrefix(preview, "/"):
		return strings.TrimRight(baseURL, "/") + ImageAssetsPath + preview
	default:
		return preview
	}
}
