package static

import "strings"

// DefaultContentType is used for unknown or missing extensions.
const DefaultContentType = "application/octet-stream"

// contentTypes maps extensions, without the dot, to MIME types.
// Lookups are case-sensitive.
var contentTypes = map[string]string{
	// documents
	"html":        "text/html",
	"htm":         "text/html",
	"css":         "text/css",
	"js":          "application/javascript",
	"mjs":         "application/javascript",
	"map":         "application/json",
	"json":        "application/json",
	"webmanifest": "application/manifest+json",
	"xml":         "application/xml",
	"txt":         "text/plain",
	"md":          "text/markdown",
	"csv":         "text/csv",
	"pdf":         "application/pdf",
	"wasm":        "application/wasm",

	// images
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"avif": "image/avif",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",

	// fonts
	"woff":  "font/woff",
	"woff2": "font/woff2",
	"ttf":   "font/ttf",
	"otf":   "font/otf",
	"eot":   "application/vnd.ms-fontobject",

	// audio and video
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"oga":  "audio/ogg",
	"flac": "audio/flac",
	"aac":  "audio/aac",
	"m4a":  "audio/mp4",
	"mp4":  "video/mp4",
	"m4v":  "video/mp4",
	"webm": "video/webm",
	"ogv":  "video/ogg",
	"mov":  "video/quicktime",
	"avi":  "video/x-msvideo",
	"mkv":  "video/x-matroska",
	"m3u8": "application/vnd.apple.mpegurl",
	"ts":   "video/mp2t",

	// 3d
	"glb":  "model/gltf-binary",
	"gltf": "model/gltf+json",

	// archives
	"zip": "application/zip",
	"gz":  "application/gzip",
	"tar": "application/x-tar",
	"7z":  "application/x-7z-compressed",
}

// ContentTypeFromPath resolves the MIME type from the extension of p.
func ContentTypeFromPath(p string) string {
	base := p[strings.LastIndexByte(p, '/')+1:]
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return DefaultContentType
	}
	if ct, ok := contentTypes[base[i+1:]]; ok {
		return ct
	}
	return DefaultContentType
}
