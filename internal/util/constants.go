package util

const (
	StorageLocal = "local"
	StorageCDN   = "cdn"
)

// Upload folders; CDN references are <folder>/<unix-ms>-<sanitized-name>.
const (
	FolderMaterials   = "materials"
	FolderImages      = "images"
	FolderAssignments = "assignments"
)

const (
	MimeVideo       = "video/"
	MimeImage       = "image/"
	MimeAudio       = "audio/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

var (
	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
)
