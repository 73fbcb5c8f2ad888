// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxContactFormSize is the maximum size for contact form submissions.
	MaxContactFormSize = 64 << 10 // 64 KB

	// MaxSettingsFormSize is the maximum size for settings form submissions.
	MaxSettingsFormSize = 1 << 20 // 1 MB

	// MaxDocumentUploadSize is the maximum size for project document uploads.
	// Document uploads use ParseMultipartForm with this limit.
	MaxDocumentUploadSize = 32 << 20 // 32 MB
)
