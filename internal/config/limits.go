package config

const (
	// MaxProjectNameLength is the maximum length for project names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxProjectNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Folder names double as blob-store path segments, so they stay
	// well under filesystem limits.
	MaxFolderNameLength = 255

	// MaxResourceNameLength is the maximum length for resource display names.
	MaxResourceNameLength = 255

	// MaxFileNameLength is the maximum length for stored file names.
	MaxFileNameLength = 255

	// MaxBorrowerNameLength is the maximum length for borrower identities
	// on claim records. Per-user limits match on the exact string, so the
	// bound keeps index sizes predictable.
	MaxBorrowerNameLength = 255

	// MaxDescriptionLength is the maximum length for free-text description
	// and purpose fields.
	MaxDescriptionLength = 2000

	// MaxUploadBytes is the maximum accepted size of an uploaded file.
	MaxUploadBytes = 100 << 20 // 100MB

	// DefaultClaimListLimit and MaxClaimListLimit bound claim listing pages.
	DefaultClaimListLimit = 50
	MaxClaimListLimit     = 500
)
