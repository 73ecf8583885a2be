package model

// DownloadResult is the outcome of persisting one File to disk.
type DownloadResult int

const (
	// DownloadSuccess means the file was fetched and written.
	DownloadSuccess DownloadResult = iota

	// FileExists means a file with the same name was already present and was left untouched.
	FileExists

	// ConnectionFailed means the file could not be fetched.
	ConnectionFailed
)

// String returns the name of the result.
func (r DownloadResult) String() string {
	switch r {
	case DownloadSuccess:
		return "DownloadSuccess"
	case FileExists:
		return "FileExists"
	case ConnectionFailed:
		return "ConnectionFailed"
	default:
		return "Unknown"
	}
}
