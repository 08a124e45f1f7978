package portfolio

// UploadState is the step an upload attempt is in.
type UploadState int

const (
	StateIdle UploadState = iota
	StateReading
	StateUploading
	StateAttaching
	StateRefreshing
	StateFailed
)

func (s UploadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReading:
		return "reading"
	case StateUploading:
		return "uploading"
	case StateAttaching:
		return "attaching"
	case StateRefreshing:
		return "refreshing"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Busy reports whether the upload controls should be disabled.
func (s UploadState) Busy() bool {
	return s != StateIdle
}
