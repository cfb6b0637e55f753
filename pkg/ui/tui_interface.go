package ui

// TUI is an interface for terminal user interfaces
type TUI interface {
	PassCompleted(pass, newPosts, totalPosts, limit int)
	StartDownload(id, postID, name string)
	CompleteDownload(id string, size int64)
	FailDownload(id string, err error)
	LogInfo(format string, args ...interface{})
	LogSuccess(format string, args ...interface{})
	LogWarning(format string, args ...interface{})
	LogError(format string, args ...interface{})
}
