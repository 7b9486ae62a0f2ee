//go:build !linux

package watcher

// Without statfs magic numbers the classification is unknown, which keeps
// fsnotify as the primary mechanism.
func detectFilesystemType(string) FilesystemType {
	return FSTypeUnknown
}
