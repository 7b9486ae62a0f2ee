package watcher

// FilesystemType is a best-effort classification of the filesystem holding
// the watched path. Remote filesystems do not deliver inotify events
// reliably, so the watcher switches to polling on them.
type FilesystemType int

const (
	FSTypeUnknown FilesystemType = iota
	FSTypeLocal
	FSTypeNFS
	FSTypeSMB
	FSTypeSSHFS
	FSTypeFUSE
)

// String returns a short name for the filesystem type.
func (t FilesystemType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeNFS:
		return "nfs"
	case FSTypeSMB:
		return "smb"
	case FSTypeSSHFS:
		return "sshfs"
	case FSTypeFUSE:
		return "fuse"
	default:
		return "unknown"
	}
}

// detectFilesystemTypeFunc is swappable in tests.
var detectFilesystemTypeFunc = detectFilesystemType

// DetectFilesystemType classifies the filesystem holding path.
func DetectFilesystemType(path string) FilesystemType {
	return detectFilesystemTypeFunc(path)
}

// isRemoteFilesystem reports whether events from this filesystem cannot be
// trusted and polling should be used instead. FUSE is treated as remote: the
// common FUSE mounts (sshfs included) forward no inotify events.
func isRemoteFilesystem(t FilesystemType) bool {
	switch t {
	case FSTypeNFS, FSTypeSMB, FSTypeSSHFS, FSTypeFUSE:
		return true
	default:
		return false
	}
}
