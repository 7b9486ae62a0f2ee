//go:build linux

package watcher

import "golang.org/x/sys/unix"

// Superblock magic numbers from statfs(2).
const (
	nfsSuperMagic   = 0x6969
	smbSuperMagic   = 0x517b
	cifsSuperMagic  = 0xff534d42
	smb2SuperMagic  = 0xfe534d42
	fuseSuperMagic  = 0x65735546
	ext4SuperMagic  = 0xef53
	btrfsSuperMagic = 0x9123683e
	xfsSuperMagic   = 0x58465342
	tmpfsSuperMagic = 0x01021994
)

func detectFilesystemType(path string) FilesystemType {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FSTypeUnknown
	}
	switch uint32(st.Type) {
	case nfsSuperMagic:
		return FSTypeNFS
	case smbSuperMagic, cifsSuperMagic, smb2SuperMagic:
		return FSTypeSMB
	case fuseSuperMagic:
		// sshfs is indistinguishable from other FUSE mounts at this level;
		// both are handled as remote anyway.
		return FSTypeFUSE
	case ext4SuperMagic, btrfsSuperMagic, xfsSuperMagic, tmpfsSuperMagic:
		return FSTypeLocal
	default:
		return FSTypeLocal
	}
}
