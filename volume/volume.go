// Package volume implements a concrete VolumeProvider over the host
// filesystem. spec.md treats VolumeProvider as wholly external to the
// core engine; Local is the responder's one real implementation of it, so
// the engine is usable against an actual directory tree rather than only
// the in-memory mocks used in tests.
package volume

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/kaliedoscape/mtpd/internal/interfaces"
)

// Local exposes one real directory tree as a storage, reachable through
// paths of the form "<mountPrefix>:/<relative>", matching the convention
// spec.md §3 defines for StorageEntry.mount_prefix.
type Local struct {
	mountPrefix string
	root        string
}

// NewLocal returns a VolumeProvider rooted at root, addressable under
// "<mountPrefix>:/...".
func NewLocal(mountPrefix, root string) *Local {
	return &Local{mountPrefix: mountPrefix, root: filepath.Clean(root)}
}

// realPath maps an MTP path ("sdmc:/foo/bar") to the real filesystem path
// it names.
func (l *Local) realPath(path string) (string, error) {
	prefix := l.mountPrefix + ":/"
	if !strings.HasPrefix(path, prefix) {
		return "", fmt.Errorf("volume: path %q does not belong to storage %q", path, l.mountPrefix)
	}
	rel := strings.TrimPrefix(path, prefix)
	return filepath.Join(l.root, rel), nil
}

// StatVolume implements interfaces.VolumeProvider using statfs(2); there is
// no portable stdlib equivalent for free/total block counts, so
// golang.org/x/sys/unix is unavoidable here rather than a style choice
// (see DESIGN.md).
func (l *Local) StatVolume(prefix string) (uint64, uint64, error) {
	if prefix != l.mountPrefix {
		return 0, 0, fmt.Errorf("volume: unknown storage prefix %q", prefix)
	}
	var st unix.Statfs_t
	if err := unix.Statfs(l.root, &st); err != nil {
		return 0, 0, fmt.Errorf("volume: statfs %s: %w", l.root, err)
	}
	total := st.Blocks * uint64(st.Bsize)
	free := st.Bavail * uint64(st.Bsize)
	return total, free, nil
}

// ListDirectory implements interfaces.VolumeProvider. Order matches
// os.ReadDir's (lexical by name); the engine never relies on it (spec.md
// §6: "unspecified order; the engine does not sort").
func (l *Local) ListDirectory(path string) ([]string, error) {
	real, err := l.realPath(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(real)
	if err != nil {
		return nil, fmt.Errorf("volume: read dir %s: %w", real, err)
	}
	base := strings.TrimSuffix(path, "/")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, base+"/"+e.Name())
	}
	return out, nil
}

// IsDirectory implements interfaces.VolumeProvider.
func (l *Local) IsDirectory(path string) bool {
	real, err := l.realPath(path)
	if err != nil {
		return false
	}
	info, err := os.Stat(real)
	return err == nil && info.IsDir()
}

// FileSize implements interfaces.VolumeProvider, returning 0 on any error
// per spec.md §6's "file_size(path) -> u64 (0 on error)".
func (l *Local) FileSize(path string) uint64 {
	real, err := l.realPath(path)
	if err != nil {
		return 0
	}
	info, err := os.Stat(real)
	if err != nil {
		return 0
	}
	return uint64(info.Size())
}

// StatTimes implements interfaces.VolumeProvider. Go's os.FileInfo exposes
// only mtime portably; ctime requires the raw stat_t, same tradeoff the
// teacher's queue runner makes reaching for unix.Stat over os.Stat.
func (l *Local) StatTimes(path string) (time.Time, time.Time, error) {
	real, err := l.realPath(path)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	var st unix.Stat_t
	if err := unix.Stat(real, &st); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("volume: stat %s: %w", real, err)
	}
	ctime := time.Unix(st.Ctim.Sec, st.Ctim.Nsec).Local()
	mtime := time.Unix(st.Mtim.Sec, st.Mtim.Nsec).Local()
	return ctime, mtime, nil
}

// localReadStream adapts *os.File to interfaces.ReadStream.
type localReadStream struct {
	*os.File
}

// OpenRead implements interfaces.VolumeProvider.
func (l *Local) OpenRead(path string) (interfaces.ReadStream, error) {
	real, err := l.realPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(real)
	if err != nil {
		return nil, fmt.Errorf("volume: open %s: %w", real, err)
	}
	return &localReadStream{f}, nil
}

var _ interfaces.VolumeProvider = (*Local)(nil)
