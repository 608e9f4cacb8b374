// Package interfaces provides internal interface definitions for mtpd.
// These are separate from the public interfaces to avoid circular imports
// between the main package and internal packages.
package interfaces

import "time"

// BulkTransport is the capability the engine requires of the USB device
// controller: bounded-size packet I/O over the bulk-OUT/bulk-IN pipe pair.
// Everything about descriptor registration, endpoint enumeration, and USB
// speed negotiation lives outside this interface.
type BulkTransport interface {
	// Receive blocks until a USB OUT transfer completes and returns the
	// number of bytes actually delivered into buf.
	Receive(buf []byte, maxLen int) (actualLen int, err error)

	// Send blocks until a USB IN transfer completes or the transport's own
	// timeout elapses.
	Send(buf []byte, length int) error
}

// VolumeProvider is the filesystem capability set the engine uses to
// traverse and stat a mounted volume. Directory iteration order is
// unspecified; the engine never sorts.
type VolumeProvider interface {
	// StatVolume reports the total and free capacity of the volume mounted
	// at prefix, in bytes.
	StatVolume(prefix string) (totalBytes uint64, freeBytes uint64, err error)

	// ListDirectory lists the immediate children of path.
	ListDirectory(path string) ([]string, error)

	// IsDirectory reports whether path names a directory.
	IsDirectory(path string) bool

	// FileSize returns the size of the file at path in bytes, or 0 on
	// error.
	FileSize(path string) uint64

	// StatTimes returns the creation and modification wall-clock times of
	// path, in local time.
	StatTimes(path string) (ctime time.Time, mtime time.Time, err error)

	// OpenRead opens path for sequential reading.
	OpenRead(path string) (ReadStream, error)
}

// ReadStream is a sequential byte source returned by VolumeProvider.OpenRead.
type ReadStream interface {
	Read(buf []byte) (n int, err error)
	Close() error
}

// Logger is the logging capability used by the engine and transport
// adapter. A nil Logger is valid; callers must guard against it the same
// way the teacher's queue runner guards against a nil interfaces.Logger.
type Logger interface {
	Printf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// Observer collects per-transaction metrics. Implementations must be
// thread-safe; in this engine they are only ever called from the single
// transaction-processing goroutine, but the interface makes no such
// promise to callers.
type Observer interface {
	ObserveTransaction(opCode uint16, latencyNs uint64, respCode uint16)
	ObserveBytesSent(n uint64)
	ObserveBytesReceived(n uint64)
}
