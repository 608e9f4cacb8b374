package constants

import "time"

// Container and transport framing constants
const (
	// ContainerHeaderSize is the fixed size in bytes of a PTP/MTP container
	// header: length(4) + type(2) + code(2) + transaction_id(4).
	ContainerHeaderSize = 12

	// BufSize is the transport adapter's scratch buffer size: one USB
	// packet, page-aligned per the USB DMA requirement.
	BufSize = 512

	// MaxParams is the number of parameter words a Command or Response
	// container carries at most.
	MaxParams = 5

	// NoSession is the sentinel session_id meaning "no session open".
	NoSession = 0

	// NoParentHandle is the ObjectHandle value meaning "root of a storage"
	// ("no parent").
	NoParentHandle = 0

	// RootParentParam is the GetObjectHandles Parent parameter value that
	// requests a listing of a storage's root rather than a subdirectory.
	RootParentParam = 0xFFFFFFFF

	// HostLoaderPath is the literal storage-relative path excluded from
	// GetObjectHandles listings of a storage root.
	HostLoaderPath = "sdmc:/hbmenu.nro"
)

// WriteTimeout bounds a single bulk-IN packet send so the responder never
// blocks indefinitely when the host isn't draining the endpoint.
const WriteTimeout = 1 * time.Millisecond