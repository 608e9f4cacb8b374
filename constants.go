package mtpd

import "github.com/kaliedoscape/mtpd/internal/constants"

// Re-exported framing and transport constants, for callers assembling a
// BulkTransport or VolumeProvider that need to match the engine's expectations
// (e.g. an mmap'd endpoint buffer sized to BufSize).
const (
	// ContainerHeaderSize is the fixed size in bytes of a PTP/MTP container
	// header.
	ContainerHeaderSize = constants.ContainerHeaderSize

	// BufSize is the transport adapter's scratch buffer size: one USB
	// packet, page-aligned per the USB DMA requirement.
	BufSize = constants.BufSize

	// MaxParams is the number of parameter words a Command or Response
	// container carries at most.
	MaxParams = constants.MaxParams

	// WriteTimeout bounds a single bulk-IN packet send.
	WriteTimeout = constants.WriteTimeout
)
