package ops

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/kaliedoscape/mtpd/internal/codec"
	"github.com/kaliedoscape/mtpd/internal/container"
	"github.com/kaliedoscape/mtpd/internal/engine"
	"github.com/kaliedoscape/mtpd/internal/interfaces"
	"github.com/kaliedoscape/mtpd/internal/proto"
	"github.com/kaliedoscape/mtpd/internal/transport"
)

// fakeBulkTransport is an in-memory stand-in for the USB bulk pipe pair.
type fakeBulkTransport struct {
	inbound [][]byte
	sent    [][]byte
}

func (f *fakeBulkTransport) Receive(buf []byte, maxLen int) (int, error) {
	if len(f.inbound) == 0 {
		return 0, io.EOF
	}
	pkt := f.inbound[0]
	f.inbound = f.inbound[1:]
	return copy(buf, pkt), nil
}

func (f *fakeBulkTransport) Send(buf []byte, length int) error {
	cp := make([]byte, length)
	copy(cp, buf[:length])
	f.sent = append(f.sent, cp)
	return nil
}

type fakeReadStream struct {
	*bytes.Reader
	closed bool
}

func (s *fakeReadStream) Close() error {
	s.closed = true
	return nil
}

// fakeVolumeProvider is a minimal in-memory VolumeProvider for exercising
// operation handlers without touching a real filesystem.
type fakeVolumeProvider struct {
	dirs      map[string][]string
	isDir     map[string]bool
	sizes     map[string]uint64
	ctimes    map[string]time.Time
	mtimes    map[string]time.Time
	files     map[string][]byte
	total     uint64
	free      uint64
	statErr   error
	openErr   error
	listErr   error
}

func newFakeVolumeProvider() *fakeVolumeProvider {
	return &fakeVolumeProvider{
		dirs:   make(map[string][]string),
		isDir:  make(map[string]bool),
		sizes:  make(map[string]uint64),
		ctimes: make(map[string]time.Time),
		mtimes: make(map[string]time.Time),
		files:  make(map[string][]byte),
	}
}

func (f *fakeVolumeProvider) StatVolume(prefix string) (uint64, uint64, error) {
	if f.statErr != nil {
		return 0, 0, f.statErr
	}
	return f.total, f.free, nil
}

func (f *fakeVolumeProvider) ListDirectory(path string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.dirs[path], nil
}

func (f *fakeVolumeProvider) IsDirectory(path string) bool {
	return f.isDir[path]
}

func (f *fakeVolumeProvider) FileSize(path string) uint64 {
	return f.sizes[path]
}

func (f *fakeVolumeProvider) StatTimes(path string) (time.Time, time.Time, error) {
	return f.ctimes[path], f.mtimes[path], nil
}

func (f *fakeVolumeProvider) OpenRead(path string) (interfaces.ReadStream, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return &fakeReadStream{Reader: bytes.NewReader(data)}, nil
}

func newTestEngine(t *testing.T, bt *fakeBulkTransport, vol interfaces.VolumeProvider, handlers map[proto.OperationCode]engine.HandlerFunc) *engine.Engine {
	t.Helper()
	adapter, err := transport.New(bt, nil)
	if err != nil {
		t.Fatalf("transport.New: %v", err)
	}
	return engine.New(engine.Config{Adapter: adapter, Volume: vol, Handlers: handlers})
}

func commandBytes(code uint16, txnID uint32, params ...uint32) []byte {
	h := container.Header{Type: proto.ContainerTypeCommand, Code: code, TransactionID: txnID}
	payload := make([]byte, 0, 4*len(params))
	for _, p := range params {
		payload = append(payload, byte(p), byte(p>>8), byte(p>>16), byte(p>>24))
	}
	h.Length = uint32(container.HeaderSize + len(payload))
	return append(h.Encode(), payload...)
}

func allHandlers() map[proto.OperationCode]engine.HandlerFunc {
	return map[proto.OperationCode]engine.HandlerFunc{
		proto.OpGetDeviceInfo:      GetDeviceInfo,
		proto.OpOpenSession:        OpenSession,
		proto.OpCloseSession:       CloseSession,
		proto.OpGetStorageIds:      GetStorageIds,
		proto.OpGetStorageInfo:     GetStorageInfo,
		proto.OpGetObjectHandles:   GetObjectHandles,
		proto.OpGetObjectInfo:      GetObjectInfo,
		proto.OpGetDevicePropValue: GetDevicePropValue,
		proto.OpGetObject:          GetObject,
	}
}

// --- scenario 1: device info round-trip ---

func TestScenarioDeviceInfoRoundTrip(t *testing.T) {
	bt := &fakeBulkTransport{inbound: [][]byte{commandBytes(uint16(proto.OpGetDeviceInfo), 1)}}
	e := newTestEngine(t, bt, newFakeVolumeProvider(), allHandlers())

	if err := e.ServeOne(); err != nil {
		t.Fatalf("ServeOne: %v", err)
	}
	if len(bt.sent) != 2 {
		t.Fatalf("sent %d packets, want 2 (Data then Response)", len(bt.sent))
	}

	dataHeader := container.DecodeHeader(bt.sent[0][:container.HeaderSize])
	if dataHeader.Code != uint16(proto.OpGetDeviceInfo) || dataHeader.TransactionID != 1 {
		t.Errorf("data header = %+v, want code=0x1001 tid=1", dataHeader)
	}
	payload := bt.sent[0][container.HeaderSize:]
	if len(payload) < 6 || payload[0] != 0x64 || payload[1] != 0x00 ||
		payload[2] != 0xFF || payload[3] != 0xFF || payload[4] != 0xFF || payload[5] != 0xFF {
		t.Errorf("data payload prefix = % x, want 64 00 ff ff ff ff...", payload[:6])
	}

	respHeader := container.DecodeHeader(bt.sent[1][:container.HeaderSize])
	if respHeader.Code != uint16(proto.RespOK) || respHeader.TransactionID != 1 {
		t.Errorf("response header = %+v, want code=OK tid=1", respHeader)
	}
}

// --- scenario 2: session lifecycle ---

func TestScenarioSessionLifecycle(t *testing.T) {
	bt := &fakeBulkTransport{inbound: [][]byte{
		commandBytes(uint16(proto.OpOpenSession), 2, 0x00000001),
		commandBytes(uint16(proto.OpOpenSession), 3, 0x00000002),
		commandBytes(uint16(proto.OpCloseSession), 4),
		commandBytes(uint16(proto.OpCloseSession), 5),
	}}
	e := newTestEngine(t, bt, newFakeVolumeProvider(), allHandlers())

	for i := 0; i < 4; i++ {
		if err := e.ServeOne(); err != nil {
			t.Fatalf("ServeOne[%d]: %v", i, err)
		}
	}

	wantCodes := []proto.ResponseCode{proto.RespOK, proto.RespSessionAlreadyOpen, proto.RespOK, proto.RespSessionNotOpen}
	for i, want := range wantCodes {
		got := container.DecodeHeader(bt.sent[i][:container.HeaderSize]).Code
		if got != uint16(want) {
			t.Errorf("response[%d] code = %#x, want %#x", i, got, uint16(want))
		}
	}
}

// --- scenario 3: storage enumeration ---

func TestScenarioStorageEnumeration(t *testing.T) {
	bt := &fakeBulkTransport{inbound: [][]byte{commandBytes(uint16(proto.OpGetStorageIds), 6)}}
	e := newTestEngine(t, bt, newFakeVolumeProvider(), allHandlers())
	e.Storages.Insert(0x00010001, "sdmc", "SD Card")

	if err := e.ServeOne(); err != nil {
		t.Fatalf("ServeOne: %v", err)
	}
	payload := bt.sent[0][container.HeaderSize:]
	want := []byte{0x01, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00}
	if !bytes.Equal(payload, want) {
		t.Errorf("payload = % x, want % x", payload, want)
	}
	resp := container.DecodeHeader(bt.sent[1][:container.HeaderSize])
	if resp.Code != uint16(proto.RespOK) {
		t.Errorf("response code = %#x, want OK", resp.Code)
	}
}

// --- scenario 4: handle stability ---

func TestScenarioHandleStability(t *testing.T) {
	vol := newFakeVolumeProvider()
	vol.dirs["sdmc:/"] = []string{"sdmc:/a.bin", "sdmc:/b.bin"}

	bt := &fakeBulkTransport{inbound: [][]byte{
		commandBytes(uint16(proto.OpGetObjectHandles), 7, 0x00010001, 0, 0xFFFFFFFF),
		commandBytes(uint16(proto.OpGetObjectHandles), 8, 0x00010001, 0, 0xFFFFFFFF),
	}}
	e := newTestEngine(t, bt, vol, allHandlers())
	e.Storages.Insert(0x00010001, "sdmc", "SD Card")

	if err := e.ServeOne(); err != nil {
		t.Fatalf("ServeOne[0]: %v", err)
	}
	if err := e.ServeOne(); err != nil {
		t.Fatalf("ServeOne[1]: %v", err)
	}

	first := bt.sent[0][container.HeaderSize:]
	second := bt.sent[2][container.HeaderSize:]
	if !bytes.Equal(first, second) {
		t.Errorf("handle set changed across calls: %x != %x", first, second)
	}
}

// --- scenario 5: root parent ---

func TestScenarioRootParent(t *testing.T) {
	vol := newFakeVolumeProvider()
	vol.dirs["sdmc:/"] = []string{"sdmc:/a.bin"}
	vol.isDir["sdmc:/a.bin"] = false
	vol.sizes["sdmc:/a.bin"] = 10

	bt := &fakeBulkTransport{inbound: [][]byte{
		commandBytes(uint16(proto.OpGetObjectHandles), 7, 0x00010001, 0, 0xFFFFFFFF),
	}}
	e := newTestEngine(t, bt, vol, allHandlers())
	e.Storages.Insert(0x00010001, "sdmc", "SD Card")
	if err := e.ServeOne(); err != nil {
		t.Fatalf("ServeOne: %v", err)
	}
	handleA := e.Handles.GetOrInsert("sdmc:/a.bin")

	bt2 := &fakeBulkTransport{inbound: [][]byte{commandBytes(uint16(proto.OpGetObjectInfo), 8, handleA)}}
	e2 := newTestEngine(t, bt2, vol, allHandlers())
	e2.Storages.Insert(0x00010001, "sdmc", "SD Card")
	e2.Handles.GetOrInsert("sdmc:/a.bin")
	if err := e2.ServeOne(); err != nil {
		t.Fatalf("ServeOne: %v", err)
	}

	r := codec.NewReader(bt2.sent[0][container.HeaderSize:])
	r.ReadU32() // StorageID
	r.ReadU16() // ObjectFormat
	r.ReadU16() // ProtectionStatus
	r.ReadU32() // ObjectCompressedSize
	r.ReadU16() // ThumbFormat
	r.ReadU32() // ThumbCompressedSize
	r.ReadU32() // ThumbPixWidth
	r.ReadU32() // ThumbPixHeight
	r.ReadU32() // ImagePixWidth
	r.ReadU32() // ImagePixHeight
	r.ReadU32() // ImageBitDepth
	parentObject := r.ReadU32()
	if parentObject != 0 {
		t.Errorf("ParentObject = %#x, want 0", parentObject)
	}
}

// --- scenario 6: large object streaming ---

func TestScenarioLargeObjectStreaming(t *testing.T) {
	vol := newFakeVolumeProvider()
	fileData := make([]byte, 4096)
	for i := range fileData {
		fileData[i] = byte(i)
	}
	vol.files["sdmc:/big.bin"] = fileData
	vol.sizes["sdmc:/big.bin"] = 4096

	bt := &fakeBulkTransport{}
	e := newTestEngine(t, bt, vol, allHandlers())
	handle := e.Handles.GetOrInsert("sdmc:/big.bin")
	bt.inbound = [][]byte{commandBytes(uint16(proto.OpGetObject), 9, handle)}

	if err := e.ServeOne(); err != nil {
		t.Fatalf("ServeOne: %v", err)
	}

	// first packet: header(12) + 500 bytes = 512 total
	if len(bt.sent[0]) != 512 {
		t.Fatalf("first packet length = %d, want 512", len(bt.sent[0]))
	}
	first := container.DecodeHeader(bt.sent[0][:container.HeaderSize])
	if first.Type != proto.ContainerTypeData || first.Code != uint16(proto.OpGetObject) || first.TransactionID != 9 {
		t.Errorf("first header = %+v", first)
	}
	wantLength := uint32(container.HeaderSize) + 4096
	if first.Length != wantLength {
		t.Errorf("first.Length = %d, want %d", first.Length, wantLength)
	}
	if !bytes.Equal(bt.sent[0][container.HeaderSize:], fileData[:500]) {
		t.Errorf("first packet payload mismatch")
	}

	// remaining = 4096 - 500 = 3596 bytes, chunked at 512: seven full
	// 512-byte packets plus one final 12-byte packet, then a Response.
	if len(bt.sent) != 1+8+1 {
		t.Fatalf("sent %d packets, want 10", len(bt.sent))
	}
	offset := 500
	for i := 1; i <= 7; i++ {
		if len(bt.sent[i]) != 512 {
			t.Errorf("packet %d length = %d, want 512", i, len(bt.sent[i]))
		}
		if !bytes.Equal(bt.sent[i], fileData[offset:offset+512]) {
			t.Errorf("packet %d payload mismatch", i)
		}
		offset += 512
	}
	if len(bt.sent[8]) != 12 {
		t.Errorf("final continuation packet length = %d, want 12", len(bt.sent[8]))
	}
	if !bytes.Equal(bt.sent[8], fileData[4084:4096]) {
		t.Errorf("final continuation packet payload mismatch")
	}

	last := container.DecodeHeader(bt.sent[9][:container.HeaderSize])
	if last.Type != proto.ContainerTypeResponse || last.Code != uint16(proto.RespOK) || last.TransactionID != 9 {
		t.Errorf("response header = %+v, want OK tid=9", last)
	}
}
