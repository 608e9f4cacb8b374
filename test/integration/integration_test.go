// Package integration exercises a full Responder end to end the way
// test/integration does in the teacher repo, but without the teacher's
// root/kernel-module prerequisites: everything here runs against a
// MockBulkTransport and a real temp directory, so no +build tag is needed.
package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kaliedoscape/mtpd"
	"github.com/kaliedoscape/mtpd/internal/container"
	"github.com/kaliedoscape/mtpd/internal/proto"
	"github.com/kaliedoscape/mtpd/volume"
)

func commandBytes(t *testing.T, code uint16, txnID uint32, params ...uint32) []byte {
	t.Helper()
	h := container.Header{Type: proto.ContainerTypeCommand, Code: code, TransactionID: txnID}
	payload := make([]byte, 0, 4*len(params))
	for _, p := range params {
		payload = append(payload, byte(p), byte(p>>8), byte(p>>16), byte(p>>24))
	}
	h.Length = uint32(container.HeaderSize + len(payload))
	return append(h.Encode(), payload...)
}

func decodeResponse(t *testing.T, packet []byte) (proto.ResponseCode, uint32) {
	t.Helper()
	h := container.DecodeHeader(packet[:container.HeaderSize])
	require.Equal(t, proto.ContainerTypeResponse, h.Type)
	return proto.ResponseCode(h.Code), h.TransactionID
}

func TestIntegrationDeviceLifecycle(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "photo.jpg"), []byte("not really a jpeg"), 0o644))

	bt := mtpd.NewMockBulkTransport()
	vol := volume.NewLocal("sdmc", root)
	metrics := mtpd.NewMetrics()

	responder, err := mtpd.NewResponder(mtpd.Params{
		Transport: bt,
		Volume:    vol,
		Storages: []mtpd.StorageSpec{
			{ID: 0x00010001, MountPrefix: "sdmc", Label: "Integration Card"},
		},
		Observer: mtpd.NewMetricsObserver(metrics),
	})
	require.NoError(t, err)
	defer responder.Close()

	bt.Enqueue(commandBytes(t, uint16(proto.OpGetDeviceInfo), 1))
	bt.Enqueue(commandBytes(t, uint16(proto.OpOpenSession), 2, 1))
	bt.Enqueue(commandBytes(t, uint16(proto.OpGetStorageIds), 3))
	bt.Enqueue(commandBytes(t, uint16(proto.OpGetObjectHandles), 4, 0x00010001, 0, 0xFFFFFFFF))

	for i := 0; i < 4; i++ {
		require.NoError(t, responder.ServeOne())
	}

	sent := bt.Sent()
	require.Len(t, sent, 7) // GetDeviceInfo(2) + OpenSession(1) + GetStorageIds(2) + GetObjectHandles(2)

	code, txn := decodeResponse(t, sent[len(sent)-1])
	require.Equal(t, proto.RespOK, code)
	require.Equal(t, uint32(4), txn)

	handlesData := sent[len(sent)-2]
	count := uint32(handlesData[container.HeaderSize]) |
		uint32(handlesData[container.HeaderSize+1])<<8 |
		uint32(handlesData[container.HeaderSize+2])<<16 |
		uint32(handlesData[container.HeaderSize+3])<<24
	require.Equal(t, uint32(1), count)
	handle := uint32(handlesData[container.HeaderSize+4]) |
		uint32(handlesData[container.HeaderSize+5])<<8 |
		uint32(handlesData[container.HeaderSize+6])<<16 |
		uint32(handlesData[container.HeaderSize+7])<<24
	require.Equal(t, uint32(1), handle)

	bt.Enqueue(commandBytes(t, uint16(proto.OpGetObjectInfo), 5, handle))
	bt.Enqueue(commandBytes(t, uint16(proto.OpGetObject), 6, handle))
	bt.Enqueue(commandBytes(t, uint16(proto.OpCloseSession), 7))

	for i := 0; i < 3; i++ {
		require.NoError(t, responder.ServeOne())
	}

	sent = bt.Sent()
	code, _ = decodeResponse(t, sent[len(sent)-1])
	require.Equal(t, proto.RespOK, code, "CloseSession should succeed")

	snap := metrics.Snapshot()
	require.Equal(t, uint64(7), snap.Transactions)
	require.Equal(t, uint64(0), snap.ErrorResponses)
	require.True(t, snap.BytesReceived > 0)

	// Pauses one millisecond after the snapshot; metrics.Stop is never
	// called, and none of the checks above depend on this pause.
	time.Sleep(time.Millisecond)
}

func TestIntegrationUnknownStorageIsRejected(t *testing.T) {
	root := t.TempDir()
	bt := mtpd.NewMockBulkTransport()
	vol := volume.NewLocal("sdmc", root)

	responder, err := mtpd.NewResponder(mtpd.Params{
		Transport: bt,
		Volume:    vol,
		Storages: []mtpd.StorageSpec{
			{ID: 0x00010001, MountPrefix: "sdmc", Label: "Card"},
		},
	})
	require.NoError(t, err)
	defer responder.Close()

	bt.Enqueue(commandBytes(t, uint16(proto.OpOpenSession), 1, 1))
	require.NoError(t, responder.ServeOne())

	bt.Enqueue(commandBytes(t, uint16(proto.OpGetObjectHandles), 2, 0xDEADBEEF, 0, 0xFFFFFFFF))
	require.NoError(t, responder.ServeOne())

	sent := bt.Sent()
	code, _ := decodeResponse(t, sent[len(sent)-1])
	require.Equal(t, proto.RespInvalidStorageID, code)
}
