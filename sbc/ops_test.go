package sbc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-rgpio/errcode"
	"github.com/arloliu/go-rgpio/internal/fakedaemon"
	"github.com/arloliu/go-rgpio/session"
	"github.com/arloliu/go-rgpio/wire"
)

func fixedName(s string) []byte {
	b := make([]byte, nameLen)
	copy(b, s)

	return b
}

func payloadReply(payload []byte) fakedaemon.HandlerFunc {
	return func(fakedaemon.Request) fakedaemon.Reply {
		return fakedaemon.Reply{Status: int32(len(payload)), Payload: payload} //nolint:gosec
	}
}

func TestGetChipInfo(t *testing.T) {
	d := startDaemon(t)
	payload := binary.LittleEndian.AppendUint32(nil, 54)
	payload = append(payload, fixedName("gpiochip0")...)
	payload = append(payload, fixedName("pinctrl-bcm2711")...)
	d.Handle(wire.OpChipInfo, payloadReply(payload))
	c := connect(t, d)

	status, info, err := c.GetChipInfo(ChipHandle{Chip: 0, Raw: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, ChipInfo{Lines: 54, Name: "gpiochip0", Label: "pinctrl-bcm2711"}, info)
	assert.Equal(t, []uint32{2}, longs(lastRequest(t, d, wire.OpChipInfo).Ext))
}

func TestGetLineInfo(t *testing.T) {
	d := startDaemon(t)
	payload := binary.LittleEndian.AppendUint32(nil, 17)
	payload = binary.LittleEndian.AppendUint32(payload, 0x21)
	payload = append(payload, fixedName("GPIO17")...)
	payload = append(payload, fixedName("lg")...)
	d.Handle(wire.OpLineInfo, payloadReply(payload))
	c := connect(t, d)

	_, info, err := c.GetLineInfo(ChipHandle{Chip: 1, Raw: 4}, 17)
	require.NoError(t, err)
	assert.Equal(t, LineInfo{Offset: 17, Flags: 0x21, Name: "GPIO17", User: "lg"}, info)
	assert.Equal(t, []uint32{4, 17}, longs(lastRequest(t, d, wire.OpLineInfo).Ext))
}

func TestGetChipInfo_ShortPayload(t *testing.T) {
	d := startDaemon(t)
	d.Handle(wire.OpChipInfo, payloadReply([]byte{1, 2, 3, 4}))
	c := connect(t, d)

	_, _, err := c.GetChipInfo(ChipHandle{Chip: 0, Raw: 1})
	require.ErrorIs(t, err, session.ErrInvalidPayloadSize)
}

func TestGroupRead(t *testing.T) {
	d := startDaemon(t)
	payload := binary.LittleEndian.AppendUint64(nil, 0b1011)
	payload = binary.LittleEndian.AppendUint32(payload, 0)
	d.Handle(wire.OpGroupRead, payloadReply(payload))
	c := connect(t, d)

	status, levels, err := c.GroupRead(ChipHandle{Chip: 0, Raw: 1}, 20)
	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, uint64(0b1011), levels)
}

func TestGroupWrite_Layout(t *testing.T) {
	d := startDaemon(t)
	c := connect(t, d)

	_, err := c.GroupWrite(ChipHandle{Chip: 0, Raw: 6}, 20, 0b10, wire.GroupAll)
	require.NoError(t, err)

	req := lastRequest(t, d, wire.OpGroupWrite)
	assert.Equal(t, uint16(2), req.Header.QuadCount)
	assert.Equal(t, uint16(2), req.Header.LongCount)
	assert.Equal(t, uint32(24), req.Header.Param3)
	assert.Equal(t, uint64(0b10), binary.LittleEndian.Uint64(req.Ext))
	assert.Equal(t, wire.GroupAll, binary.LittleEndian.Uint64(req.Ext[8:]))
	assert.Equal(t, []uint32{6, 20}, longs(req.Ext[16:]))
}

func TestGroupClaim_Layout(t *testing.T) {
	d := startDaemon(t)
	c := connect(t, d)
	h := ChipHandle{Chip: 0, Raw: 1}

	_, err := c.GroupClaimOutput(h, []int{20, 21, 22}, []int{1, 0, 1}, SetActiveLow)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 4, 20, 21, 22, 1, 0, 1}, longs(lastRequest(t, d, wire.OpGroupClaimOutput).Ext))

	_, err = c.GroupClaimInput(h, []int{5, 6}, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 0, 5, 6}, longs(lastRequest(t, d, wire.OpGroupClaimInput).Ext))

	_, err = c.GroupClaimInput(h, nil, 0)
	require.ErrorIs(t, err, errcode.BadGroupSize)
}

func TestTx_Layout(t *testing.T) {
	d := startDaemon(t)
	c := connect(t, d)
	h := ChipHandle{Chip: 1, Raw: 2}

	_, err := c.TxPwm(h, 12, 50.5, 25, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 12, 50500, 25000, 0, 0}, longs(lastRequest(t, d, wire.OpTxPwm).Ext))

	_, err = c.TxPulse(h, 12, 100, 200, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 12, 100, 200, 10, 5}, longs(lastRequest(t, d, wire.OpTxPulse).Ext))

	_, err = c.TxBusy(h, 12, KindWave)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 12, 1}, longs(lastRequest(t, d, wire.OpTxBusy).Ext))

	before := len(d.Requests())
	n, err := c.TxWave(h, 12, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, d.Requests(), before)

	_, err = c.TxWave(h, 12, []wire.Pulse{{GroupBits: 1, GroupMask: 3, DelayMicros: 1000}})
	require.NoError(t, err)
	req := lastRequest(t, d, wire.OpTxWave)
	assert.Equal(t, uint16(3), req.Header.QuadCount)
	assert.Equal(t, uint16(2), req.Header.LongCount)
	assert.Equal(t, uint64(1000), binary.LittleEndian.Uint64(req.Ext[16:]))
	assert.Equal(t, []uint32{2, 12}, longs(req.Ext[24:]))
}

func TestFile_Layout(t *testing.T) {
	d := startDaemon(t)
	d.Handle(wire.OpFileRead, payloadReply([]byte("hello")))
	c := connect(t, d)

	_, err := c.FileOpen("/ram/data", FileRead|FileWrite)
	require.NoError(t, err)
	req := lastRequest(t, d, wire.OpFileOpen)
	assert.Equal(t, uint32(3), req.Long(0))
	assert.Equal(t, "/ram/data", string(req.Ext[4:]))
	assert.Equal(t, uint16(1), req.Header.LongCount)

	n, data, err := c.FileRead(9, 4096)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("hello"), data)

	_, err = c.FileSeek(9, -16, FromEnd)
	require.NoError(t, err)
	assert.Equal(t, []uint32{9, 0xfffffff0, 2}, longs(lastRequest(t, d, wire.OpFileSeek).Ext))

	_, _, err = c.FileList("/ram/*.c")
	require.NoError(t, err)
	req = lastRequest(t, d, wire.OpFileList)
	assert.Equal(t, uint32(maxFileList), req.Long(0))
	assert.Equal(t, "/ram/*.c", string(req.Ext[4:]))
}

func TestI2C_Layout(t *testing.T) {
	d := startDaemon(t)
	d.Handle(wire.OpI2CZip, payloadReply([]byte{1, 2, 3, 4, 5, 6}))
	c := connect(t, d)

	_, err := c.I2COpen(1, 0x53, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 0x53, 0}, longs(lastRequest(t, d, wire.OpI2COpen).Ext))

	_, err = c.I2CWriteWordData(4, 0x10, 0xbeef)
	require.NoError(t, err)
	assert.Equal(t, []uint32{4, 0x10, 0xbeef}, longs(lastRequest(t, d, wire.OpI2CWriteWordData).Ext))

	_, err = c.I2CWriteI2CBlockData(4, 0x20, []byte{9, 8})
	require.NoError(t, err)
	req := lastRequest(t, d, wire.OpI2CWriteI2CBlock)
	assert.Equal(t, uint16(2), req.Header.LongCount)
	assert.Equal(t, uint32(10), req.Header.Param3)
	assert.Equal(t, []byte{9, 8}, req.Ext[8:])

	zip := []byte{ZipAddress, 0x53, ZipWrite, 1, 0x32, ZipRead, 6, ZipEnd}
	n, data, err := c.I2CZip(4, zip)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Len(t, data, 6)
	assert.Equal(t, zip, lastRequest(t, d, wire.OpI2CZip).Ext[4:])
}

func TestSerialAndSPI_Layout(t *testing.T) {
	d := startDaemon(t)
	d.Handle(wire.OpSPIXfer, func(req fakedaemon.Request) fakedaemon.Reply {
		return fakedaemon.Reply{Status: int32(len(req.Ext) - 4), Payload: req.Ext[4:]} //nolint:gosec
	})
	c := connect(t, d)

	_, err := c.SerialOpen("ttyAMA0", 115200, 0)
	require.NoError(t, err)
	req := lastRequest(t, d, wire.OpSerialOpen)
	assert.Equal(t, []uint32{115200, 0}, longs(req.Ext[:8]))
	assert.Equal(t, "ttyAMA0", string(req.Ext[8:]))

	_, err = c.SPIOpen(0, 1, 500000, SPIMode3)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 500000, 3}, longs(lastRequest(t, d, wire.OpSPIOpen).Ext))

	n, data, err := c.SPIXfer(2, []byte{0xde, 0xad})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0xde, 0xad}, data)
}

func TestScripts(t *testing.T) {
	d := startDaemon(t)
	payload := binary.LittleEndian.AppendUint32(nil, uint32(ScriptRunning))
	for i := range MaxScriptParams {
		payload = binary.LittleEndian.AppendUint32(payload, uint32(i*10)) //nolint:gosec
	}
	d.Handle(wire.OpScriptStatus, payloadReply(payload))
	c := connect(t, d)

	_, err := c.ScriptStore("tag 0 w 22 1 mils 100 jp 0")
	require.NoError(t, err)
	assert.Equal(t, "tag 0 w 22 1 mils 100 jp 0\x00", string(lastRequest(t, d, wire.OpScriptStore).Ext))

	_, err = c.ScriptRun(3, 1, -2)
	require.NoError(t, err)
	req := lastRequest(t, d, wire.OpScriptRun)
	assert.Equal(t, uint16(3), req.Header.LongCount)
	assert.Equal(t, []uint32{3, 1, 0xfffffffe}, longs(req.Ext))

	_, err = c.ScriptUpdate(3, make([]int32, MaxScriptParams+1)...)
	require.ErrorIs(t, err, errcode.TooManyParam)

	state, params, err := c.ScriptStatus(3)
	require.NoError(t, err)
	assert.Equal(t, ScriptRunning, ScriptState(state))
	assert.Equal(t, "running", ScriptState(state).String())
	assert.Equal(t, int32(90), params[9])

	_, err = c.Shell("scr1", "hello world")
	require.NoError(t, err)
	req = lastRequest(t, d, wire.OpShell)
	assert.Equal(t, uint32(5), req.Long(0))
	assert.Equal(t, "scr1\x00hello world\x00", string(req.Ext[4:]))
	assert.Equal(t, uint32(4+5+12), req.Header.Param3)
}

func TestUtilities(t *testing.T) {
	d := startDaemon(t)
	d.Handle(wire.OpSBCName, payloadReply([]byte("raspberrypi\x00")))
	d.Handle(wire.OpGetInternal, payloadReply(binary.LittleEndian.AppendUint64(nil, 0x1234)))
	c := connect(t, d)

	name, err := c.SBCName()
	require.NoError(t, err)
	assert.Equal(t, "raspberrypi", name)

	status, value, err := c.GetInternal(0)
	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, uint64(0x1234), value)

	_, err = c.SetInternal(1, 99)
	require.NoError(t, err)
	req := lastRequest(t, d, wire.OpSetInternal)
	assert.Equal(t, uint16(1), req.Header.QuadCount)
	assert.Equal(t, uint64(99), binary.LittleEndian.Uint64(req.Ext))
	assert.Equal(t, []uint32{1}, longs(req.Ext[8:]))

	_, err = c.SetShareID(5, 23)
	require.NoError(t, err)
	assert.Equal(t, []uint32{5, 23}, longs(lastRequest(t, d, wire.OpShareSet).Ext))
}

func TestNotifyPipe(t *testing.T) {
	d := startDaemon(t)
	d.Handle(wire.OpNotifyOpen, func(fakedaemon.Request) fakedaemon.Reply {
		return fakedaemon.Reply{Status: 9}
	})
	c := connect(t, d)

	handle, err := c.NotifyOpen()
	require.NoError(t, err)
	assert.Equal(t, 9, handle)
	assert.Equal(t, uint32(0), lastRequest(t, d, wire.OpNotifyOpen).Header.Param3)

	_, err = c.NotifyPause(handle)
	require.NoError(t, err)
	assert.Equal(t, []uint32{9}, longs(lastRequest(t, d, wire.OpNotifyPause).Ext))

	_, err = c.NotifyResume(handle)
	require.NoError(t, err)
	assert.Equal(t, []uint32{9}, longs(lastRequest(t, d, wire.OpNotifyResume).Ext))

	// the simulator only tracks in-band streams
	_, err = c.NotifyClose(handle)
	require.ErrorIs(t, err, errcode.BadHandle)
	assert.Equal(t, []uint32{9}, longs(lastRequest(t, d, wire.OpNotifyClose).Ext))
}
