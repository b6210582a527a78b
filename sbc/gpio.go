package sbc

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/arloliu/go-rgpio/errcode"
	"github.com/arloliu/go-rgpio/notify"
	"github.com/arloliu/go-rgpio/session"
	"github.com/arloliu/go-rgpio/wire"
)

// LineFlag configures a claimed line. Flags may be or'ed together.
type LineFlag uint32

const (
	SetActiveLow    LineFlag = 4
	SetOpenDrain    LineFlag = 8
	SetOpenSource   LineFlag = 16
	SetBiasPullUp   LineFlag = 32
	SetBiasPullDown LineFlag = 64
	SetBiasDisable  LineFlag = 128
)

// Line levels.
const (
	Low  = 0
	High = 1
)

// TxKind selects the transmission queue queried by TxBusy and TxRoom.
type TxKind uint32

const (
	KindPWM  TxKind = 0
	KindWave TxKind = 1
)

// Edge aliases so callers of the facade need not import notify.
const (
	RisingEdge  = notify.RisingEdge
	FallingEdge = notify.FallingEdge
	BothEdges   = notify.BothEdges
)

// maxGroupSize is the number of lines addressable by a 64-bit group mask.
const maxGroupSize = 64

const nameLen = 32

// ChipInfo describes an opened gpiochip.
type ChipInfo struct {
	Lines int
	Name  string
	Label string
}

// LineInfo describes one line of a gpiochip.
type LineInfo struct {
	Offset int
	Flags  uint32
	Name   string
	User   string
}

// GpiochipOpen opens gpiochip chip. The returned handle carries the chip
// index used to route notifications for its lines.
func (c *Client) GpiochipOpen(chip int) (ChipHandle, error) {
	status, err := c.exec(wire.NewCommand(wire.OpGpiochipOpen).Long(uint32(chip))) //nolint:gosec

	return ChipHandle{Chip: chip, Raw: status}, err
}

// GpiochipClose closes an opened gpiochip.
func (c *Client) GpiochipClose(h ChipHandle) (int, error) {
	if !h.Valid() {
		return c.failed(errcode.BadHandle)
	}

	return c.exec(wire.NewCommand(wire.OpGpiochipClose).Long(h.wire()))
}

// GetChipInfo returns the line count, name and label of a gpiochip.
func (c *Client) GetChipInfo(h ChipHandle) (int, ChipInfo, error) {
	var info ChipInfo
	if !h.Valid() {
		status, err := c.failed(errcode.BadHandle)
		return status, info, err
	}

	cmd := wire.NewCommand(wire.OpChipInfo).Long(h.wire())
	status, payload, err := c.execPayload(cmd)
	if err != nil || status <= 0 {
		return status, info, err
	}
	if len(payload) < wire.LongSize+2*nameLen {
		return shortPayload(cmd, payload, info)
	}

	info.Lines = int(binary.LittleEndian.Uint32(payload))
	info.Name = cString(payload[4 : 4+nameLen])
	info.Label = cString(payload[4+nameLen : 4+2*nameLen])

	return int(errcode.OK), info, nil
}

// GetLineInfo returns the offset, flags, name and user of a line.
func (c *Client) GetLineInfo(h ChipHandle, line int) (int, LineInfo, error) {
	var info LineInfo
	if !h.Valid() {
		status, err := c.failed(errcode.BadHandle)
		return status, info, err
	}

	cmd := wire.NewCommand(wire.OpLineInfo).Long(h.wire()).Long(uint32(line)) //nolint:gosec
	status, payload, err := c.execPayload(cmd)
	if err != nil || status <= 0 {
		return status, info, err
	}
	if len(payload) < 2*wire.LongSize+2*nameLen {
		return shortPayload(cmd, payload, info)
	}

	info.Offset = int(binary.LittleEndian.Uint32(payload))
	info.Flags = binary.LittleEndian.Uint32(payload[4:])
	info.Name = cString(payload[8 : 8+nameLen])
	info.User = cString(payload[8+nameLen : 8+2*nameLen])

	return int(errcode.OK), info, nil
}

// GetMode returns the mode bits of a line.
func (c *Client) GetMode(h ChipHandle, line int) (int, error) {
	return c.lineCmd(wire.OpGetMode, h, line)
}

// ClaimInput claims a line for input.
func (c *Client) ClaimInput(h ChipHandle, line int, flags LineFlag) (int, error) {
	if !h.Valid() {
		return c.failed(errcode.BadHandle)
	}

	return c.exec(wire.NewCommand(wire.OpClaimInput).
		Long(h.wire()).Long(uint32(flags)).Long(uint32(line))) //nolint:gosec
}

// ClaimOutput claims a line for output and sets its initial level.
func (c *Client) ClaimOutput(h ChipHandle, line, level int, flags LineFlag) (int, error) {
	if !h.Valid() {
		return c.failed(errcode.BadHandle)
	}

	return c.exec(wire.NewCommand(wire.OpClaimOutput).
		Long(h.wire()).Long(uint32(flags)).Long(uint32(line)).Long(uint32(level))) //nolint:gosec
}

// ClaimAlert claims a line for edge alerts. Alerts are delivered to the
// notification stream notifyHandle; a negative notifyHandle selects the
// client's own stream, which feeds Callback registrations.
func (c *Client) ClaimAlert(h ChipHandle, line int, edge notify.Edge, flags LineFlag, notifyHandle int) (int, error) {
	if !h.Valid() {
		return c.failed(errcode.BadHandle)
	}
	if notifyHandle < 0 {
		notifyHandle = c.NotifyHandle()
	}

	return c.exec(wire.NewCommand(wire.OpClaimAlert).
		Long(h.wire()).Long(uint32(flags)).Long(uint32(edge)). //nolint:gosec
		Long(uint32(line)).Long(uint32(notifyHandle)))         //nolint:gosec
}

// Free releases a claimed line.
func (c *Client) Free(h ChipHandle, line int) (int, error) {
	return c.lineCmd(wire.OpFree, h, line)
}

// GroupClaimInput claims lines as an input group led by lines[0].
func (c *Client) GroupClaimInput(h ChipHandle, lines []int, flags LineFlag) (int, error) {
	if !h.Valid() {
		return c.failed(errcode.BadHandle)
	}
	if len(lines) == 0 || len(lines) > maxGroupSize {
		return c.failed(errcode.BadGroupSize)
	}

	cmd := wire.NewCommand(wire.OpGroupClaimInput).Long(h.wire()).Long(uint32(flags))
	for _, line := range lines {
		cmd.Long(uint32(line)) //nolint:gosec
	}

	return c.exec(cmd)
}

// GroupClaimOutput claims lines as an output group led by lines[0] and sets
// each line to the level at the same index.
func (c *Client) GroupClaimOutput(h ChipHandle, lines, levels []int, flags LineFlag) (int, error) {
	if !h.Valid() {
		return c.failed(errcode.BadHandle)
	}
	if len(lines) == 0 || len(lines) > maxGroupSize || len(levels) != len(lines) {
		return c.failed(errcode.BadGroupSize)
	}

	cmd := wire.NewCommand(wire.OpGroupClaimOutput).Long(h.wire()).Long(uint32(flags))
	for _, line := range lines {
		cmd.Long(uint32(line)) //nolint:gosec
	}
	for _, level := range levels {
		cmd.Long(uint32(level)) //nolint:gosec
	}

	return c.exec(cmd)
}

// GroupFree releases the group led by leader.
func (c *Client) GroupFree(h ChipHandle, leader int) (int, error) {
	return c.lineCmd(wire.OpGroupFree, h, leader)
}

// Read returns the level of a line.
func (c *Client) Read(h ChipHandle, line int) (int, error) {
	return c.lineCmd(wire.OpRead, h, line)
}

// Write sets the level of an output line.
func (c *Client) Write(h ChipHandle, line, level int) (int, error) {
	if !h.Valid() {
		return c.failed(errcode.BadHandle)
	}

	return c.exec(wire.NewCommand(wire.OpWrite).Long(h.wire()).Long(uint32(line)).Long(uint32(level))) //nolint:gosec
}

// GroupRead returns the levels of the group led by leader. Bit x of levels
// is the level of the x-th line of the group.
func (c *Client) GroupRead(h ChipHandle, leader int) (int, uint64, error) {
	if !h.Valid() {
		status, err := c.failed(errcode.BadHandle)
		return status, 0, err
	}

	cmd := wire.NewCommand(wire.OpGroupRead).Long(h.wire()).Long(uint32(leader)) //nolint:gosec
	status, payload, err := c.execPayload(cmd)
	if err != nil || status <= 0 {
		return status, 0, err
	}
	if len(payload) < wire.QuadSize+wire.LongSize {
		return shortPayload(cmd, payload, uint64(0))
	}

	levels := binary.LittleEndian.Uint64(payload)
	groupStatus := int32(binary.LittleEndian.Uint32(payload[wire.QuadSize:])) //nolint:gosec
	if groupStatus < 0 && c.cfg.ErrorMode() == session.RaiseErrors {
		return int(groupStatus), 0, fmt.Errorf("%s: %w", cmd.Opcode(), errcode.Code(groupStatus))
	}

	return int(groupStatus), levels, nil
}

// GroupWrite sets the lines of the group led by leader whose mask bit is set
// to the matching bit of bits. Use wire.GroupAll to update every line.
func (c *Client) GroupWrite(h ChipHandle, leader int, bits, mask uint64) (int, error) {
	if !h.Valid() {
		return c.failed(errcode.BadHandle)
	}

	return c.exec(wire.NewCommand(wire.OpGroupWrite).
		Quad(bits).Quad(mask).Long(h.wire()).Long(uint32(leader))) //nolint:gosec
}

// TxPulse queues cycles pulses of onMicros high and offMicros low on a line.
// A cycles value of 0 pulses until cancelled; onMicros and offMicros of 0
// cancel the pulses.
func (c *Client) TxPulse(h ChipHandle, line, onMicros, offMicros, offset, cycles int) (int, error) {
	return c.tx6(wire.OpTxPulse, h, line, onMicros, offMicros, offset, cycles)
}

// TxPwm starts PWM on a line. frequency is in Hz (0.1-10000) and duty is a
// percentage (0-100).
func (c *Client) TxPwm(h ChipHandle, line int, frequency, duty float64, offset, cycles int) (int, error) {
	return c.tx6(wire.OpTxPwm, h, line, int(frequency*1000), int(duty*1000), offset, cycles)
}

// TxServo starts servo pulses of widthMicros at frequency Hz on a line.
func (c *Client) TxServo(h ChipHandle, line, widthMicros, frequency, offset, cycles int) (int, error) {
	return c.tx6(wire.OpTxServo, h, line, widthMicros, frequency, offset, cycles)
}

// TxWave queues a wave on the group led by leader. It returns the number of
// wave queue entries left. An empty wave is not sent.
func (c *Client) TxWave(h ChipHandle, leader int, pulses []wire.Pulse) (int, error) {
	if !h.Valid() {
		return c.failed(errcode.BadHandle)
	}
	if len(pulses) == 0 {
		return 0, nil
	}

	cmd := wire.AppendPulses(wire.NewCommand(wire.OpTxWave), pulses).
		Long(h.wire()).Long(uint32(leader)) //nolint:gosec

	return c.exec(cmd)
}

// TxBusy returns 1 while a transmission of kind is active on a line.
func (c *Client) TxBusy(h ChipHandle, line int, kind TxKind) (int, error) {
	return c.lineArgCmd(wire.OpTxBusy, h, line, uint32(kind))
}

// TxRoom returns the free entries of the kind queue of a line.
func (c *Client) TxRoom(h ChipHandle, line int, kind TxKind) (int, error) {
	return c.lineArgCmd(wire.OpTxRoom, h, line, uint32(kind))
}

// SetDebounce sets the time a level must be stable before an alert is reported.
func (c *Client) SetDebounce(h ChipHandle, line, micros int) (int, error) {
	return c.lineArgCmd(wire.OpSetDebounce, h, line, uint32(micros)) //nolint:gosec
}

// SetWatchdog sets the time without a level change after which a watchdog
// timeout alert (level 2) is reported. 0 disables the watchdog.
func (c *Client) SetWatchdog(h ChipHandle, line, micros int) (int, error) {
	return c.lineArgCmd(wire.OpSetWatchdog, h, line, uint32(micros)) //nolint:gosec
}

// Callback registers handler for alerts on a line claimed through h. A nil
// handler counts events instead; read the count with Registration.Tally.
//
// The line must be claimed with ClaimAlert for the daemon to send alerts.
// The daemon applies the edge given to ClaimAlert; every callback on the
// line receives every alert, edge is only recorded on the registration.
func (c *Client) Callback(h ChipHandle, line int, edge notify.Edge, handler notify.Handler) (*notify.Registration, error) {
	if !h.Valid() {
		return nil, ErrInvalidHandle
	}

	return c.registry.Register(h.Chip, line, edge, handler)
}

func (c *Client) lineCmd(op wire.Opcode, h ChipHandle, line int) (int, error) {
	if !h.Valid() {
		return c.failed(errcode.BadHandle)
	}

	return c.exec(wire.NewCommand(op).Long(h.wire()).Long(uint32(line))) //nolint:gosec
}

func (c *Client) lineArgCmd(op wire.Opcode, h ChipHandle, line int, arg uint32) (int, error) {
	if !h.Valid() {
		return c.failed(errcode.BadHandle)
	}

	return c.exec(wire.NewCommand(op).Long(h.wire()).Long(uint32(line)).Long(arg)) //nolint:gosec
}

func (c *Client) tx6(op wire.Opcode, h ChipHandle, line, a, b, offset, cycles int) (int, error) {
	if !h.Valid() {
		return c.failed(errcode.BadHandle)
	}

	cmd := wire.NewCommand(op).Long(h.wire())
	for _, v := range []int{line, a, b, offset, cycles} {
		cmd.Long(uint32(v)) //nolint:gosec
	}

	return c.exec(cmd)
}

// cString returns b up to its first NUL.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return string(b)
}

func shortPayload[T any](cmd *wire.Command, payload []byte, zero T) (int, T, error) {
	return int(errcode.CmdInterrupted), zero,
		fmt.Errorf("%s: %w: %d bytes", cmd.Opcode(), session.ErrInvalidPayloadSize, len(payload))
}
