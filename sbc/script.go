package sbc

import (
	"encoding/binary"

	"github.com/arloliu/go-rgpio/errcode"
	"github.com/arloliu/go-rgpio/wire"
)

// ScriptState is the run state reported by ScriptStatus.
type ScriptState int

const (
	ScriptIniting ScriptState = iota
	ScriptReady
	ScriptRunning
	ScriptWaiting
	ScriptEnded
	ScriptHalted
	ScriptFailed
)

func (s ScriptState) String() string {
	switch s {
	case ScriptIniting:
		return "initing"
	case ScriptReady:
		return "ready"
	case ScriptRunning:
		return "running"
	case ScriptWaiting:
		return "waiting"
	case ScriptEnded:
		return "ended"
	case ScriptHalted:
		return "halted"
	case ScriptFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MaxScriptParams is the number of parameters a script can be passed.
const MaxScriptParams = 10

// ScriptStore stores a script and returns its handle. An empty script is not sent.
func (c *Client) ScriptStore(script string) (int, error) {
	if script == "" {
		return 0, nil
	}

	return c.exec(wire.NewCommand(wire.OpScriptStore).Text(script + "\x00"))
}

// ScriptRun runs a stored script with up to MaxScriptParams parameters.
func (c *Client) ScriptRun(handle int, params ...int32) (int, error) {
	return c.scriptParams(wire.OpScriptRun, handle, params)
}

// ScriptUpdate sets the parameters of a stored script.
func (c *Client) ScriptUpdate(handle int, params ...int32) (int, error) {
	return c.scriptParams(wire.OpScriptUpdate, handle, params)
}

// ScriptStatus returns the run state of a script and its parameters.
func (c *Client) ScriptStatus(handle int) (int, [MaxScriptParams]int32, error) {
	var params [MaxScriptParams]int32

	cmd := wire.NewCommand(wire.OpScriptStatus).Long(uint32(handle)) //nolint:gosec
	status, payload, err := c.execPayload(cmd)
	if err != nil || status <= 0 {
		return status, params, err
	}
	if len(payload) < (MaxScriptParams+1)*wire.LongSize {
		return shortPayload(cmd, payload, params)
	}

	state := int32(binary.LittleEndian.Uint32(payload)) //nolint:gosec
	for i := range params {
		params[i] = int32(binary.LittleEndian.Uint32(payload[(i+1)*wire.LongSize:])) //nolint:gosec
	}

	return int(state), params, nil
}

// ScriptStop stops a running script.
func (c *Client) ScriptStop(handle int) (int, error) {
	return c.handleCmd(wire.OpScriptStop, handle)
}

// ScriptDelete deletes a stored script.
func (c *Client) ScriptDelete(handle int) (int, error) {
	return c.handleCmd(wire.OpScriptDelete, handle)
}

// Shell runs the daemon-side shell script name with the argument string
// args and returns its exit status.
func (c *Client) Shell(name, args string) (int, error) {
	return c.exec(wire.NewCommand(wire.OpShell).
		Long(uint32(len(name) + 1)). //nolint:gosec
		Text(name + "\x00" + args + "\x00"))
}

func (c *Client) scriptParams(op wire.Opcode, handle int, params []int32) (int, error) {
	if len(params) > MaxScriptParams {
		return c.failed(errcode.TooManyParam)
	}

	cmd := wire.NewCommand(op).Long(uint32(handle)) //nolint:gosec
	for _, p := range params {
		cmd.Int(p)
	}

	return c.exec(cmd)
}
