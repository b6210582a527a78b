package sbc

import "github.com/arloliu/go-rgpio/wire"

// FileMode selects how FileOpen opens a file. Modes may be or'ed together.
type FileMode uint32

const (
	FileRead   FileMode = 1
	FileWrite  FileMode = 2
	FileRW     FileMode = 3
	FileAppend FileMode = 4
	FileCreate FileMode = 8
	FileTrunc  FileMode = 16
)

// Whence is the origin of a FileSeek offset.
type Whence uint32

const (
	FromStart   Whence = 0
	FromCurrent Whence = 1
	FromEnd     Whence = 2
)

// maxFileList bounds the reply of FileList.
const maxFileList = 60000

// FileOpen opens a file in the daemon's permitted file space and returns its handle.
func (c *Client) FileOpen(name string, mode FileMode) (int, error) {
	return c.exec(wire.NewCommand(wire.OpFileOpen).Long(uint32(mode)).Text(name))
}

// FileClose closes a file handle.
func (c *Client) FileClose(handle int) (int, error) {
	return c.handleCmd(wire.OpFileClose, handle)
}

// FileRead reads up to count bytes. It returns the number of bytes read and the data.
func (c *Client) FileRead(handle, count int) (int, []byte, error) {
	return c.handleCountCmd(wire.OpFileRead, handle, count)
}

// FileWrite writes data to a file.
func (c *Client) FileWrite(handle int, data []byte) (int, error) {
	return c.handleDataCmd(wire.OpFileWrite, handle, data)
}

// FileSeek moves the file position and returns the new position.
func (c *Client) FileSeek(handle, offset int, whence Whence) (int, error) {
	return c.exec(wire.NewCommand(wire.OpFileSeek).
		Long(uint32(handle)).Int(int32(offset)).Long(uint32(whence))) //nolint:gosec
}

// FileList returns the names of files matching pattern, NUL separated.
func (c *Client) FileList(pattern string) (int, []byte, error) {
	return c.execPayload(wire.NewCommand(wire.OpFileList).Long(maxFileList).Text(pattern))
}
