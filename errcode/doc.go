// Package errcode maps rgpiod status codes to error values.
//
// Every daemon reply carries a signed status. Non-negative statuses are
// results (a handle, a level, a byte count); negative statuses are one of
// the failures defined here. The codes fall into a few families:
//
//   - connection and transport: InitFailed, SockReadFailed, CmdInterrupted
//   - handles: NoHandle, BadHandle
//   - permissions: NotPermitted, NoPermissions, BadUsername, BadSecret
//   - parameter validation per subsystem (GPIO, I2C, SPI, serial, files, scripts)
//   - resource exhaustion: NoMemory, TxQueueFull, TooManyGPIOs
//
// CmdInterrupted is never sent by the daemon. The client reports it when the
// control connection fails in the middle of a request.
package errcode
