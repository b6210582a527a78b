// Package wire implements the rgpiod binary framing.
//
// Every request on the control connection is a 16 byte CommandHeader
// followed, on the same write, by an opcode specific extension:
//
//	u32 magic | u32 param3 | u16 opcode | u16 quadCount | u16 longCount | u16 halfCount
//
// The daemon answers each request with a 16 byte ReplyHeader whose first
// four bytes are a signed status. Data returning opcodes use a positive
// status as the number of raw bytes that immediately follow the reply.
//
// The notification stream carries 16 byte Notification records back to
// back with no framing; readers must reassemble them from arbitrary reads.
//
// All integers are little-endian. Decoding a buffer whose length is not
// exactly the record size is a programming error and panics.
package wire
