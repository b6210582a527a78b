package sbc

import "fmt"

const (
	rawHandleMask = 0xffff
	chipShift     = 16
)

// ComposeHandle packs a chip index and a daemon handle into one integer.
func ComposeHandle(chip, raw int) int {
	return (raw & rawHandleMask) | chip<<chipShift
}

// DecomposeChip returns the chip index of a composed handle.
func DecomposeChip(h int) int {
	return h >> chipShift
}

// DecomposeHandle returns the daemon handle of a composed handle.
func DecomposeHandle(h int) int {
	return h & rawHandleMask
}

// ChipHandle identifies an opened gpiochip: the chip index the client asked
// for and the handle the daemon assigned to it.
//
// The chip index is what notifications carry, so Callback uses it to route
// events for lines claimed through this handle.
type ChipHandle struct {
	Chip int
	Raw  int
}

// HandleFromInt splits a composed handle.
func HandleFromInt(h int) ChipHandle {
	return ChipHandle{Chip: DecomposeChip(h), Raw: DecomposeHandle(h)}
}

// Int returns the composed form of h.
func (h ChipHandle) Int() int {
	return ComposeHandle(h.Chip, h.Raw)
}

// Valid reports whether h refers to an opened chip. A failed open in
// ReturnCodes mode yields a handle whose Raw field is the negative status.
func (h ChipHandle) Valid() bool {
	return h.Chip >= 0 && h.Raw >= 0
}

func (h ChipHandle) String() string {
	return fmt.Sprintf("gpiochip%d/%d", h.Chip, h.Raw)
}

func (h ChipHandle) wire() uint32 {
	return uint32(h.Raw & rawHandleMask) //nolint:gosec
}
