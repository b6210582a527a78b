package wire

// Pulse is one step of a group wave: set the GPIO selected by GroupMask to
// the levels in GroupBits, then wait DelayMicros before the next step.
type Pulse struct {
	GroupBits   uint64
	GroupMask   uint64
	DelayMicros uint64
}

// GroupAll selects every GPIO of a group.
const GroupAll uint64 = 0xffffffffffffffff

// AppendPulses appends each pulse to cmd as three quads.
func AppendPulses(cmd *Command, pulses []Pulse) *Command {
	for _, p := range pulses {
		cmd.Quad(p.GroupBits).Quad(p.GroupMask).Quad(p.DelayMicros)
	}

	return cmd
}
