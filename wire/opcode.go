package wire

import "strconv"

// Opcode identifies an rgpiod command.
type Opcode uint16

// Files.
const (
	OpFileOpen  Opcode = 1
	OpFileClose Opcode = 2
	OpFileRead  Opcode = 3
	OpFileWrite Opcode = 4
	OpFileSeek  Opcode = 5
	OpFileList  Opcode = 6
)

// GPIO.
const (
	OpGpiochipOpen     Opcode = 10
	OpGpiochipClose    Opcode = 11
	OpClaimInput       Opcode = 12
	OpClaimOutput      Opcode = 13
	OpClaimAlert       Opcode = 14
	OpFree             Opcode = 15
	OpGroupClaimInput  Opcode = 16
	OpGroupClaimOutput Opcode = 17
	OpGroupFree        Opcode = 18
	OpRead             Opcode = 19
	OpWrite            Opcode = 20
	OpGroupRead        Opcode = 21
	OpGroupWrite       Opcode = 22
	OpTxPulse          Opcode = 23
	OpTxPwm            Opcode = 24
	OpTxServo          Opcode = 25
	OpTxWave           Opcode = 26
	OpTxBusy           Opcode = 27
	OpTxRoom           Opcode = 28
	OpSetDebounce      Opcode = 29
	OpSetWatchdog      Opcode = 30
	OpChipInfo         Opcode = 31
	OpLineInfo         Opcode = 32
	OpGetMode          Opcode = 33
)

// I2C.
const (
	OpI2COpen           Opcode = 40
	OpI2CClose          Opcode = 41
	OpI2CReadDevice     Opcode = 42
	OpI2CWriteDevice    Opcode = 43
	OpI2CWriteQuick     Opcode = 44
	OpI2CReadByte       Opcode = 45
	OpI2CWriteByte      Opcode = 46
	OpI2CReadByteData   Opcode = 47
	OpI2CWriteByteData  Opcode = 48
	OpI2CReadWordData   Opcode = 49
	OpI2CWriteWordData  Opcode = 50
	OpI2CReadBlockData  Opcode = 51
	OpI2CWriteBlockData Opcode = 52
	OpI2CReadI2CBlock   Opcode = 53
	OpI2CWriteI2CBlock  Opcode = 54
	OpI2CProcessCall    Opcode = 55
	OpI2CBlockProcess   Opcode = 56
	OpI2CZip            Opcode = 57
)

// Notifications.
const (
	OpNotifyOpen   Opcode = 70
	OpNotifyClose  Opcode = 71
	OpNotifyResume Opcode = 72
	OpNotifyPause  Opcode = 73
)

// Scripts.
const (
	OpScriptParse  Opcode = 80
	OpScriptStore  Opcode = 81
	OpScriptDelete Opcode = 82
	OpScriptStatus Opcode = 83
	OpScriptRun    Opcode = 84
	OpScriptStop   Opcode = 85
	OpScriptUpdate Opcode = 86
)

// Serial.
const (
	OpSerialOpen          Opcode = 90
	OpSerialClose         Opcode = 91
	OpSerialReadByte      Opcode = 92
	OpSerialWriteByte     Opcode = 93
	OpSerialRead          Opcode = 94
	OpSerialWrite         Opcode = 95
	OpSerialDataAvailable Opcode = 96
)

// SPI.
const (
	OpSPIOpen  Opcode = 100
	OpSPIClose Opcode = 101
	OpSPIRead  Opcode = 102
	OpSPIWrite Opcode = 103
	OpSPIXfer  Opcode = 104
)

// Utilities.
const (
	OpDelayMicros      Opcode = 113
	OpDelayMillis      Opcode = 114
	OpGetInternal      Opcode = 115
	OpSetInternal      Opcode = 116
	OpNotifyOpenInBand Opcode = 117
	OpShell            Opcode = 118
	OpSBCName          Opcode = 120
	OpFreeResources    Opcode = 121
	OpSetShare         Opcode = 130
	OpUser             Opcode = 131
	OpPassword         Opcode = 132
	OpLoadConfig       Opcode = 133
	OpShareUse         Opcode = 134
	OpShareSet         Opcode = 135
	OpGetDir           Opcode = 136
	OpSetDir           Opcode = 137
	OpLibVersion       Opcode = 140
	OpTick             Opcode = 141
)

var opcodeNames = map[Opcode]string{
	OpFileOpen: "FO", OpFileClose: "FC", OpFileRead: "FR", OpFileWrite: "FW",
	OpFileSeek: "FS", OpFileList: "FL",

	OpGpiochipOpen: "GO", OpGpiochipClose: "GC", OpClaimInput: "GSIX",
	OpClaimOutput: "GSOX", OpClaimAlert: "GSAX", OpFree: "GSF",
	OpGroupClaimInput: "GSGIX", OpGroupClaimOutput: "GSGOX", OpGroupFree: "GSGF",
	OpRead: "GR", OpWrite: "GW", OpGroupRead: "GGR", OpGroupWrite: "GGWX",
	OpTxPulse: "GPX", OpTxPwm: "PX", OpTxServo: "SX", OpTxWave: "GWAVE",
	OpTxBusy: "GBUSY", OpTxRoom: "GROOM", OpSetDebounce: "GDEB",
	OpSetWatchdog: "GWDOG", OpChipInfo: "GIC", OpLineInfo: "GIL", OpGetMode: "GMODE",

	OpI2COpen: "I2CO", OpI2CClose: "I2CC", OpI2CReadDevice: "I2CRD",
	OpI2CWriteDevice: "I2CWD", OpI2CWriteQuick: "I2CWQ", OpI2CReadByte: "I2CRS",
	OpI2CWriteByte: "I2CWS", OpI2CReadByteData: "I2CRB", OpI2CWriteByteData: "I2CWB",
	OpI2CReadWordData: "I2CRW", OpI2CWriteWordData: "I2CWW",
	OpI2CReadBlockData: "I2CRK", OpI2CWriteBlockData: "I2CWK",
	OpI2CReadI2CBlock: "I2CRI", OpI2CWriteI2CBlock: "I2CWI",
	OpI2CProcessCall: "I2CPC", OpI2CBlockProcess: "I2CPK", OpI2CZip: "I2CZ",

	OpNotifyOpen: "NO", OpNotifyClose: "NC", OpNotifyResume: "NR", OpNotifyPause: "NP",

	OpScriptParse: "PARSE", OpScriptStore: "PROC", OpScriptDelete: "PROCD",
	OpScriptStatus: "PROCP", OpScriptRun: "PROCR", OpScriptStop: "PROCS",
	OpScriptUpdate: "PROCU",

	OpSerialOpen: "SERO", OpSerialClose: "SERC", OpSerialReadByte: "SERRB",
	OpSerialWriteByte: "SERWB", OpSerialRead: "SERR", OpSerialWrite: "SERW",
	OpSerialDataAvailable: "SERDA",

	OpSPIOpen: "SPIO", OpSPIClose: "SPIC", OpSPIRead: "SPIR", OpSPIWrite: "SPIW",
	OpSPIXfer: "SPIX",

	OpDelayMicros: "MICS", OpDelayMillis: "MILS", OpGetInternal: "CGI",
	OpSetInternal: "CSI", OpNotifyOpenInBand: "NOIB", OpShell: "SHELL",
	OpSBCName: "SBC", OpFreeResources: "FREE", OpSetShare: "SHARE",
	OpUser: "USER", OpPassword: "PASSW", OpLoadConfig: "LCFG",
	OpShareUse: "SHRU", OpShareSet: "SHRS", OpGetDir: "PWD", OpSetDir: "PCD",
	OpLibVersion: "LGV", OpTick: "TICK",
}

// String returns the daemon's mnemonic for the opcode, or its number if unknown.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}

	return "OP(" + strconv.Itoa(int(op)) + ")"
}
