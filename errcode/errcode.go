package errcode

import "strconv"

// Code is a status returned by the daemon. Zero and positive values are
// successful results; negative values identify a failure.
//
// Code implements error, so a returned failure can be matched with
// errors.Is(err, errcode.BadHandle).
type Code int32

// Status codes.
const (
	OK                Code = 0
	InitFailed        Code = -1
	BadMicros         Code = -2
	BadPathname       Code = -3
	NoHandle          Code = -4
	BadHandle         Code = -5
	BadSocketPort     Code = -6
	NotPermitted      Code = -7
	SomePermitted     Code = -8
	BadScript         Code = -9
	BadTxType         Code = -10
	GPIOInUse         Code = -11
	BadParamNum       Code = -12
	DupTag            Code = -13
	TooManyTags       Code = -14
	BadScriptCmd      Code = -15
	BadVarNum         Code = -16
	NoScriptRoom      Code = -17
	NoMemory          Code = -18
	SockReadFailed    Code = -19
	SockWriteFailed   Code = -20
	TooManyParam      Code = -21
	ScriptNotReady    Code = -22
	BadTag            Code = -23
	BadMicrosDelay    Code = -24
	BadMillisDelay    Code = -25
	I2COpenFailed     Code = -26
	SerialOpenFailed  Code = -27
	SPIOpenFailed     Code = -28
	BadI2CBus         Code = -29
	BadI2CAddr        Code = -30
	BadSPIChannel     Code = -31
	BadI2CFlags       Code = -32
	BadSPIFlags       Code = -33
	BadSerialFlags    Code = -34
	BadSPISpeed       Code = -35
	BadSerialDevice   Code = -36
	BadSerialSpeed    Code = -37
	BadFileParam      Code = -38
	BadI2CParam       Code = -39
	BadSerialParam    Code = -40
	I2CWriteFailed    Code = -41
	I2CReadFailed     Code = -42
	BadSPICount       Code = -43
	SerialWriteFailed Code = -44
	SerialReadFailed  Code = -45
	SerialReadNoData  Code = -46
	UnknownCommand    Code = -47
	SPIXferFailed     Code = -48
	BadPointer        Code = -49
	MsgTooBig         Code = -50
	BadMallocMode     Code = -51
	TooManySegments   Code = -52
	BadI2CSegment     Code = -53
	BadSMBusCmd       Code = -54
	BadI2CWriteLen    Code = -55
	BadI2CReadLen     Code = -56
	BadI2CCmd         Code = -57
	FileOpenFailed    Code = -58
	BadFileMode       Code = -59
	BadFileFlag       Code = -60
	BadFileRead       Code = -61
	BadFileWrite      Code = -62
	FileNotReadOpen   Code = -63
	FileNotWriteOpen  Code = -64
	BadFileSeek       Code = -65
	NoFileMatch       Code = -66
	NoFileAccess      Code = -67
	FileIsADir        Code = -68
	BadShellStatus    Code = -69
	BadScriptName     Code = -70
	CmdInterrupted    Code = -71
	BadEventRequest   Code = -72
	BadGPIONumber     Code = -73
	BadGroupSize      Code = -74
	BadLineInfoIOCTL  Code = -75
	BadRead           Code = -76
	BadWrite          Code = -77
	CannotOpenChip    Code = -78
	GPIOBusy          Code = -79
	GPIONotAllocated  Code = -80
	NotAGpiochip      Code = -81
	NotEnoughMemory   Code = -82
	PollFailed        Code = -83
	TooManyGPIOs      Code = -84
	UnexpectedError   Code = -85
	BadPWMMicros      Code = -86
	NotGroupLeader    Code = -87
	SPIIOCTLFailed    Code = -88
	BadGpiochip       Code = -89
	BadChipInfoIOCTL  Code = -90
	BadConfigFile     Code = -91
	BadConfigValue    Code = -92
	NoPermissions     Code = -93
	BadUsername       Code = -94
	BadSecret         Code = -95
	TxQueueFull       Code = -96
	BadConfigID       Code = -97
	BadDebounceMicros Code = -98
	BadWatchdogMicros Code = -99
	BadServoFreq      Code = -100
	BadServoWidth     Code = -101
	BadPWMFreq        Code = -102
	BadPWMDuty        Code = -103
	GPIONotAnOutput   Code = -104
	InvalidGroupAlert Code = -105
)

var texts = map[Code]string{
	OK:                "No error",
	InitFailed:        "initialisation failed",
	BadMicros:         "micros not 0-999999",
	BadPathname:       "can not open pathname",
	NoHandle:          "no handle available",
	BadHandle:         "unknown handle",
	BadSocketPort:     "socket port not 1024-32000",
	NotPermitted:      "GPIO operation not permitted",
	SomePermitted:     "one or more GPIO not permitted",
	BadScript:         "invalid script",
	BadTxType:         "bad tx type for GPIO and group",
	GPIOInUse:         "GPIO already in use",
	BadParamNum:       "script parameter id not 0-9",
	DupTag:            "script has duplicate tag",
	TooManyTags:       "script has too many tags",
	BadScriptCmd:      "illegal script command",
	BadVarNum:         "script variable id not 0-149",
	NoScriptRoom:      "no more room for scripts",
	NoMemory:          "can not allocate temporary memory",
	SockReadFailed:    "socket read failed",
	SockWriteFailed:   "socket write failed",
	TooManyParam:      "too many script parameters (> 10)",
	ScriptNotReady:    "script initialising",
	BadTag:            "script has unresolved tag",
	BadMicrosDelay:    "bad MICS delay (too large)",
	BadMillisDelay:    "bad MILS delay (too large)",
	I2COpenFailed:     "can not open I2C device",
	SerialOpenFailed:  "can not open serial device",
	SPIOpenFailed:     "can not open SPI device",
	BadI2CBus:         "bad I2C bus",
	BadI2CAddr:        "bad I2C address",
	BadSPIChannel:     "bad SPI channel",
	BadI2CFlags:       "bad I2C open flags",
	BadSPIFlags:       "bad SPI open flags",
	BadSerialFlags:    "bad serial open flags",
	BadSPISpeed:       "bad SPI speed",
	BadSerialDevice:   "bad serial device name",
	BadSerialSpeed:    "bad serial baud rate",
	BadFileParam:      "bad file parameter",
	BadI2CParam:       "bad I2C parameter",
	BadSerialParam:    "bad serial parameter",
	I2CWriteFailed:    "i2c write failed",
	I2CReadFailed:     "i2c read failed",
	BadSPICount:       "bad SPI count",
	SerialWriteFailed: "ser write failed",
	SerialReadFailed:  "ser read failed",
	SerialReadNoData:  "ser read no data available",
	UnknownCommand:    "unknown command",
	SPIXferFailed:     "spi xfer/read/write failed",
	BadPointer:        "bad (NULL) pointer",
	MsgTooBig:         "socket/pipe message too big",
	BadMallocMode:     "bad memory allocation mode",
	TooManySegments:   "too many I2C transaction segments",
	BadI2CSegment:     "an I2C transaction segment failed",
	BadSMBusCmd:       "SMBus command not supported by driver",
	BadI2CWriteLen:    "bad I2C write length",
	BadI2CReadLen:     "bad I2C read length",
	BadI2CCmd:         "bad I2C command",
	FileOpenFailed:    "file open failed",
	BadFileMode:       "bad file mode",
	BadFileFlag:       "bad file flag",
	BadFileRead:       "bad file read",
	BadFileWrite:      "bad file write",
	FileNotReadOpen:   "file not open for read",
	FileNotWriteOpen:  "file not open for write",
	BadFileSeek:       "bad file seek",
	NoFileMatch:       "no files match pattern",
	NoFileAccess:      "no permission to access file",
	FileIsADir:        "file is a directory",
	BadShellStatus:    "bad shell return status",
	BadScriptName:     "bad script name",
	CmdInterrupted:    "socket command interrupted",
	BadEventRequest:   "bad event request",
	BadGPIONumber:     "bad GPIO number",
	BadGroupSize:      "bad group size",
	BadLineInfoIOCTL:  "bad lineinfo IOCTL",
	BadRead:           "bad GPIO read",
	BadWrite:          "bad GPIO write",
	CannotOpenChip:    "can not open gpiochip",
	GPIOBusy:          "GPIO busy",
	GPIONotAllocated:  "GPIO not allocated",
	NotAGpiochip:      "not a gpiochip",
	NotEnoughMemory:   "not enough memory",
	PollFailed:        "GPIO poll failed",
	TooManyGPIOs:      "too many GPIO",
	UnexpectedError:   "unexpected error",
	BadPWMMicros:      "bad PWM micros",
	NotGroupLeader:    "GPIO not the group leader",
	SPIIOCTLFailed:    "SPI iOCTL failed",
	BadGpiochip:       "bad gpiochip",
	BadChipInfoIOCTL:  "bad chipinfo IOCTL",
	BadConfigFile:     "bad configuration file",
	BadConfigValue:    "bad configuration value",
	NoPermissions:     "no permission to perform action",
	BadUsername:       "bad user name",
	BadSecret:         "bad secret for user",
	TxQueueFull:       "TX queue full",
	BadConfigID:       "bad configuration id",
	BadDebounceMicros: "bad debounce microseconds",
	BadWatchdogMicros: "bad watchdog microseconds",
	BadServoFreq:      "bad servo frequency",
	BadServoWidth:     "bad servo pulsewidth",
	BadPWMFreq:        "bad PWM frequency",
	BadPWMDuty:        "bad PWM dutycycle",
	GPIONotAnOutput:   "GPIO not set as an output",
	InvalidGroupAlert: "can not set a group to alert",
}

// Text returns the description of code: "No error" for zero, the
// documented text for a known failure, and "unknown error" otherwise.
func Text(code int32) string {
	if t, ok := texts[Code(code)]; ok {
		return t
	}

	return "unknown error"
}

// Error implements the error interface.
func (c Code) Error() string {
	return Text(int32(c))
}

// String returns the numeric code together with its text.
func (c Code) String() string {
	return strconv.Itoa(int(c)) + " (" + Text(int32(c)) + ")"
}

// IsFailure reports whether status is a daemon failure.
func IsFailure(status int32) bool {
	return status < 0
}

// Known reports whether code has an entry in the text table.
func Known(code int32) bool {
	_, ok := texts[Code(code)]

	return ok
}
