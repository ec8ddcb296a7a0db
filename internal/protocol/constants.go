package protocol

import "math"

// Subsystem identifiers, spelled exactly as they appear on the wire.
type Subsystem string

const (
	AMCS  Subsystem = "AMCS"
	LWSCS Subsystem = "LWSCS"
	APSCS Subsystem = "ApSCS"
	LCS   Subsystem = "LCS"
	ThCS  Subsystem = "ThCS"
	CBCS  Subsystem = "CBCS"
	MonCS Subsystem = "MonCS"
	CSCS  Subsystem = "CSCS"
	RAD   Subsystem = "RAD"
	// OBC is excluded from command handling and polling: see spec Open
	// Question 3. It is listed only so callers can recognize and reject it.
	OBC Subsystem = "OBC"
)

// ReadOnly reports whether the subsystem never accepts commands from this
// core (it is only ever polled for status, when polled at all).
func (s Subsystem) ReadOnly() bool {
	switch s {
	case RAD, CSCS, OBC:
		return true
	default:
		return false
	}
}

// Polled subsystems, in the fixed order that assigns each one its bit in a
// subsystem bitmask (ExitFault, SetOperationalMode).
var AllSubsystems = []Subsystem{AMCS, APSCS, LWSCS, LCS, ThCS, CBCS, MonCS, CSCS, RAD}

// General constants, bit-exact with the reference implementation.
const (
	DomeAzimuthOffsetDeg = 32.0
	DomeVoltage          = 220.0
)

// AMCS constants.
const (
	AMCSNumMotors              = 5
	AMCSCurrentPerMotorMoving  = 40.0
	AMCSCurrentPerMotorCrawling = 4.1
	AMCSParkPosition           = 0.0
)

var (
	AMCSJmax = radians(3.0)
	AMCSAmax = radians(0.75)
	AMCSVmax = radians(1.5)
)

// LWSCS constants.
const (
	LWSCSNumMotors   = 2
	LWSCSMinPosition = 0.0
)

var (
	LWSCSMaxPosition = math.Pi / 2.0
	LWSCSJmax        = radians(3.5)
	LWSCSAmax        = radians(0.875)
	LWSCSVmax        = radians(1.75)
)

// APSCS constants.
const (
	APSCSNumShutters         = 2
	APSCSNumMotorsPerShutter = 2
	APSCSClosedPosition      = 0.0
	APSCSOpenPosition        = 100.0
	APSCSShutterSpeed        = 10.0 // %/s
)

// APSCurrentPerMotor is derived from the power-management constant, mirroring
// the reference implementation's constants.py.
var APSCurrentPerMotor = APSPowerDraw / APSCSNumShutters / APSCSNumMotorsPerShutter / DomeVoltage

// LCS constants.
const (
	LCSNumLouvers        = 34
	LCSNumMotorsPerLouver = 2
)

var LCSMotionVelocity = 100.0 / 30.0 // %/s

var LouversCurrentPerMotor = (LouversPowerDraw / LCSNumLouvers / DomeVoltage) / LCSNumMotorsPerLouver

// CBCS, MonCS, RAD constants.
const (
	CBCSNumCapacitorBanks = 2
	MonNumSensors         = 16
	RADNumDoors           = 2
)

// ThCS constants.
const (
	ThCSNumCabinetTemperatures     = 3
	ThCSNumMotorCoilTemperatures   = 5
	ThCSNumMotorDriveTemperatures  = 10
)

// Power draw, in watts, contributed by each subsystem while actively moving.
// These feed both MockPlant telemetry and PowerScheduler budget checks.
const (
	APSPowerDraw     = 3500.0
	LouversPowerDraw = 2800.0
	LWSPowerDraw     = 1500.0
	FansPowerDraw    = 300.0

	ContinuousSlipRingPowerCapacity = 26000.0
	ContinuousElectronicsPowerDraw  = 4000.0
)

// Timing constants, in seconds unless noted.
const (
	StatusPokePeriod       = 0.1
	CommandsRepliedPeriod  = 600.0
	CommandReplyTimeout    = 20.0
	CommandQueuePeriod     = 1.0
)

// StatusPollMultiplier is the number of StatusPokePeriod ticks between status
// polls of a given subsystem.
var StatusPollMultiplier = map[Subsystem]int{
	AMCS:  2,
	LWSCS: 5,
	APSCS: 5,
	LCS:   5,
	ThCS:  5,
	CBCS:  5,
	MonCS: 5,
	CSCS:  5,
	RAD:   5,
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
