package protocol

// MotionState is the universal (per-subsystem subset) motion state enum. It
// is kept as a string on the wire so telemetry frames stay human-readable.
type MotionState string

const (
	StateMoving    MotionState = "Moving"
	StateCrawling  MotionState = "Crawling"
	StateStopped   MotionState = "Stopped"
	StateStopping  MotionState = "Stopping"
	StateParking   MotionState = "Parking"
	StateParked    MotionState = "Parked"
	StateOpening   MotionState = "Opening"
	StateClosing   MotionState = "Closing"
	StateOpen      MotionState = "Open"
	StateClosed    MotionState = "Closed"
	StateError     MotionState = "Error"

	StateBrakesEngaged     MotionState = "BrakesEngaged"
	StateBrakesDisengaged  MotionState = "BrakesDisengaged"
	StateEngagingBrakes    MotionState = "EngagingBrakes"
	StateDisengagingBrakes MotionState = "DisengagingBrakes"

	StateMotorPowerOn       MotionState = "MotorPowerOn"
	StateMotorPowerOff      MotionState = "MotorPowerOff"
	StateEnablingMotorPower MotionState = "EnablingMotorPower"
	StateDisablingMotorPower MotionState = "DisablingMotorPower"

	StateGoStationary MotionState = "GoStationary"
	StateGoNormal     MotionState = "GoNormal"
	StateGoDegraded   MotionState = "GoDegraded"

	StateInflating MotionState = "Inflating"
	StateInflated  MotionState = "Inflated"
	StateDeflating MotionState = "Deflating"
	StateDeflated  MotionState = "Deflated"

	StateStartingMotorCooling MotionState = "StartingMotorCooling"
	StateMotorCoolingOn       MotionState = "MotorCoolingOn"
	StateStoppingMotorCooling MotionState = "StoppingMotorCooling"
	StateMotorCoolingOff      MotionState = "MotorCoolingOff"

	StateStationary MotionState = "Stationary"

	StateProximityOpenLSEngaged   MotionState = "ProximityOpenLSEngaged"
	StateProximityClosedLSEngaged MotionState = "ProximityClosedLSEngaged"

	StateLPEngaging    MotionState = "LPEngaging"
	StateLPEngaged     MotionState = "LPEngaged"
	StateLPDisengaging MotionState = "LPDisengaging"
	StateLPDisengaged  MotionState = "LPDisengaged"

	StateUndetermined MotionState = "Undetermined"
)

// OperationalMode selects Normal vs Degraded per subsystem, independent of
// motion state.
type OperationalMode string

const (
	ModeNormal   OperationalMode = "Normal"
	ModeDegraded OperationalMode = "Degraded"
)
