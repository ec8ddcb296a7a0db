// Package config holds the plain data records the enclosing service shell
// is expected to populate and hand to bridge.NewDomeBridge. This core never
// reads a config file itself (non-goal); the yaml tags exist so an external
// loader can decode directly into these structs, the same convention
// nasa-jpl-golaborate/envsrv/cfg.go uses for its Config/ObjSetup types.
package config

// SimulationMode selects whether DomeBridge talks to a real controller or
// an in-process MockPlant, and if simulated, whether the plant itself is
// started by this process.
type SimulationMode string

const (
	// Normal dials a real dome controller over TCP.
	Normal SimulationMode = "Normal"
	// SimulatedWithPlant starts an in-process MockPlant and dials it.
	SimulatedWithPlant SimulationMode = "SimulatedWithPlant"
	// SimulatedWithoutPlant dials an address the caller is expected to have
	// already pointed at an externally-run plant.
	SimulatedWithoutPlant SimulationMode = "SimulatedWithoutPlant"
)

// Config is the record DomeBridge is constructed from.
type Config struct {
	Host           string         `yaml:"host"`
	Port           int            `yaml:"port"`
	SimulationMode SimulationMode `yaml:"simulation_mode"`
}

// MotionLimits is one subsystem's jerk/acceleration/velocity ceiling record.
// DomeBridge.ConfigLlcs takes these three values as separate arguments, not
// as this struct.
type MotionLimits struct {
	Jmax float64 `yaml:"jmax"`
	Amax float64 `yaml:"amax"`
	Vmax float64 `yaml:"vmax"`
}
