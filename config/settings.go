// Package config provides the typed form of the place-and-route
// settings map, assembled through a fluent Builder the way
// config.DeviceBuilder and core.Builder assemble simulation
// components.
package config

// PlacerKind selects the placement algorithm.
type PlacerKind string

const (
	PlacerSA   PlacerKind = "sa"
	PlacerHeap PlacerKind = "heap"
)

// RouterKind selects the routing algorithm.
type RouterKind string

const (
	Router1 RouterKind = "router1"
	Router2 RouterKind = "router2"
)

// PlacerSettings holds the simulated-annealing placer's tunables.
type PlacerSettings struct {
	ConstraintWeight   float64
	MinBelsForGridPick int
}

// RouterSettings holds router1's tunables, plus the timing-driven
// rip-up limits that the distilled spec left as an open question and
// this module resolves by exposing them as settings.
type RouterSettings struct {
	MaxIterCnt              int
	UseEstimate             bool
	TmgRipup                bool
	TimingRipupMaxIter      int
	TimingRipupPercentile   float64
}

// Settings is the typed form of the run configuration's settings map.
// Fields default to the documented defaults when built via
// NewSettings(); Builder methods override individual knobs.
type Settings struct {
	Placer         PlacerKind
	Router         RouterKind
	TimingDriven   bool
	SlackRedistIter int
	Seed           uint64

	Placer1 PlacerSettings
	Router1 RouterSettings
}

// NewSettings returns Settings populated with the documented defaults.
func NewSettings() Settings {
	return Settings{
		Placer:          PlacerSA,
		Router:          Router1,
		TimingDriven:    false,
		SlackRedistIter: 8,
		Seed:            1,
		Placer1: PlacerSettings{
			ConstraintWeight:   10,
			MinBelsForGridPick: 64,
		},
		Router1: RouterSettings{
			MaxIterCnt:            200,
			UseEstimate:           true,
			TmgRipup:              false,
			TimingRipupMaxIter:    50,
			TimingRipupPercentile: 0.05,
		},
	}
}

// Builder assembles a Settings value through With* chaining, mirroring
// config.DeviceBuilder's and core.Builder's fluent style.
type Builder struct {
	s Settings
}

// NewBuilder returns a Builder seeded with the documented defaults.
func NewBuilder() Builder {
	return Builder{s: NewSettings()}
}

// WithPlacer selects the placement algorithm.
func (b Builder) WithPlacer(p PlacerKind) Builder {
	b.s.Placer = p
	return b
}

// WithRouter selects the routing algorithm.
func (b Builder) WithRouter(r RouterKind) Builder {
	b.s.Router = r
	return b
}

// WithTimingDriven toggles timing cost in place and route.
func (b Builder) WithTimingDriven(on bool) Builder {
	b.s.TimingDriven = on
	return b
}

// WithSeed sets the PRNG seed used by the placer and router for
// deterministic runs.
func (b Builder) WithSeed(seed uint64) Builder {
	b.s.Seed = seed
	return b
}

// WithSlackRedistIter sets the slack redistribution cadence.
func (b Builder) WithSlackRedistIter(n int) Builder {
	b.s.SlackRedistIter = n
	return b
}

// WithPlacer1ConstraintWeight overrides placer1/constraint_weight.
func (b Builder) WithPlacer1ConstraintWeight(w float64) Builder {
	b.s.Placer1.ConstraintWeight = w
	return b
}

// WithPlacer1MinBelsForGridPick overrides placer1/min_bels_for_grid_pick.
func (b Builder) WithPlacer1MinBelsForGridPick(n int) Builder {
	b.s.Placer1.MinBelsForGridPick = n
	return b
}

// WithRouter1MaxIterCnt overrides router1/max_iter_cnt.
func (b Builder) WithRouter1MaxIterCnt(n int) Builder {
	b.s.Router1.MaxIterCnt = n
	return b
}

// WithRouter1UseEstimate overrides router1/use_estimate.
func (b Builder) WithRouter1UseEstimate(on bool) Builder {
	b.s.Router1.UseEstimate = on
	return b
}

// WithTmgRipup overrides router/tmg_ripup.
func (b Builder) WithTmgRipup(on bool) Builder {
	b.s.Router1.TmgRipup = on
	return b
}

// WithTimingRipupLimits overrides the timing-driven rip-up iteration
// cap and failing-slack percentile threshold.
func (b Builder) WithTimingRipupLimits(maxIter int, percentile float64) Builder {
	b.s.Router1.TimingRipupMaxIter = maxIter
	b.s.Router1.TimingRipupPercentile = percentile
	return b
}

// Build returns the assembled Settings value.
func (b Builder) Build() Settings {
	return b.s
}
