package pipeline

// State is the stage a run is in.
type State int

// Run states, in the order a successful run passes through them.
const (
	Idle State = iota
	Fetching
	Parsing
	Mapping
	Enriching
	Deduping
	Exporting
	Done
	Failed
)

var stateNames = [...]string{
	Idle:      "idle",
	Fetching:  "fetching",
	Parsing:   "parsing",
	Mapping:   "mapping",
	Enriching: "enriching",
	Deduping:  "deduping",
	Exporting: "exporting",
	Done:      "done",
	Failed:    "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

// Terminal reports whether the run has finished.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}
