package concept

// State is the current lifecycle position of a concept.
type State string

const (
	StateDraft      State = "draft"
	StateEvaluated  State = "evaluated"
	StateAccepted   State = "accepted"
	StateArchived   State = "archived"
	StateAnonymized State = "anonymized"
)

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Milestone is a lifecycle step a concept can pass through.
type Milestone uint8

const (
	MilestoneEvaluated Milestone = 1 << iota
	MilestoneAccepted
	MilestoneArchived
	MilestoneAnonymized
)

// History records milestones reached. Bits are only ever added.
type History uint8

func (h History) Has(m Milestone) bool {
	return h&History(m) != 0
}

func (h History) with(m Milestone) History {
	return h | History(m)
}

// transitions lists, per state, the states reachable in one step.
var transitions = map[State][]State{
	StateDraft:      {StateEvaluated, StateAnonymized},
	StateEvaluated:  {StateAccepted, StateAnonymized},
	StateAccepted:   {StateArchived, StateAnonymized},
	StateArchived:   {StateAnonymized},
	StateAnonymized: nil,
}

var milestoneFor = map[State]Milestone{
	StateEvaluated:  MilestoneEvaluated,
	StateAccepted:   MilestoneAccepted,
	StateArchived:   MilestoneArchived,
	StateAnonymized: MilestoneAnonymized,
}

// lifecycle pairs the exclusive current state with the monotonic history.
type lifecycle struct {
	state   State
	history History
}

func newLifecycle() lifecycle {
	return lifecycle{state: StateDraft}
}

func (l lifecycle) allows(to State) bool {
	for _, next := range transitions[l.state] {
		if next == to {
			return true
		}
	}
	return false
}

// advance returns the lifecycle after moving to `to`, leaving l untouched.
func (l lifecycle) advance(to State) (lifecycle, error) {
	if !l.allows(to) {
		return l, &TransitionError{From: l.state, To: to}
	}
	return lifecycle{state: to, history: l.history.with(milestoneFor[to])}, nil
}
