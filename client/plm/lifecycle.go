package plm

// State of a version-controlled entity's working copy cycle.
type State struct {
	Name string `json:"name"`
}

type Transition struct {
	Name string `json:"name"`
	From State  `json:"from"`
	To   State  `json:"to"`
}

// StateMachine describes which working-state transitions the backend
// accepts. It is a contract description only: exclusivity is enforced by
// the backend, not pre-checked client-side.
type StateMachine struct {
	States      []State      `json:"states"`
	Transitions []Transition `json:"transitions"`
}

func NewStateMachine(states []State, transitions []Transition) *StateMachine {
	return &StateMachine{States: states, Transitions: transitions}
}

func (m *StateMachine) AvailableTransitions(from State) []Transition {
	var transitions []Transition
	for _, t := range m.Transitions {
		if t.From == from {
			transitions = append(transitions, t)
		}
	}
	return transitions
}

func (m *StateMachine) Accept(name string, from, to State) bool {
	for _, t := range m.Transitions {
		if t.Name == name && t.From == from && t.To == to {
			return true
		}
	}
	return false
}

// VersionLifecycle: CHECKED_IN --checkout--> CHECKED_OUT --checkin-->
// CHECKED_IN. A freshly created version object starts CHECKED_IN with
// version label "A.1".
var VersionLifecycle = NewStateMachine(
	[]State{{Name: WorkingStateCheckedIn}, {Name: WorkingStateCheckedOut}},
	[]Transition{
		{Name: "checkout", From: State{Name: WorkingStateCheckedIn}, To: State{Name: WorkingStateCheckedOut}},
		{Name: "checkin", From: State{Name: WorkingStateCheckedOut}, To: State{Name: WorkingStateCheckedIn}},
	})
