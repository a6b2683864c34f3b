package fsm

// Context is what predicates and hooks see of their machine: the state being
// executed, the machine's external cells and its private variables.
type Context[F any] struct {
	Machine  string
	State    *State[F]
	External *Externals
	Vars     *F
}
