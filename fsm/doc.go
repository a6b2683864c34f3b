// Package fsm is the execution core shared by the finite-state-machine case
// studies: a deterministic single-cycle executor (the Ringlet), the snapshot
// sensor/actuator declarations a scheduler needs to isolate a machine's time
// slot, and a graph-preserving deep clone for state-space exploration.
//
// A machine family is described once, generically over its private variable
// type F. Domain factories construct States, wire them with AddTransition
// (forward references and cycles are allowed because wiring happens after
// construction) and hand the roots to NewMachine:
//
//	check := fsm.NewState[Vars]("Check", fsm.WithSensors[Vars](fsm.Declare("doorOpen")))
//	add := fsm.NewState[Vars]("Add")
//	check.AddTransition(buttonPushed, add)
//	add.AddTransition(buttonReleased, check)
//
//	m, err := fsm.NewMachine("timer", fsm.Roots[Vars]{Initial: check, Suspend: check, Exit: check},
//		fsm.NewExternals(doorOpen.Cell(false)), Vars{})
//
// Predicates and hooks never hold a reference to their machine. They receive
// an explicit *Context carrying the source state, the machine's external
// cells and a pointer to its private variables.
//
// Machine.Clone copies the whole reachable graph with a single memoised pass
// keyed by state name, so states shared between roots stay shared in the copy,
// cycles terminate, and no copied transition points back into the original.
package fsm
