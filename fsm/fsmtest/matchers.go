package fsmtest

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Matcher errors.
var (
	ErrNoTrace            = errors.New("no events traced")
	ErrStateNotVisited    = errors.New("state was not visited")
	ErrTransitionNotTaken = errors.New("transition was not taken")
	ErrWrongSequence      = errors.New("unexpected entry sequence")
	ErrNoMatchersPassed   = errors.New("no matchers passed")
)

// Matcher checks a property of a trace.
type Matcher interface {
	Match(trace *Trace) (bool, error)
	Description() string
}

// StateWasVisited matches when state was entered.
func StateWasVisited(state string) Matcher {
	return &stateVisitedMatcher{state: state}
}

type stateVisitedMatcher struct {
	state string
}

func (m *stateVisitedMatcher) Match(trace *Trace) (bool, error) {
	if trace.Visited(m.state) {
		return true, nil
	}

	return false, fmt.Errorf("%w: '%s'", ErrStateNotVisited, m.state)
}

func (m *stateVisitedMatcher) Description() string {
	return fmt.Sprintf("state '%s' should be visited", m.state)
}

// TransitionWasTaken matches when a transition from one state to another fired.
func TransitionWasTaken(from, to string) Matcher {
	return &transitionTakenMatcher{from: from, to: to}
}

type transitionTakenMatcher struct {
	from string
	to   string
}

func (m *transitionTakenMatcher) Match(trace *Trace) (bool, error) {
	if trace.Took(m.from, m.to) {
		return true, nil
	}

	return false, fmt.Errorf("%w: '%s' -> '%s'", ErrTransitionNotTaken, m.from, m.to)
}

func (m *transitionTakenMatcher) Description() string {
	return fmt.Sprintf("transition '%s' -> '%s' should be taken", m.from, m.to)
}

// EnteredInOrder matches when the states entered are exactly names.
func EnteredInOrder(names ...string) Matcher {
	return &sequenceMatcher{names: names}
}

type sequenceMatcher struct {
	names []string
}

func (m *sequenceMatcher) Match(trace *Trace) (bool, error) {
	entered := trace.Entered()
	if len(trace.Events()) == 0 {
		return false, ErrNoTrace
	}

	if slices.Equal(entered, m.names) {
		return true, nil
	}

	return false, fmt.Errorf("%w: got [%s]", ErrWrongSequence, strings.Join(entered, ", "))
}

func (m *sequenceMatcher) Description() string {
	return fmt.Sprintf("states [%s] should be entered in order", strings.Join(m.names, ", "))
}

// All matches when every matcher matches.
func All(matchers ...Matcher) Matcher {
	return &allMatcher{matchers: matchers}
}

type allMatcher struct {
	matchers []Matcher
}

func (m *allMatcher) Match(trace *Trace) (bool, error) {
	for _, matcher := range m.matchers {
		ok, err := matcher.Match(trace)
		if !ok {
			return false, err
		}
	}

	return true, nil
}

func (m *allMatcher) Description() string {
	return "all matchers should pass"
}

// Any matches when at least one matcher matches.
func Any(matchers ...Matcher) Matcher {
	return &anyMatcher{matchers: matchers}
}

type anyMatcher struct {
	matchers []Matcher
}

func (m *anyMatcher) Match(trace *Trace) (bool, error) {
	for _, matcher := range m.matchers {
		if ok, _ := matcher.Match(trace); ok {
			return true, nil
		}
	}

	return false, ErrNoMatchersPassed
}

func (m *anyMatcher) Description() string {
	return "at least one matcher should pass"
}
