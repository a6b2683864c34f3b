package visualizer

// Options configures the visualization output.
type Options struct {
	// ShowSnapshots lists each state's sensors and actuators in its node.
	ShowSnapshots bool

	// ShowLabels prints transition labels, or the guard names of a
	// definition's transitions when unlabelled.
	ShowLabels bool

	// ShowOrder prefixes edge labels with the transition's evaluation index.
	ShowOrder bool

	// Direction controls diagram flow: "TB" (top-bottom) or "LR" (left-right).
	Direction string

	// HighlightCurrent marks the machine's current and suspended states.
	HighlightCurrent bool

	// HighlightPath highlights specific states.
	HighlightPath []string

	// Fenced wraps the diagram in a markdown code fence.
	Fenced bool
}

// DefaultOptions returns sensible defaults for visualization.
func DefaultOptions() Options {
	return Options{
		ShowSnapshots:    true,
		ShowLabels:       true,
		Direction:        "TB",
		HighlightCurrent: true,
		Fenced:           true,
	}
}

// WithShowSnapshots enables/disables sensor and actuator details.
func (o Options) WithShowSnapshots(show bool) Options {
	o.ShowSnapshots = show

	return o
}

// WithShowLabels enables/disables transition labels.
func (o Options) WithShowLabels(show bool) Options {
	o.ShowLabels = show

	return o
}

// WithShowOrder enables/disables evaluation indexes on edges.
func (o Options) WithShowOrder(show bool) Options {
	o.ShowOrder = show

	return o
}

// WithDirection sets the diagram direction.
func (o Options) WithDirection(direction string) Options {
	o.Direction = direction

	return o
}

// WithHighlightCurrent enables/disables cursor highlighting.
func (o Options) WithHighlightCurrent(highlight bool) Options {
	o.HighlightCurrent = highlight

	return o
}

// WithHighlightPath sets states to highlight.
func (o Options) WithHighlightPath(path []string) Options {
	o.HighlightPath = path

	return o
}

// WithFenced enables/disables the markdown code fence.
func (o Options) WithFenced(fenced bool) Options {
	o.Fenced = fenced

	return o
}
