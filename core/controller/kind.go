package controller

// Kind classifies an action. It is fixed when the action is registered.
type Kind int

const (
	// KindPlain runs the body without argument normalization or hooks.
	KindPlain Kind = iota
	// KindRender produces a view.
	KindRender
	// KindAsync produces a JSON envelope.
	KindAsync
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindRender:
		return "render"
	case KindAsync:
		return "async"
	default:
		return "plain"
	}
}

// IsAction reports whether the kind gets the full action pipeline:
// argument normalization, hooks and timing.
func (k Kind) IsAction() bool {
	return k == KindRender || k == KindAsync
}
