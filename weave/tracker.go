package weave

import (
	"errors"
	"fmt"
)

// ErrStructure indicates the event stream and the tracked structure disagree,
// for example a close event with nothing open. It signals a bug in the
// [Emitter], never a problem with the tree or comments.
var ErrStructure = errors.New("structural invariant violation")

// Step is the [Tracker]'s view of one [Event].
//
// Path is the logical location being emitted. Anchor is true when the event
// introduces the location Path names: a mapping key, or the first event of a
// sequence element. Only anchor steps are eligible for comments, so each
// location is offered exactly once per occurrence.
type Step struct {
	Path   Path
	Kind   EventKind
	Line   int
	Anchor bool
}

type frameKind int

const (
	mapFrame frameKind = iota
	seqFrame
)

// frame is one open collection. Map frames hold the live key; at most one key
// per level is live, so siblings replace each other.
type frame struct {
	key       Segment
	kind      frameKind
	hasKey    bool
	expectKey bool
}

// Tracker reconstructs logical paths from a structural event stream.
//
// Create instances with [NewTracker] and feed events in stream order with
// [Tracker.Next]. A Tracker is not safe for concurrent use.
type Tracker struct {
	frames []frame
	path   Path
	events int
}

// NewTracker creates a [Tracker] positioned before the first document.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Track runs a fresh [Tracker] over events and returns one [Step] per event.
func Track(events []Event) ([]Step, error) {
	t := NewTracker()
	steps := make([]Step, 0, len(events))

	for _, ev := range events {
		step, err := t.Next(ev)
		if err != nil {
			return nil, err
		}

		steps = append(steps, step)
	}

	return steps, nil
}

// Depth returns the number of open collections.
func (t *Tracker) Depth() int {
	return len(t.frames)
}

// Next consumes ev and returns the resulting [Step]. It returns an error
// wrapping [ErrStructure] when ev cannot follow the events seen so far.
func (t *Tracker) Next(ev Event) (Step, error) {
	t.events++

	step := Step{Kind: ev.Kind, Line: ev.Line}

	switch ev.Kind {
	case DocumentStart:
		t.frames = t.frames[:0]
		t.path = t.path[:0]

	case MapStart, SequenceStart:
		anchor, err := t.enterValue(ev)
		if err != nil {
			return Step{}, err
		}

		step.Path = t.snapshot()
		step.Anchor = anchor

		kind := mapFrame
		if ev.Kind == SequenceStart {
			kind = seqFrame
		}

		t.push(frame{kind: kind, expectKey: kind == mapFrame})

	case MapEnd, SequenceEnd:
		err := t.pop(ev)
		if err != nil {
			return Step{}, err
		}

		step.Path = t.snapshot()

	case Scalar:
		anchor, err := t.scalar(ev)
		if err != nil {
			return Step{}, err
		}

		step.Path = t.snapshot()
		step.Anchor = anchor

	default:
		return Step{}, fmt.Errorf("%w: event %d: unknown kind %s", ErrStructure, t.events, ev.Kind)
	}

	return step, nil
}

// enterValue records that a collection is starting in value position and
// reports whether it begins a sequence element.
func (t *Tracker) enterValue(ev Event) (bool, error) {
	if len(t.frames) == 0 {
		return false, nil
	}

	top := &t.frames[len(t.frames)-1]
	if top.kind == seqFrame {
		return true, nil
	}

	if top.expectKey {
		// Complex (collection) keys are never produced for configuration trees.
		return false, fmt.Errorf("%w: event %d: %s in key position", ErrStructure, t.events, ev)
	}

	top.expectKey = true

	return false, nil
}

func (t *Tracker) scalar(ev Event) (bool, error) {
	if len(t.frames) == 0 {
		// A bare scalar document.
		return false, nil
	}

	top := &t.frames[len(t.frames)-1]
	if top.kind == seqFrame {
		return true, nil
	}

	if !top.expectKey {
		top.expectKey = true

		return false, nil
	}

	seg := Key(ev.Value)
	if top.hasKey {
		t.path[len(t.path)-1] = seg
	} else {
		t.path = append(t.path, seg)
		top.hasKey = true
	}

	top.key = seg
	top.expectKey = false

	return true, nil
}

func (t *Tracker) push(f frame) {
	t.frames = append(t.frames, f)
	if f.kind == seqFrame {
		t.path = append(t.path, Element())
	}
}

func (t *Tracker) pop(ev Event) error {
	if len(t.frames) == 0 {
		return fmt.Errorf("%w: event %d: %s with no open collection", ErrStructure, t.events, ev)
	}

	top := t.frames[len(t.frames)-1]

	want := mapFrame
	if ev.Kind == SequenceEnd {
		want = seqFrame
	}

	if top.kind != want {
		return fmt.Errorf("%w: event %d: %s does not close the open collection", ErrStructure, t.events, ev)
	}

	if top.kind == mapFrame && !top.expectKey {
		return fmt.Errorf("%w: event %d: mapping closed before value of %q", ErrStructure, t.events, top.key)
	}

	if top.kind == seqFrame || top.hasKey {
		t.path = t.path[:len(t.path)-1]
	}

	t.frames = t.frames[:len(t.frames)-1]

	return nil
}

// snapshot copies the live path so steps stay valid after later events.
func (t *Tracker) snapshot() Path {
	if len(t.path) == 0 {
		return nil
	}

	p := make(Path, len(t.path))
	copy(p, t.path)

	return p
}
