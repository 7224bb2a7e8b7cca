package weave

import "fmt"

// EventKind identifies the structural meaning of an [Event].
type EventKind int

const (
	// DocumentStart begins a YAML document.
	DocumentStart EventKind = iota
	// MapStart opens a mapping.
	MapStart
	// MapEnd closes the innermost open mapping.
	MapEnd
	// SequenceStart opens a sequence.
	SequenceStart
	// SequenceEnd closes the innermost open sequence.
	SequenceEnd
	// Scalar is a key or value scalar.
	Scalar
)

var eventKindNames = map[EventKind]string{
	DocumentStart: "DocumentStart",
	MapStart:      "MapStart",
	MapEnd:        "MapEnd",
	SequenceStart: "SequenceStart",
	SequenceEnd:   "SequenceEnd",
	Scalar:        "Scalar",
}

// String returns the name of the kind.
func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one structural token of emitted YAML text.
//
// Line is the 0-based index of the emitted line where the event's text
// begins. Events are produced in text order, so Line never decreases along a
// stream. Value is only meaningful for [Scalar] events.
type Event struct {
	Value string
	Kind  EventKind
	Line  int
}

// String renders the event for debugging and test failure output.
func (e Event) String() string {
	if e.Kind == Scalar {
		return fmt.Sprintf("%s(%q)@%d", e.Kind, e.Value, e.Line)
	}

	return fmt.Sprintf("%s@%d", e.Kind, e.Line)
}

// Emission is the output of an [Emitter]: the emitted text split into lines
// (without separators) and the event stream describing it.
type Emission struct {
	Lines  []string
	Events []Event
}

// Emitter renders an ordered tree to YAML block text and describes that text
// as an event stream whose [Event.Line] values index into the returned lines.
//
// Trees are built from ordered mappings, slices, and scalars; see
// [go.jacobcolvin.com/commentspec/emitter] for the accepted shapes.
type Emitter interface {
	Emit(tree any) (*Emission, error)
}
