package session

// EventType identifies session change notifications.
type EventType uint8

const (
	EventRenderSet EventType = iota
	EventRenderRemoved
	EventGradientSet
	EventGradientRemoved
	EventBrushSet
	EventBrushRemoved
	EventEffectSet
	EventEffectRemoved
	EventGeneratorSet
	EventGeneratorRemoved
	EventSelectedRenderChanged
	EventSelectedGradientChanged
	EventEffectSelected
	EventEffectDeselected
	EventBrushAssigned
	EventCleared
)

var eventNames = [...]string{
	EventRenderSet:               "render_set",
	EventRenderRemoved:           "render_removed",
	EventGradientSet:             "gradient_set",
	EventGradientRemoved:         "gradient_removed",
	EventBrushSet:                "brush_set",
	EventBrushRemoved:            "brush_removed",
	EventEffectSet:               "effect_set",
	EventEffectRemoved:           "effect_removed",
	EventGeneratorSet:            "generator_set",
	EventGeneratorRemoved:        "generator_removed",
	EventSelectedRenderChanged:   "selected_render_changed",
	EventSelectedGradientChanged: "selected_gradient_changed",
	EventEffectSelected:          "effect_selected",
	EventEffectDeselected:        "effect_deselected",
	EventBrushAssigned:           "brush_assigned",
	EventCleared:                 "cleared",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event is a single session change. Name is the affected item, empty for
// EventCleared and for deselection.
type Event struct {
	Type EventType
	Name string
}

type observer struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it. Observers run synchronously in registration order.
func (s *Session) Subscribe(fn func(Event)) (cancel func()) {
	s.nextObserver++
	id := s.nextObserver
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) emit(t EventType, name string) {
	for _, o := range s.observers {
		o.fn(Event{Type: t, Name: name})
	}
}
