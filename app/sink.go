package app

import (
	"github.com/rs/zerolog"

	"github.com/covault/covault"
)

// EventSink consumes the events emitted by delivered transactions.
//
// Publishing happens after the transaction state was written, outside
// of the transaction scope. A sink can observe committed transitions
// but can never influence nor roll them back, so implementations are
// free to drop events on the floor.
type EventSink interface {
	Publish(covault.Event)
}

// NopSink drops all events.
type NopSink struct{}

var _ EventSink = NopSink{}

func (NopSink) Publish(covault.Event) {}

// LogSink writes every event to a structured logger.
type LogSink struct {
	logger zerolog.Logger
}

var _ EventSink = LogSink{}

// NewLogSink creates a sink that logs events with the given logger.
func NewLogSink(logger zerolog.Logger) LogSink {
	return LogSink{logger: logger}
}

func (s LogSink) Publish(ev covault.Event) {
	log := s.logger.Info().Str("event", ev.Type)
	for _, attr := range ev.Attributes {
		log = log.Str(attr.Key, attr.Value)
	}
	log.Msg("event")
}

// MemSink collects all events in memory, mostly useful in tests.
type MemSink struct {
	Events []covault.Event
}

var _ EventSink = (*MemSink)(nil)

func (s *MemSink) Publish(ev covault.Event) {
	s.Events = append(s.Events, ev)
}
