package priority

import "github.com/rs/zerolog"

// logEvent is a thin chainable wrapper around a zerolog debug event so
// call sites in tree.go read as a short fluent chain
// (t.log().id(id).str("op", "insert_stream").msg()) regardless of
// whether a logger was ever configured. When none was, the underlying
// event is zerolog's no-op and every call here is a cheap no-op too.
type logEvent struct {
	ev *zerolog.Event
}

func (l *logEvent) id(streamID uint32) *logEvent {
	l.ev = l.ev.Uint32("stream_id", streamID)
	return l
}

func (l *logEvent) str(key, value string) *logEvent {
	l.ev = l.ev.Str(key, value)
	return l
}

func (l *logEvent) msg() {
	l.ev.Msg("priority tree mutation")
}
