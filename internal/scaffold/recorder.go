package scaffold

import (
	"log/slog"
)

// EventKind identifies what a materialization step created.
type EventKind string

const (
	EventFolder EventKind = "folder"
	EventMarker EventKind = "marker"
	EventFile   EventKind = "file"
)

// Event is one successful creation.
type Event struct {
	Kind EventKind
	Path string // path on the materializer's filesystem
	Size int    // bytes written; zero for folders and markers
}

// Recorder receives creation events. It has no error return: recording never
// changes the outcome of a materialization.
type Recorder interface {
	Record(Event)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(Event)

// Record calls f(ev).
func (f RecorderFunc) Record(ev Event) { f(ev) }

type nopRecorder struct{}

func (nopRecorder) Record(Event) {}

// LogRecorder returns a Recorder that writes each event to logger at info level.
func LogRecorder(logger *slog.Logger) Recorder {
	return RecorderFunc(func(ev Event) {
		switch ev.Kind {
		case EventFolder:
			logger.Info("Created folder", "path", ev.Path)
		case EventMarker:
			logger.Info("Created marker", "path", ev.Path)
		case EventFile:
			logger.Info("Created file", "path", ev.Path, "bytes", ev.Size)
		}
	})
}
