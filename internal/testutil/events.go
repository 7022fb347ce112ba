package testutil

import (
	"bufio"
	"io"
	"strings"
	"testing"
	"time"
)

// Event is one server-sent event read from a stream
type Event struct {
	Name string
	Data string
}

// EventReader parses a text/event-stream body in the background
type EventReader struct {
	events chan Event
}

// NewEventReader starts reading events from r until it ends
func NewEventReader(r io.Reader) *EventReader {
	reader := &EventReader{events: make(chan Event, 16)}
	go func() {
		defer close(reader.events)

		var event Event
		var data []string
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				if event.Name != "" || len(data) > 0 {
					event.Data = strings.Join(data, "\n")
					reader.events <- event
				}
				event, data = Event{}, nil
			case strings.HasPrefix(line, ":"):
				// keepalive comment
			case strings.HasPrefix(line, "event: "):
				event.Name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = append(data, strings.TrimPrefix(line, "data: "))
			}
		}
	}()
	return reader
}

// Next returns the next event, failing the test if none arrives
func (e *EventReader) Next(t testing.TB) Event {
	t.Helper()
	select {
	case event, ok := <-e.events:
		if !ok {
			t.Fatal("event stream ended")
		}
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}
