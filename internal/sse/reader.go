// Package sse decodes a text/event-stream body into events.
package sse

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// DefaultEvent is the name of an event without an "event:" field.
const DefaultEvent = "message"

type Event struct {
	Name  string
	Data  string
	ID    string
	Retry time.Duration // zero unless the event carried "retry:"
}

// Reader yields dispatched events. It is not safe for concurrent use.
type Reader struct {
	sc     *bufio.Scanner
	lastID string
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{sc: sc}
}

// LastID is the most recent id seen on the stream.
func (r *Reader) LastID() string { return r.lastID }

// Next blocks until a complete event is dispatched. It returns io.EOF when
// the stream ends; a trailing event without a blank line is discarded.
func (r *Reader) Next() (Event, error) {
	var (
		ev      Event
		data    []string
		hasData bool
	)
	for r.sc.Scan() {
		line := strings.TrimSuffix(r.sc.Text(), "\r")

		if line == "" {
			if !hasData {
				// retry-only blocks still matter to the caller
				if ev.Retry > 0 {
					ev.ID = r.lastID
					return ev, nil
				}
				ev = Event{}
				continue
			}
			ev.Data = strings.Join(data, "\n")
			if ev.Name == "" {
				ev.Name = DefaultEvent
			}
			ev.ID = r.lastID
			return ev, nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "event":
			ev.Name = value
		case "data":
			data = append(data, value)
			hasData = true
		case "id":
			if !strings.ContainsRune(value, 0) {
				r.lastID = value
			}
		case "retry":
			if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
				ev.Retry = time.Duration(ms) * time.Millisecond
			}
		}
	}
	if err := r.sc.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}
