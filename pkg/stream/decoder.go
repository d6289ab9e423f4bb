package stream

import (
	"bufio"
	"io"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	dataPrefix = "data:"
	terminator = "[DONE]"

	// Allow for large completed-message payloads on a single line
	maxLineSize = 1 << 20
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Decode reads line-oriented frames from r and invokes fn once per semantic
// event, in arrival order. Data lines carry one payload each; event-name
// lines, blank separators and unrecognized lines are skipped. A data line
// whose payload is the terminator token yields Done and stops decoding even
// if more bytes remain unread. The reader is closed on every exit path.
//
// fn returning an error stops decoding and the error is returned; a read
// failure mid-stream is returned as-is. Decode never emits an event after
// the terminator.
func Decode(r io.ReadCloser, fn func(Event) error) error {
	defer r.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			// event-name line, blank separator or junk
			continue
		}
		data := strings.TrimSpace(line[len(dataPrefix):])
		if data == terminator {
			return fn(Done{})
		}
		if evt, ok := Translate(data); ok {
			if err := fn(evt); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}
