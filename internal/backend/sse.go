package backend

import (
	"bufio"
	"bytes"
	"io"
	"iter"
)

const maxEventLine = 1 << 20

// EventData yields the payload of every "data:" line of a server-sent event
// stream, in order. Other fields and comments are skipped. A read failure is
// yielded once and ends the sequence.
func EventData(r io.Reader) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxEventLine)
		for sc.Scan() {
			line := sc.Bytes()
			data, ok := bytes.CutPrefix(line, []byte("data:"))
			if !ok {
				continue
			}
			data = bytes.TrimPrefix(data, []byte(" "))
			if len(data) == 0 {
				continue
			}
			// the scanner reuses its buffer
			if !yield(bytes.Clone(data), nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(nil, err)
		}
	}
}
