package protocol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// ErrMalformedFrame is returned by FrameReader.ReadFrame when a line is not
// valid JSON. Callers on the bridge side treat this as a hard error; callers
// on the simulator side log it and keep reading (see MockPlant.handleConn).
var ErrMalformedFrame = fmt.Errorf("malformed frame")

// WriteFrame marshals v to JSON and writes it to w followed by a newline,
// mirroring the "append a terminator, then write" shape of
// comm.RemoteDevice.Send in the wider device-driver corpus this core draws
// from, adapted from a single terminator byte to a newline-delimited JSON
// object.
func WriteFrame(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// FrameReader reads one JSON object per line from an underlying stream.
type FrameReader struct {
	scanner *bufio.Scanner
}

// NewFrameReader wraps r with a line-oriented JSON frame reader. The internal
// buffer is grown to accommodate large status snapshots (louver arrays, etc).
func NewFrameReader(r io.Reader) *FrameReader {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	return &FrameReader{scanner: scanner}
}

// ReadFrame blocks until one line is available and unmarshals it into v.
// It returns io.EOF when the underlying stream is closed, and
// ErrMalformedFrame (wrapped with the json error) when the line is not valid
// JSON.
func (f *FrameReader) ReadFrame(v any) error {
	if !f.scanner.Scan() {
		if err := f.scanner.Err(); err != nil {
			return err
		}
		return io.EOF
	}
	line := f.scanner.Bytes()
	if err := json.Unmarshal(line, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return nil
}

// RawFrame reads one line and returns it as a generic map, for callers that
// need to inspect fields (e.g. commandId) before deciding how to decode the
// rest, or that need a lenient read for logging a dropped frame.
func (f *FrameReader) RawFrame() (map[string]any, []byte, error) {
	if !f.scanner.Scan() {
		if err := f.scanner.Err(); err != nil {
			return nil, nil, err
		}
		return nil, nil, io.EOF
	}
	line := append([]byte(nil), f.scanner.Bytes()...)
	var m map[string]any
	if err := json.Unmarshal(line, &m); err != nil {
		return nil, line, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return m, line, nil
}
