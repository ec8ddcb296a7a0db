package protocol

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFrameAppendsNewline(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFrame(&buf, Command{ID: 1, Name: CmdStopAz})
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))

	var got Command
	r := NewFrameReader(&buf)
	require.NoError(t, r.ReadFrame(&got))
	assert.Equal(t, uint64(1), got.ID)
	assert.Equal(t, CmdStopAz, got.Name)
}

func TestReadFrameReturnsEOFOnEmptyStream(t *testing.T) {
	r := NewFrameReader(bytes.NewReader(nil))
	var got Command
	err := r.ReadFrame(&got)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadFrameRejectsMalformedJSON(t *testing.T) {
	r := NewFrameReader(bytes.NewBufferString("not json\n"))
	var got Command
	err := r.ReadFrame(&got)
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestRawFrameExposesCommandID(t *testing.T) {
	r := NewFrameReader(bytes.NewBufferString(`{"commandId": 7, "command": "stopAz", "parameters": {}}` + "\n"))
	m, raw, err := r.RawFrame()
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.EqualValues(t, 7, m["commandId"])
}

func TestMultipleFramesReadInOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, Command{ID: 1, Name: CmdStopAz}))
	require.NoError(t, WriteFrame(&buf, Command{ID: 2, Name: CmdStopEl}))

	r := NewFrameReader(&buf)
	var first, second Command
	require.NoError(t, r.ReadFrame(&first))
	require.NoError(t, r.ReadFrame(&second))
	assert.Equal(t, uint64(1), first.ID)
	assert.Equal(t, uint64(2), second.ID)
}
