package world

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/proto"
)

// maxFrameSize bounds a single length-prefixed frame.
const maxFrameSize = 64 << 20

// ErrStreamDesync is returned when a frame prefix cannot be honored and the
// stream position is no longer at a frame boundary.
var ErrStreamDesync = errors.New("world: stream out of sync")

// WriteMessage writes m preceded by its varint length in a single Write.
func WriteMessage(w io.Writer, m proto.Message) error {
	var buf bytes.Buffer
	if _, err := protodelim.MarshalTo(&buf, m); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ReadMessage reads one varint length prefix and decodes exactly that many
// bytes into m. A clean end of stream before the prefix returns io.EOF; a
// stream that ends mid-frame returns io.ErrUnexpectedEOF. A prefix above
// maxFrameSize leaves the payload unread and returns ErrStreamDesync.
func ReadMessage(r *bufio.Reader, m proto.Message) error {
	err := protodelim.UnmarshalOptions{MaxSize: maxFrameSize}.UnmarshalFrom(r, m)
	var tooLarge *protodelim.SizeTooLargeError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: %w", ErrStreamDesync, err)
	}
	return err
}
