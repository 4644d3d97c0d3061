// Package tfrecord reads and writes the length-prefixed, CRC protected frame
// container used for TFRecord files.
//
// Each frame is laid out as
//
//	uint64 length | uint32 masked crc32c(length) | data | uint32 masked crc32c(data)
//
// with all integers little endian.
package tfrecord

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	headerSize = 12
	footerSize = 4
	// maxFrameLen bounds a single payload. Longer lengths are treated as a
	// corrupt header.
	maxFrameLen = 1 << 28
	// eagerFrameLen is the largest payload allocated up front. Longer payloads
	// grow their buffer as bytes arrive, so a truncated file never costs more
	// memory than it holds.
	eagerFrameLen = 1 << 20
)

var (
	// ErrCorruptLength is returned when the length header fails its checksum.
	// The frame boundaries are lost, so the reader cannot continue.
	ErrCorruptLength = errors.New("tfrecord: corrupted frame length")
	// ErrCorruptData is returned when a payload fails its checksum. The reader
	// has already skipped the frame and can continue with the next one.
	ErrCorruptData = errors.New("tfrecord: corrupted frame data")
	// ErrTruncated is returned when the stream ends inside a frame.
	ErrTruncated = errors.New("tfrecord: truncated frame")
)

// IsRecoverable reports whether reading can continue after err.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrCorruptData)
}

// Reader yields frame payloads from an underlying stream.
type Reader struct {
	r      *bufio.Reader
	header [headerSize]byte
	footer [footerSize]byte
	offset int64
	err    error
}

// NewReader wraps r. Buffering is added internally.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 1<<16)}
}

// Offset returns the byte offset of the next frame.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Next returns the next payload. It returns io.EOF once the stream ends on a
// frame boundary. After a non-recoverable error every later call returns the
// same error.
func (r *Reader) Next() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}

	n, err := io.ReadFull(r.r, r.header[:])
	if err != nil {
		if err == io.EOF && n == 0 {
			r.err = io.EOF
			return nil, io.EOF
		}
		return nil, r.fail(ErrTruncated, "header at offset %d", r.offset)
	}

	lengthBytes := r.header[:8]
	if binary.LittleEndian.Uint32(r.header[8:]) != maskedCRC(lengthBytes) {
		return nil, r.fail(ErrCorruptLength, "at offset %d", r.offset)
	}
	length := binary.LittleEndian.Uint64(lengthBytes)
	if length > maxFrameLen {
		return nil, r.fail(ErrCorruptLength, "frame of %d bytes at offset %d exceeds limit", length, r.offset)
	}

	data, err := r.readPayload(int64(length))
	if err != nil {
		return nil, r.fail(ErrTruncated, "payload at offset %d", r.offset)
	}
	if _, err := io.ReadFull(r.r, r.footer[:]); err != nil {
		return nil, r.fail(ErrTruncated, "checksum at offset %d", r.offset)
	}

	frameOffset := r.offset
	r.offset += int64(headerSize + len(data) + footerSize)

	if binary.LittleEndian.Uint32(r.footer[:]) != maskedCRC(data) {
		return nil, fmt.Errorf("%w: at offset %d", ErrCorruptData, frameOffset)
	}
	return data, nil
}

func (r *Reader) readPayload(length int64) ([]byte, error) {
	if length <= eagerFrameLen {
		data := make([]byte, length)
		if _, err := io.ReadFull(r.r, data); err != nil {
			return nil, err
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r.r, length))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) < length {
		return nil, io.ErrUnexpectedEOF
	}
	return data, nil
}

func (r *Reader) fail(sentinel error, format string, args ...any) error {
	r.err = fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
	return r.err
}
