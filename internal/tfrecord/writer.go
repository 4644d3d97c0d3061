package tfrecord

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer appends frames to an underlying stream.
type Writer struct {
	w      io.Writer
	header [headerSize]byte
	footer [footerSize]byte
}

// NewWriter returns a Writer that frames payloads onto w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write frames data as a single record.
func (w *Writer) Write(data []byte) error {
	binary.LittleEndian.PutUint64(w.header[:8], uint64(len(data)))
	binary.LittleEndian.PutUint32(w.header[8:], maskedCRC(w.header[:8]))
	binary.LittleEndian.PutUint32(w.footer[:], maskedCRC(data))

	if _, err := w.w.Write(w.header[:]); err != nil {
		return fmt.Errorf("failed to write frame header: %w", err)
	}
	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("failed to write frame payload: %w", err)
	}
	if _, err := w.w.Write(w.footer[:]); err != nil {
		return fmt.Errorf("failed to write frame checksum: %w", err)
	}
	return nil
}

// Flush flushes the underlying writer when it supports buffering.
func (w *Writer) Flush() error {
	if f, ok := w.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
