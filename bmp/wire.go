/*
Copyright 2024 The go-telemetry Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bmp

import (
	"bytes"
	"encoding/binary"
	"io"
)

func take(b *bytes.Buffer, n int) ([]byte, error) {
	if b.Len() < n {
		return nil, &IncompleteError{Needed: n - b.Len()}
	}
	return b.Next(n), nil
}

func readUint8(b *bytes.Buffer) (uint8, error) {
	s, err := take(b, 1)
	if err != nil {
		return 0, err
	}
	return s[0], nil
}

func readUint16(b *bytes.Buffer) (uint16, error) {
	s, err := take(b, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(s), nil
}

func readUint32(b *bytes.Buffer) (uint32, error) {
	s, err := take(b, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(s), nil
}

func readUint64(b *bytes.Buffer) (uint64, error) {
	s, err := take(b, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(s), nil
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

func writeUint8(w *countingWriter, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func writeUint16(w *countingWriter, v uint16) error {
	var s [2]byte
	binary.BigEndian.PutUint16(s[:], v)
	_, err := w.Write(s[:])
	return err
}

func writeUint32(w *countingWriter, v uint32) error {
	var s [4]byte
	binary.BigEndian.PutUint32(s[:], v)
	_, err := w.Write(s[:])
	return err
}

func writeUint64(w *countingWriter, v uint64) error {
	var s [8]byte
	binary.BigEndian.PutUint64(s[:], v)
	_, err := w.Write(s[:])
	return err
}
