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

// Package bgp implements encoding and decoding of the BGP-4 messages
// embedded in BMP, with the capability-derived decode context that governs
// how Update messages are parsed.
package bgp

import (
	"bytes"
	"fmt"
	"io"
)

// Message is the closed set of BGP message kinds. Every kind computes its
// full wire length without encoding, and encoding writes exactly Len bytes.
type Message interface {
	Type() MessageType
	Len() int
	Encode(io.Writer) (int, error)
}

// KeepAliveMessage has no body (RFC 4271, Section 4.4).
type KeepAliveMessage struct{}

func (*KeepAliveMessage) Type() MessageType { return TypeKeepAlive }

func (*KeepAliveMessage) Len() int { return headerLength }

func (k *KeepAliveMessage) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	err := encodeHeader(cw, k.Len(), TypeKeepAlive)
	return cw.n, err
}

// NotificationMessage reports an error to the peer (RFC 4271, Section 4.5).
type NotificationMessage struct {
	Code    uint8
	Subcode uint8
	Data    []byte
}

func (*NotificationMessage) Type() MessageType { return TypeNotification }

func (n *NotificationMessage) Len() int { return headerLength + 2 + len(n.Data) }

func (n *NotificationMessage) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := encodeHeader(cw, n.Len(), TypeNotification); err != nil {
		return cw.n, err
	}
	if err := writeUint8(cw, n.Code); err != nil {
		return cw.n, err
	}
	if err := writeUint8(cw, n.Subcode); err != nil {
		return cw.n, err
	}
	_, err := cw.Write(n.Data)
	return cw.n, err
}

var marker = bytes.Repeat([]byte{0xff}, 16)

func encodeHeader(cw *countingWriter, length int, t MessageType) error {
	if _, err := cw.Write(marker); err != nil {
		return err
	}
	if err := writeUint16(cw, uint16(length)); err != nil {
		return err
	}
	return writeUint8(cw, uint8(t))
}

// Decode consumes exactly one BGP message from b. The context supplies the
// negotiated capability state of the session the message belongs to; a nil
// context decodes with no extensions assumed.
func Decode(b *bytes.Buffer, ctx *Context) (Message, error) {
	head, err := take(b, headerLength)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(head[:16], marker) {
		return nil, ErrConnectionNotSynchronized
	}
	length := uint16(head[16])<<8 | uint16(head[17])
	if length < headerLength || length > maxMessageLength {
		return nil, badMessageLength(length)
	}
	t := MessageType(head[18])

	body, err := take(b, int(length)-headerLength)
	if err != nil {
		return nil, err
	}
	bb := bytes.NewBuffer(body)

	var msg Message
	switch t {
	case TypeOpen:
		msg, err = decodeOpen(bb)
	case TypeUpdate:
		msg, err = decodeUpdate(bb, ctx)
	case TypeNotification:
		n := &NotificationMessage{}
		if n.Code, err = readUint8(bb); err != nil {
			break
		}
		if n.Subcode, err = readUint8(bb); err != nil {
			break
		}
		if bb.Len() > 0 {
			n.Data = append([]byte(nil), bb.Next(bb.Len())...)
		}
		msg = n
	case TypeKeepAlive:
		if length != headerLength {
			return nil, badMessageLength(length)
		}
		msg = &KeepAliveMessage{}
	default:
		return nil, undefinedMessageType(uint8(t))
	}
	if err != nil {
		return nil, fmt.Errorf("%s message: %w", t, err)
	}
	if bb.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after %s body",
			ErrBadMessageLength, bb.Len(), t)
	}
	return msg, nil
}
