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

// Package bmp implements the BGP Monitoring Protocol (RFC 7854): a typed
// message model, a stateful stream codec that splits a byte stream into
// frames and tracks per-peer BGP capability context, and a TCP listener for
// monitored routers.
package bmp

import (
	"bytes"
	"io"
)

// Message is the closed set of BMP message kinds. Every kind computes its
// total wire length, including the 6-octet common header, without encoding;
// Encode writes exactly Len bytes.
type Message interface {
	Type() MessageType
	Len() int
	Encode(io.Writer) (int, error)
}

func encodeCommonHeader(cw *countingWriter, length int, t MessageType) error {
	if err := writeUint8(cw, Version); err != nil {
		return err
	}
	if err := writeUint32(cw, uint32(length)); err != nil {
		return err
	}
	return writeUint8(cw, uint8(t))
}

// InitiationMessage announces the monitored router to the collector; its
// body is a sequence of information TLVs.
type InitiationMessage struct {
	Information []Information
}

func (*InitiationMessage) Type() MessageType { return TypeInitiation }

func (m *InitiationMessage) Len() int {
	return commonHeaderLength + informationLen(m.Information)
}

func (m *InitiationMessage) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := encodeCommonHeader(cw, m.Len(), TypeInitiation); err != nil {
		return cw.n, err
	}
	return cw.n, encodeInformationList(cw, m.Information)
}

func decodeInitiation(b *bytes.Buffer) (*InitiationMessage, error) {
	infos, err := decodeInformationList(b)
	if err != nil {
		return nil, err
	}
	return &InitiationMessage{Information: infos}, nil
}

// TerminationMessage closes monitoring for one peer.
type TerminationMessage struct {
	PeerHeader  PeerHeader
	Information []TerminationInformation
}

func (*TerminationMessage) Type() MessageType { return TypeTermination }

func (m *TerminationMessage) Len() int {
	n := commonHeaderLength + peerHeaderLength
	for i := range m.Information {
		n += m.Information[i].Len()
	}
	return n
}

func (m *TerminationMessage) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := encodeCommonHeader(cw, m.Len(), TypeTermination); err != nil {
		return cw.n, err
	}
	if err := m.PeerHeader.encode(cw); err != nil {
		return cw.n, err
	}
	for i := range m.Information {
		if _, err := m.Information[i].Encode(cw); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

func decodeTermination(b *bytes.Buffer) (*TerminationMessage, error) {
	h, err := decodePeerHeader(b)
	if err != nil {
		return nil, err
	}
	m := &TerminationMessage{PeerHeader: h}
	for b.Len() > 0 {
		info, err := decodeTerminationInformation(b)
		if err != nil {
			return nil, err
		}
		m.Information = append(m.Information, info)
	}
	return m, nil
}

// ExperimentalMessage carries one of the experimental message types 251-254
// whose body is opaque by definition.
type ExperimentalMessage struct {
	MessageType MessageType
	Body        []byte
}

func (m *ExperimentalMessage) Type() MessageType { return m.MessageType }

func (m *ExperimentalMessage) Len() int { return commonHeaderLength + len(m.Body) }

func (m *ExperimentalMessage) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := encodeCommonHeader(cw, m.Len(), m.MessageType); err != nil {
		return cw.n, err
	}
	_, err := cw.Write(m.Body)
	return cw.n, err
}

func decodeExperimental(t MessageType, b *bytes.Buffer) (*ExperimentalMessage, error) {
	m := &ExperimentalMessage{MessageType: t}
	if b.Len() > 0 {
		m.Body = append([]byte(nil), b.Next(b.Len())...)
	}
	return m, nil
}
