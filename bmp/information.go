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
	"io"
)

// Information is one 2-octet-type, 2-octet-length TLV of an Initiation or
// Peer Up message. Assigned types carry UTF-8 strings in Value; experimental
// types keep their payload opaque in Raw and re-encode unchanged.
type Information struct {
	Type  InformationType
	Value string
	Raw   []byte
}

func (i *Information) Len() int {
	if i.Type.experimental() {
		return 4 + len(i.Raw)
	}
	return 4 + len(i.Value)
}

func (i *Information) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := writeUint16(cw, uint16(i.Type)); err != nil {
		return cw.n, err
	}
	if i.Type.experimental() {
		if err := writeUint16(cw, uint16(len(i.Raw))); err != nil {
			return cw.n, err
		}
		_, err := cw.Write(i.Raw)
		return cw.n, err
	}
	if err := writeUint16(cw, uint16(len(i.Value))); err != nil {
		return cw.n, err
	}
	_, err := cw.Write([]byte(i.Value))
	return cw.n, err
}

func decodeInformation(b *bytes.Buffer) (Information, error) {
	var i Information
	t, err := readUint16(b)
	if err != nil {
		return i, err
	}
	i.Type = InformationType(t)
	length, err := readUint16(b)
	if err != nil {
		return i, err
	}
	value, err := take(b, int(length))
	if err != nil {
		return i, err
	}
	switch {
	case i.Type.experimental():
		i.Raw = append([]byte(nil), value...)
	case i.Type <= InfoAdminLabel:
		i.Value = string(value)
	default:
		return i, undefinedInformationType(t)
	}
	return i, nil
}

func decodeInformationList(b *bytes.Buffer) ([]Information, error) {
	var infos []Information
	for b.Len() > 0 {
		info, err := decodeInformation(b)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func informationLen(infos []Information) int {
	n := 0
	for i := range infos {
		n += infos[i].Len()
	}
	return n
}

func encodeInformationList(cw *countingWriter, infos []Information) error {
	for i := range infos {
		if _, err := infos[i].Encode(cw); err != nil {
			return err
		}
	}
	return nil
}

// TerminationInformation is the TLV flavor of Termination messages; type 1
// carries a 2-octet reason code instead of a string.
type TerminationInformation struct {
	Type   TerminationInformationType
	Value  string
	Reason uint16
	Raw    []byte
}

func (i *TerminationInformation) Len() int {
	switch {
	case i.Type == TerminationInfoReason:
		return 4 + 2
	case i.Type.experimental():
		return 4 + len(i.Raw)
	default:
		return 4 + len(i.Value)
	}
}

func (i *TerminationInformation) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := writeUint16(cw, uint16(i.Type)); err != nil {
		return cw.n, err
	}
	switch {
	case i.Type == TerminationInfoReason:
		if err := writeUint16(cw, 2); err != nil {
			return cw.n, err
		}
		return cw.n, writeUint16(cw, i.Reason)
	case i.Type.experimental():
		if err := writeUint16(cw, uint16(len(i.Raw))); err != nil {
			return cw.n, err
		}
		_, err := cw.Write(i.Raw)
		return cw.n, err
	default:
		if err := writeUint16(cw, uint16(len(i.Value))); err != nil {
			return cw.n, err
		}
		_, err := cw.Write([]byte(i.Value))
		return cw.n, err
	}
}

func decodeTerminationInformation(b *bytes.Buffer) (TerminationInformation, error) {
	var i TerminationInformation
	t, err := readUint16(b)
	if err != nil {
		return i, err
	}
	i.Type = TerminationInformationType(t)
	length, err := readUint16(b)
	if err != nil {
		return i, err
	}
	value, err := take(b, int(length))
	if err != nil {
		return i, err
	}
	switch {
	case i.Type == TerminationInfoString:
		i.Value = string(value)
	case i.Type == TerminationInfoReason:
		if length != 2 {
			return i, undefinedInformationType(t)
		}
		i.Reason = uint16(value[0])<<8 | uint16(value[1])
	case i.Type.experimental():
		i.Raw = append([]byte(nil), value...)
	default:
		return i, undefinedInformationType(t)
	}
	return i, nil
}
