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

package ipfix

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
)

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.Add(InformationElement{Id: 1, Name: "octetDeltaCount", Type: "unsigned64", Range: &LengthRange{Low: 1, High: 8}})
	reg.Add(InformationElement{Id: 8, Name: "sourceIPv4Address", Type: "ipv4Address", Range: &LengthRange{Low: 4, High: 4}})
	reg.Add(InformationElement{Id: 12, Name: "destinationIPv4Address", Type: "ipv4Address", Range: &LengthRange{Low: 4, High: 4}})
	reg.Add(InformationElement{Id: 96, Name: "applicationName", Type: "string", Range: &LengthRange{Low: 0, High: VariableLength - 1}})
	return reg
}

func testTemplate() TemplateRecord {
	return TemplateRecord{
		TemplateId: 256,
		Fields: []FieldSpecifier{
			{Id: 8, Length: 4},
			{Id: 1, Length: 8},
		},
	}
}

// encodeAndDecode runs one message through Encode and back through the
// decoder, checking that written bytes match Len.
func encodeAndDecode(t *testing.T, d *Decoder, msg *Message) *Message {
	t.Helper()

	buf := &bytes.Buffer{}
	n, err := msg.Encode(buf)
	if err != nil {
		t.Fatalf("failed to encode message: %v", err)
	}
	if n != msg.Len() {
		t.Fatalf("encoded %d bytes, Len() says %d", n, msg.Len())
	}
	decoded, err := d.Decode(context.Background(), buf)
	if err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected message span fully consumed, %d bytes left", buf.Len())
	}
	return decoded
}

func TestDecoderTemplateThenData(t *testing.T) {
	d := NewDecoder(NewEphemeralCache(), testRegistry())

	templates := &Message{
		ExportTime:          1700000000,
		SequenceNumber:      1,
		ObservationDomainId: 42,
		Sets: []Set{
			{Id: TemplateSetId, Template: &TemplateSet{Records: []TemplateRecord{testTemplate()}}},
		},
	}
	decoded := encodeAndDecode(t, d, templates)
	if !reflect.DeepEqual(decoded, templates) {
		t.Errorf("expected %+v, got %+v", templates, decoded)
	}

	data := &Message{
		ExportTime:          1700000010,
		SequenceNumber:      2,
		ObservationDomainId: 42,
		Sets: []Set{
			{Id: 256, Data: &DataSet{Records: []DataRecord{
				{Fields: []FieldValue{
					{FieldSpecifier: FieldSpecifier{Id: 8, Length: 4}, Value: []byte{192, 0, 2, 1}},
					{FieldSpecifier: FieldSpecifier{Id: 1, Length: 8}, Value: []byte{0, 0, 0, 0, 0, 0, 1, 0}},
				}},
				{Fields: []FieldValue{
					{FieldSpecifier: FieldSpecifier{Id: 8, Length: 4}, Value: []byte{192, 0, 2, 2}},
					{FieldSpecifier: FieldSpecifier{Id: 1, Length: 8}, Value: []byte{0, 0, 0, 0, 0, 0, 2, 0}},
				}},
			}}},
		},
	}
	decoded = encodeAndDecode(t, d, data)
	if !reflect.DeepEqual(decoded, data) {
		t.Errorf("expected %+v, got %+v", data, decoded)
	}
}

func TestDecoderDataBeforeTemplate(t *testing.T) {
	d := NewDecoder(NewEphemeralCache(), testRegistry())

	data := &Message{
		ObservationDomainId: 42,
		Sets: []Set{
			{Id: 256, Data: &DataSet{Records: []DataRecord{
				{Fields: []FieldValue{
					{FieldSpecifier: FieldSpecifier{Id: 8, Length: 4}, Value: []byte{192, 0, 2, 1}},
				}},
			}}},
		},
	}

	buf := &bytes.Buffer{}
	if _, err := data.Encode(buf); err != nil {
		t.Fatal(err)
	}
	_, err := d.Decode(context.Background(), buf)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	// the record's field layout is unresolvable, same observable as an
	// unknown specifier
	if !errors.Is(err, ErrFieldSpecifierNotDefined) {
		t.Fatalf("expected ErrFieldSpecifierNotDefined, got %v", err)
	}
}

func TestDecoderTemplateScopedPerObservationDomain(t *testing.T) {
	d := NewDecoder(NewEphemeralCache(), testRegistry())

	templates := &Message{
		ObservationDomainId: 42,
		Sets: []Set{
			{Id: TemplateSetId, Template: &TemplateSet{Records: []TemplateRecord{testTemplate()}}},
		},
	}
	encodeAndDecode(t, d, templates)

	// template id 256 is only defined for domain 42, not 43
	data := &Message{
		ObservationDomainId: 43,
		Sets: []Set{
			{Id: 256, Data: &DataSet{Records: []DataRecord{
				{Fields: []FieldValue{
					{FieldSpecifier: FieldSpecifier{Id: 8, Length: 4}, Value: []byte{192, 0, 2, 1}},
				}},
			}}},
		},
	}
	buf := &bytes.Buffer{}
	if _, err := data.Encode(buf); err != nil {
		t.Fatal(err)
	}
	_, err := d.Decode(context.Background(), buf)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestDecoderOptionsTemplate(t *testing.T) {
	d := NewDecoder(NewEphemeralCache(), testRegistry())

	msg := &Message{
		ObservationDomainId: 42,
		Sets: []Set{
			{Id: OptionsTemplateSetId, OptionsTemplate: &OptionsTemplateSet{Records: []OptionsTemplateRecord{
				{
					TemplateId:      257,
					ScopeFieldCount: 1,
					Fields: []FieldSpecifier{
						{Id: 12, Length: 4},
						{Id: 1, Length: 8},
					},
				},
			}}},
		},
	}
	decoded := encodeAndDecode(t, d, msg)
	if !reflect.DeepEqual(decoded, msg) {
		t.Errorf("expected %+v, got %+v", msg, decoded)
	}

	template, err := d.templates.Get(context.Background(), NewKey(42, 257))
	if err != nil {
		t.Fatalf("expected options template learned: %v", err)
	}
	if template.ScopeFieldCount != 1 {
		t.Errorf("expected scope field count 1, got %d", template.ScopeFieldCount)
	}
}

func TestDecoderVariableLengthFields(t *testing.T) {
	d := NewDecoder(NewEphemeralCache(), testRegistry())

	templates := &Message{
		ObservationDomainId: 42,
		Sets: []Set{
			{Id: TemplateSetId, Template: &TemplateSet{Records: []TemplateRecord{
				{
					TemplateId: 258,
					Fields: []FieldSpecifier{
						{Id: 96, Length: VariableLength},
						{Id: 8, Length: 4},
					},
				},
			}}},
		},
	}
	encodeAndDecode(t, d, templates)

	long := bytes.Repeat([]byte{0x61}, 300) // exercises the 3-octet length form
	data := &Message{
		ObservationDomainId: 42,
		Sets: []Set{
			{Id: 258, Data: &DataSet{Records: []DataRecord{
				{Fields: []FieldValue{
					{FieldSpecifier: FieldSpecifier{Id: 96, Length: VariableLength}, Value: []byte("nginx")},
					{FieldSpecifier: FieldSpecifier{Id: 8, Length: 4}, Value: []byte{192, 0, 2, 1}},
				}},
				{Fields: []FieldValue{
					{FieldSpecifier: FieldSpecifier{Id: 96, Length: VariableLength}, Value: long},
					{FieldSpecifier: FieldSpecifier{Id: 8, Length: 4}, Value: []byte{192, 0, 2, 2}},
				}},
			}}},
		},
	}
	decoded := encodeAndDecode(t, d, data)
	if !reflect.DeepEqual(decoded, data) {
		t.Errorf("expected %+v, got %+v", data, decoded)
	}
}

func TestDecoderEnterpriseSpecifier(t *testing.T) {
	// enterprise-specific elements are not registry-validated when decoding
	// without a registry and round-trip opaquely
	d := NewDecoder(NewEphemeralCache(), nil)

	msg := &Message{
		ObservationDomainId: 42,
		Sets: []Set{
			{Id: TemplateSetId, Template: &TemplateSet{Records: []TemplateRecord{
				{
					TemplateId: 259,
					Fields: []FieldSpecifier{
						{Id: 40, Length: 2, EnterpriseNumber: 29305, Enterprise: true},
					},
				},
			}}},
		},
	}
	decoded := encodeAndDecode(t, d, msg)
	if !reflect.DeepEqual(decoded, msg) {
		t.Errorf("expected %+v, got %+v", msg, decoded)
	}
}

func TestDecoderFieldLengthValidation(t *testing.T) {
	d := NewDecoder(NewEphemeralCache(), testRegistry())

	t.Run("length outside allowed range", func(t *testing.T) {
		msg := &Message{
			ObservationDomainId: 42,
			Sets: []Set{
				{Id: TemplateSetId, Template: &TemplateSet{Records: []TemplateRecord{
					{TemplateId: 300, Fields: []FieldSpecifier{{Id: 8, Length: 6}}},
				}}},
			},
		}
		buf := &bytes.Buffer{}
		if _, err := msg.Encode(buf); err != nil {
			t.Fatal(err)
		}
		_, err := d.Decode(context.Background(), buf)
		if !errors.Is(err, ErrInvalidLength) {
			t.Fatalf("expected ErrInvalidLength, got %v", err)
		}
	})

	t.Run("variable length on fixed-length element", func(t *testing.T) {
		msg := &Message{
			ObservationDomainId: 42,
			Sets: []Set{
				{Id: TemplateSetId, Template: &TemplateSet{Records: []TemplateRecord{
					{TemplateId: 300, Fields: []FieldSpecifier{{Id: 8, Length: VariableLength}}},
				}}},
			},
		}
		buf := &bytes.Buffer{}
		if _, err := msg.Encode(buf); err != nil {
			t.Fatal(err)
		}
		_, err := d.Decode(context.Background(), buf)
		if !errors.Is(err, ErrInvalidLength) {
			t.Fatalf("expected ErrInvalidLength, got %v", err)
		}
	})

	t.Run("element not registered", func(t *testing.T) {
		msg := &Message{
			ObservationDomainId: 42,
			Sets: []Set{
				{Id: TemplateSetId, Template: &TemplateSet{Records: []TemplateRecord{
					{TemplateId: 300, Fields: []FieldSpecifier{{Id: 9999, Length: 4}}},
				}}},
			},
		}
		buf := &bytes.Buffer{}
		if _, err := msg.Encode(buf); err != nil {
			t.Fatal(err)
		}
		_, err := d.Decode(context.Background(), buf)
		if !errors.Is(err, ErrFieldSpecifierNotDefined) {
			t.Fatalf("expected ErrFieldSpecifierNotDefined, got %v", err)
		}
	})

	t.Run("enterprise element not registered", func(t *testing.T) {
		// unknown enterprise-specific elements decode as opaque octets of
		// the declared length instead of failing the template set
		templates := &Message{
			ObservationDomainId: 42,
			Sets: []Set{
				{Id: TemplateSetId, Template: &TemplateSet{Records: []TemplateRecord{
					{TemplateId: 301, Fields: []FieldSpecifier{
						{Id: 777, Length: 2, EnterpriseNumber: 4242, Enterprise: true},
					}},
				}}},
			},
		}
		encodeAndDecode(t, d, templates)

		data := &Message{
			ObservationDomainId: 42,
			Sets: []Set{
				{Id: 301, Data: &DataSet{Records: []DataRecord{
					{Fields: []FieldValue{
						{
							FieldSpecifier: FieldSpecifier{Id: 777, Length: 2, EnterpriseNumber: 4242, Enterprise: true},
							Value:          []byte{0xbe, 0xef},
						},
					}},
				}}},
			},
		}
		decoded := encodeAndDecode(t, d, data)
		if !reflect.DeepEqual(decoded, data) {
			t.Errorf("expected %+v, got %+v", data, decoded)
		}
	})
}

func TestFieldSpecifierEnterpriseBitWithZeroPen(t *testing.T) {
	// the enterprise bit is preserved even for the odd but well-formed case
	// of enterprise number 0
	wire := []byte{0x80, 0x28, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00}
	f, err := decodeFieldSpecifier(bytes.NewBuffer(wire), nil)
	if err != nil {
		t.Fatalf("failed to decode specifier: %v", err)
	}
	if !f.Enterprise || f.EnterpriseNumber != 0 {
		t.Fatalf("expected enterprise flag with pen 0, got %+v", f)
	}
	if f.Len() != len(wire) {
		t.Fatalf("expected Len %d, got %d", len(wire), f.Len())
	}

	out := &bytes.Buffer{}
	if _, err := f.Encode(out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), wire) {
		t.Errorf("expected %x re-encoded, got %x", wire, out.Bytes())
	}
}

func TestDecoderHeaderErrors(t *testing.T) {
	d := NewDecoder(NewEphemeralCache(), nil)

	t.Run("unknown version", func(t *testing.T) {
		raw := make([]byte, headerLength)
		binary.BigEndian.PutUint16(raw[0:2], 9)
		binary.BigEndian.PutUint16(raw[2:4], headerLength)
		_, err := d.Decode(context.Background(), bytes.NewBuffer(raw))
		if !errors.Is(err, ErrUnknownVersion) {
			t.Fatalf("expected ErrUnknownVersion, got %v", err)
		}
	})

	t.Run("reserved set id", func(t *testing.T) {
		raw := make([]byte, headerLength+setHeaderLength)
		binary.BigEndian.PutUint16(raw[0:2], Version)
		binary.BigEndian.PutUint16(raw[2:4], uint16(len(raw)))
		binary.BigEndian.PutUint16(raw[16:18], 100)
		binary.BigEndian.PutUint16(raw[18:20], setHeaderLength)
		_, err := d.Decode(context.Background(), bytes.NewBuffer(raw))
		if !errors.Is(err, ErrUnknownSetId) {
			t.Fatalf("expected ErrUnknownSetId, got %v", err)
		}
	})

	t.Run("declared length beyond buffer", func(t *testing.T) {
		raw := make([]byte, headerLength)
		binary.BigEndian.PutUint16(raw[0:2], Version)
		binary.BigEndian.PutUint16(raw[2:4], headerLength+20)
		_, err := d.Decode(context.Background(), bytes.NewBuffer(raw))
		var incomplete *IncompleteError
		if !errors.As(err, &incomplete) {
			t.Fatalf("expected IncompleteError, got %v", err)
		}
		if incomplete.Needed != 20 {
			t.Errorf("expected 20 bytes needed, got %d", incomplete.Needed)
		}
	})
}

func TestDecoderDataSetPadding(t *testing.T) {
	d := NewDecoder(NewEphemeralCache(), testRegistry())

	templates := &Message{
		ObservationDomainId: 42,
		Sets: []Set{
			{Id: TemplateSetId, Template: &TemplateSet{Records: []TemplateRecord{testTemplate()}}},
		},
	}
	encodeAndDecode(t, d, templates)

	// one 12-octet record followed by 3 octets of padding
	record := []byte{192, 0, 2, 1, 0, 0, 0, 0, 0, 0, 1, 0}
	body := append(append([]byte{}, record...), 0, 0, 0)

	raw := make([]byte, headerLength+setHeaderLength)
	binary.BigEndian.PutUint16(raw[0:2], Version)
	binary.BigEndian.PutUint16(raw[2:4], uint16(headerLength+setHeaderLength+len(body)))
	binary.BigEndian.PutUint32(raw[12:16], 42)
	binary.BigEndian.PutUint16(raw[16:18], 256)
	binary.BigEndian.PutUint16(raw[18:20], uint16(setHeaderLength+len(body)))
	raw = append(raw, body...)

	msg, err := d.Decode(context.Background(), bytes.NewBuffer(raw))
	if err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}
	if len(msg.Sets) != 1 || msg.Sets[0].Data == nil {
		t.Fatalf("expected one data set, got %+v", msg.Sets)
	}
	if got := len(msg.Sets[0].Data.Records); got != 1 {
		t.Fatalf("expected padding discarded and exactly 1 record, got %d", got)
	}
}
