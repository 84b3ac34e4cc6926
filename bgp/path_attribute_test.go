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

package bgp

import (
	"bytes"
	"errors"
	"testing"
)

func TestOriginAttribute(t *testing.T) {
	goodIGP := []byte{0x40, 0x01, 0x01, 0x00}
	goodEGP := []byte{0x40, 0x01, 0x01, 0x01}
	goodIncomplete := []byte{0x40, 0x01, 0x01, 0x02}
	badLength := []byte{0x40, 0x01, 0x02, 0x02, 0x00}
	badValue := []byte{0x40, 0x01, 0x01, 0x03}

	for _, tt := range []struct {
		name string
		wire []byte
		want Origin
	}{
		{"igp", goodIGP, OriginIGP},
		{"egp", goodEGP, OriginEGP},
		{"incomplete", goodIncomplete, OriginIncomplete},
	} {
		t.Run(tt.name, func(t *testing.T) {
			attr, err := decodePathAttribute(bytes.NewBuffer(tt.wire), nil)
			if err != nil {
				t.Fatal(err)
			}
			if attr.Origin == nil || *attr.Origin != tt.want {
				t.Fatalf("expected origin %s, got %v", tt.want, attr.Origin)
			}

			var out bytes.Buffer
			cw := &countingWriter{w: &out}
			if err := attr.encode(cw); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(out.Bytes(), tt.wire) {
				t.Fatalf("re-encoded %x, want %x", out.Bytes(), tt.wire)
			}
			if cw.n != attr.wireLen() {
				t.Fatalf("wrote %d bytes, wireLen says %d", cw.n, attr.wireLen())
			}
		})
	}

	t.Run("bad length", func(t *testing.T) {
		_, err := decodePathAttribute(bytes.NewBuffer(badLength), nil)
		if !errors.Is(err, ErrInvalidAttributeLength) {
			t.Fatalf("expected ErrInvalidAttributeLength, got %v", err)
		}
	})

	t.Run("undefined origin", func(t *testing.T) {
		_, err := decodePathAttribute(bytes.NewBuffer(badValue), nil)
		if !errors.Is(err, ErrUndefinedOrigin) {
			t.Fatalf("expected ErrUndefinedOrigin, got %v", err)
		}
	})
}

func TestASPathEncoding(t *testing.T) {
	twoOctetWire := []byte{
		0x40, 0x02, 0x06, // flags, type, length
		0x02, 0x02, // sequence of 2
		0xfc, 0x00, 0xfc, 0x01,
	}
	fourOctetWire := []byte{
		0x40, 0x02, 0x0a,
		0x02, 0x02,
		0x00, 0x00, 0xfc, 0x00, 0x00, 0x00, 0xfc, 0x01,
	}

	t.Run("two octet", func(t *testing.T) {
		attr, err := decodePathAttribute(bytes.NewBuffer(twoOctetWire), nil)
		if err != nil {
			t.Fatal(err)
		}
		if attr.ASPath == nil || attr.ASPath.FourOctet {
			t.Fatalf("expected 2-octet AS path, got %+v", attr.ASPath)
		}
		if got := attr.ASPath.Segments[0].ASNs; got[0] != 64512 || got[1] != 64513 {
			t.Fatalf("unexpected ASNs %v", got)
		}
	})

	t.Run("four octet via context", func(t *testing.T) {
		ctx := ContextFromCapabilities([]Capability{
			{Code: CapabilityFourOctetAs, FourOctetAs: &FourOctetAsCapability{AS: 64512}},
		})
		attr, err := decodePathAttribute(bytes.NewBuffer(fourOctetWire), ctx)
		if err != nil {
			t.Fatal(err)
		}
		if attr.ASPath == nil || !attr.ASPath.FourOctet {
			t.Fatalf("expected 4-octet AS path, got %+v", attr.ASPath)
		}

		var out bytes.Buffer
		cw := &countingWriter{w: &out}
		if err := attr.encode(cw); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out.Bytes(), fourOctetWire) {
			t.Fatalf("re-encoded %x, want %x", out.Bytes(), fourOctetWire)
		}
	})
}

func TestUnknownAttributeRoundTrip(t *testing.T) {
	// type 99 is not in the closed set and must round-trip opaquely
	wire := []byte{0xc0, 0x63, 0x03, 0xde, 0xad, 0x00}
	attr, err := decodePathAttribute(bytes.NewBuffer(wire), nil)
	if err != nil {
		t.Fatal(err)
	}
	if attr.Raw == nil {
		t.Fatal("expected opaque payload for unknown attribute type")
	}
	var out bytes.Buffer
	cw := &countingWriter{w: &out}
	if err := attr.encode(cw); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), wire) {
		t.Fatalf("re-encoded %x, want %x", out.Bytes(), wire)
	}
}
