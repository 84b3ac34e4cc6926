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
	"errors"
	"strings"
	"testing"

	"github.com/flowbeam/go-telemetry/iana/semantics"
)

const registryFixture = `name: test registry
elements:
  - id: 8
    name: sourceIPv4Address
    type: ipv4Address
    semantics: identifier
    status: current
    range:
      low: 4
      high: 4
  - id: 40
    pen: 29305
    name: vendorCounter
    type: unsigned16
    range:
      low: 2
      high: 2
`

func TestReadYAML(t *testing.T) {
	reg, err := ReadYAML(strings.NewReader(registryFixture))
	if err != nil {
		t.Fatalf("failed to read registry: %v", err)
	}

	ie, ok := reg.Lookup(0, 8)
	if !ok {
		t.Fatal("expected element 8 registered")
	}
	if ie.Name != "sourceIPv4Address" {
		t.Errorf("expected sourceIPv4Address, got %s", ie.Name)
	}
	if ie.Semantics != semantics.Identifier {
		t.Errorf("expected identifier semantics, got %q", ie.Semantics)
	}
	if !ie.Status.Usable() {
		t.Errorf("expected current status to be usable, got %q", ie.Status)
	}

	if _, ok := reg.Lookup(29305, 40); !ok {
		t.Error("expected enterprise element 40 registered under pen 29305")
	}
	if _, ok := reg.Lookup(0, 40); ok {
		t.Error("expected no element 40 in the IANA namespace")
	}

	if err := reg.validate(&FieldSpecifier{Id: 8, Length: 4}); err != nil {
		t.Errorf("expected length 4 valid for element 8: %v", err)
	}
	if err := reg.validate(&FieldSpecifier{Id: 8, Length: 2}); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength for length 2, got %v", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	reg, err := ReadYAML(strings.NewReader(registryFixture))
	if err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	if err := WriteYAML(out, reg); err != nil {
		t.Fatalf("failed to write registry: %v", err)
	}

	read, err := ReadYAML(out)
	if err != nil {
		t.Fatalf("failed to re-read registry: %v", err)
	}
	if len(read.All()) != len(reg.All()) {
		t.Errorf("expected %d elements, got %d", len(reg.All()), len(read.All()))
	}
	ie, ok := read.Lookup(29305, 40)
	if !ok {
		t.Fatal("expected enterprise element to survive the round trip")
	}
	if ie.Range == nil || ie.Range.Low != 2 || ie.Range.High != 2 {
		t.Errorf("expected range [2, 2], got %+v", ie.Range)
	}
}
