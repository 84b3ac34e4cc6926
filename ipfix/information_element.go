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
	"sync"

	"github.com/flowbeam/go-telemetry/iana/semantics"
	"github.com/flowbeam/go-telemetry/iana/status"
)

// LengthRange is the closed interval of octet counts a field carrying an
// information element may declare. A single-value range means the element is
// fixed-length; an open range additionally admits the variable-length
// encoding.
type LengthRange struct {
	Low  uint16 `json:"low" yaml:"low"`
	High uint16 `json:"high" yaml:"high"`
}

func (r *LengthRange) fixed() bool { return r.Low == r.High }

func (r *LengthRange) allows(length uint16) bool {
	if length == VariableLength {
		return !r.fixed()
	}
	return length >= r.Low && length <= r.High
}

// InformationElement describes one assigned or enterprise-specific element
// the registry knows about.
type InformationElement struct {
	Id           uint16 `json:"id" yaml:"id"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	EnterpriseId uint32 `json:"pen,omitempty" yaml:"pen,omitempty"`

	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	Semantics semantics.Semantic `json:"semantics,omitempty" yaml:"semantics,omitempty"`
	Status    status.Status      `json:"status,omitempty" yaml:"status,omitempty"`

	// Range constrains the lengths fields of this element may declare, nil
	// when any length is acceptable.
	Range *LengthRange `json:"range,omitempty" yaml:"range,omitempty"`
}

type elementKey struct {
	enterpriseId uint32
	id           uint16
}

// Registry resolves information elements by (enterprise number, element id)
// and validates declared field lengths against their allowed ranges. It is
// safe for concurrent use; decoders share one registry across sessions.
type Registry struct {
	mu       sync.RWMutex
	elements map[elementKey]InformationElement
}

func NewRegistry() *Registry {
	return &Registry{elements: make(map[elementKey]InformationElement)}
}

func (r *Registry) Add(ie InformationElement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elements[elementKey{enterpriseId: ie.EnterpriseId, id: ie.Id}] = ie
}

// Lookup returns the element registered for the id within the enterprise
// number's namespace (0 for IANA-assigned elements).
func (r *Registry) Lookup(enterpriseId uint32, id uint16) (InformationElement, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ie, ok := r.elements[elementKey{enterpriseId: enterpriseId, id: id}]
	return ie, ok
}

// All returns a snapshot of every registered element.
func (r *Registry) All() []InformationElement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	elements := make([]InformationElement, 0, len(r.elements))
	for _, ie := range r.elements {
		elements = append(elements, ie)
	}
	return elements
}

// validate checks a specifier's declared length against the registered
// range. Unknown IANA-assigned elements fail with
// ErrFieldSpecifierNotDefined; unknown enterprise-specific elements pass, so
// their fields stay decodable as opaque octets of the declared length.
func (r *Registry) validate(f *FieldSpecifier) error {
	ie, ok := r.Lookup(f.EnterpriseNumber, f.Id)
	if !ok {
		if f.enterprise() {
			return nil
		}
		return fieldSpecifierNotDefined(f.Id, f.EnterpriseNumber)
	}
	if ie.Range != nil && !ie.Range.allows(f.Length) {
		return invalidFieldLength(f.Id, f.Length, ie.Range)
	}
	return nil
}
