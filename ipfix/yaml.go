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
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// RegistryExport is the YAML document shape for registry import and export.
type RegistryExport struct {
	Name            string    `yaml:"name,omitempty"`
	ExportTimestamp time.Time `yaml:"exportTimestamp,omitempty"`

	Elements []InformationElement `yaml:"elements"`
}

func MustReadYAML(r io.Reader) *Registry {
	reg, err := ReadYAML(r)
	if err != nil {
		panic(err)
	}
	return reg
}

// ReadYAML builds a registry from a YAML export.
func ReadYAML(r io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	read := RegistryExport{}
	if err := dec.Decode(&read); err != nil {
		return nil, err
	}

	reg := NewRegistry()
	for _, el := range read.Elements {
		reg.Add(el)
	}
	return reg, nil
}

// WriteYAML exports all registered elements, ordered by enterprise number
// and id for stable output.
func WriteYAML(w io.Writer, reg *Registry) error {
	elements := reg.All()
	sort.Slice(elements, func(i, j int) bool {
		if elements[i].EnterpriseId != elements[j].EnterpriseId {
			return elements[i].EnterpriseId < elements[j].EnterpriseId
		}
		return elements[i].Id < elements[j].Id
	})

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return enc.Encode(RegistryExport{
		Name:            "IP Flow Information Export (IPFIX) Entities",
		ExportTimestamp: time.Now(),
		Elements:        elements,
	})
}
