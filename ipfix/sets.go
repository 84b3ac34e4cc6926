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
	"io"
)

// Set is one set of a message. Exactly one of the typed fields is populated:
// Template for set id 2, OptionsTemplate for set id 3, Data for ids >= 256.
// The 2-octet set length is computed on encode, never stored.
type Set struct {
	Id uint16 `json:"id" yaml:"id"`

	Template        *TemplateSet        `json:"template,omitempty" yaml:"template,omitempty"`
	OptionsTemplate *OptionsTemplateSet `json:"options_template,omitempty" yaml:"optionsTemplate,omitempty"`
	Data            *DataSet            `json:"data,omitempty" yaml:"data,omitempty"`
}

// Kind returns the metric label for the set's contents.
func (s *Set) Kind() string {
	switch {
	case s.Template != nil:
		return KindTemplateSet
	case s.OptionsTemplate != nil:
		return KindOptionsTemplateSet
	default:
		return KindDataSet
	}
}

func (s *Set) Len() int {
	n := setHeaderLength
	switch {
	case s.Template != nil:
		for i := range s.Template.Records {
			n += s.Template.Records[i].Len()
		}
	case s.OptionsTemplate != nil:
		for i := range s.OptionsTemplate.Records {
			n += s.OptionsTemplate.Records[i].Len()
		}
	case s.Data != nil:
		for i := range s.Data.Records {
			n += s.Data.Records[i].Len()
		}
	}
	return n
}

func (s *Set) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := writeUint16(cw, s.Id); err != nil {
		return cw.n, err
	}
	if err := writeUint16(cw, uint16(s.Len())); err != nil {
		return cw.n, err
	}
	switch {
	case s.Template != nil:
		for i := range s.Template.Records {
			if _, err := s.Template.Records[i].Encode(cw); err != nil {
				return cw.n, err
			}
		}
	case s.OptionsTemplate != nil:
		for i := range s.OptionsTemplate.Records {
			if _, err := s.OptionsTemplate.Records[i].Encode(cw); err != nil {
				return cw.n, err
			}
		}
	case s.Data != nil:
		for i := range s.Data.Records {
			if _, err := s.Data.Records[i].Encode(cw); err != nil {
				return cw.n, err
			}
		}
	}
	return cw.n, nil
}

// TemplateSet carries template records (set id 2).
type TemplateSet struct {
	Records []TemplateRecord `json:"records,omitempty" yaml:"records,omitempty"`
}

func decodeTemplateSet(b *bytes.Buffer, reg *Registry) (*TemplateSet, error) {
	ts := &TemplateSet{}
	for b.Len() >= setHeaderLength {
		r, err := decodeTemplateRecord(b, reg)
		if err != nil {
			return nil, err
		}
		ts.Records = append(ts.Records, r)
	}
	// residue shorter than a record header is padding
	b.Next(b.Len())
	return ts, nil
}

// OptionsTemplateSet carries options template records (set id 3).
type OptionsTemplateSet struct {
	Records []OptionsTemplateRecord `json:"records,omitempty" yaml:"records,omitempty"`
}

func decodeOptionsTemplateSet(b *bytes.Buffer, reg *Registry) (*OptionsTemplateSet, error) {
	ots := &OptionsTemplateSet{}
	for b.Len() >= 6 {
		r, err := decodeOptionsTemplateRecord(b, reg)
		if err != nil {
			return nil, err
		}
		ots.Records = append(ots.Records, r)
	}
	b.Next(b.Len())
	return ots, nil
}

// DataSet carries data records laid out by the template its set id names.
type DataSet struct {
	Records []DataRecord `json:"records,omitempty" yaml:"records,omitempty"`
}

func decodeDataSet(b *bytes.Buffer, template *Template) (*DataSet, error) {
	ds := &DataSet{}
	min := template.minRecordLength()
	if min == 0 {
		b.Next(b.Len())
		return ds, nil
	}
	for b.Len() >= min {
		r, err := decodeDataRecord(b, template)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, r)
	}
	// residue shorter than one record is padding
	b.Next(b.Len())
	return ds, nil
}
