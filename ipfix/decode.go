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
	"fmt"
	"time"

	telemetry "github.com/flowbeam/go-telemetry"
)

// Decoder turns length-delimited IPFIX message spans into Messages. It
// learns templates from template sets as they pass through and resolves data
// sets against the injected template cache; an optional registry validates
// field specifier lengths while templates are learned.
type Decoder struct {
	templates TemplateCache
	registry  *Registry
}

// NewDecoder creates a decoder for a given template cache. A nil registry
// skips field length validation, keeping unknown enterprise-specific
// elements decodable as opaque octets.
func NewDecoder(templates TemplateCache, registry *Registry) *Decoder {
	return &Decoder{
		templates: templates,
		registry:  registry,
	}
}

// Decode consumes exactly one message from payload: the 16-octet header and
// as many sets as the declared total length covers. One UDP datagram or one
// length-delimited span of a stream transport holds one message.
func (d *Decoder) Decode(ctx context.Context, payload *bytes.Buffer) (msg *Message, err error) {
	logger := telemetry.FromContext(ctx)
	start := time.Now()

	defer func() {
		DurationMicroseconds.Observe(float64(time.Since(start).Nanoseconds()) / 1000)
		MessagesTotal.Inc()
		if err != nil {
			ErrorsTotal.Inc()
		}
	}()

	v, err := readUint16(payload)
	if err != nil {
		return nil, err
	}
	if v != Version {
		return nil, unknownVersion(v)
	}
	length, err := readUint16(payload)
	if err != nil {
		return nil, err
	}
	if int(length) < headerLength {
		return nil, invalidMessageLength(int(length))
	}

	msg = &Message{}
	if msg.ExportTime, err = readUint32(payload); err != nil {
		return nil, err
	}
	if msg.SequenceNumber, err = readUint32(payload); err != nil {
		return nil, err
	}
	if msg.ObservationDomainId, err = readUint32(payload); err != nil {
		return nil, err
	}

	body, err := take(payload, int(length)-headerLength)
	if err != nil {
		return nil, err
	}
	bb := bytes.NewBuffer(body)

	for bb.Len() > 0 {
		set, err := d.decodeSet(ctx, msg.ObservationDomainId, bb)
		if err != nil {
			return nil, err
		}
		DecodedSets.WithLabelValues(set.Kind()).Inc()
		msg.Sets = append(msg.Sets, *set)
	}

	logger.V(3).Info("decoded IPFIX message",
		"observation_domain_id", msg.ObservationDomainId,
		"sequence_number", msg.SequenceNumber,
		"sets", len(msg.Sets))
	return msg, nil
}

func (d *Decoder) decodeSet(ctx context.Context, observationDomainId uint32, b *bytes.Buffer) (*Set, error) {
	id, err := readUint16(b)
	if err != nil {
		return nil, err
	}
	length, err := readUint16(b)
	if err != nil {
		return nil, err
	}
	if int(length) < setHeaderLength {
		return nil, invalidMessageLength(int(length))
	}
	span, err := take(b, int(length)-setHeaderLength)
	if err != nil {
		return nil, err
	}
	sb := bytes.NewBuffer(span)

	set := &Set{Id: id}
	switch {
	case id == TemplateSetId:
		ts, err := decodeTemplateSet(sb, d.registry)
		if err != nil {
			return nil, fmt.Errorf("template set: %w", err)
		}
		for i := range ts.Records {
			d.learn(ctx, observationDomainId, ts.Records[i].TemplateId, 0, ts.Records[i].Fields)
		}
		set.Template = ts
	case id == OptionsTemplateSetId:
		ots, err := decodeOptionsTemplateSet(sb, d.registry)
		if err != nil {
			return nil, fmt.Errorf("options template set: %w", err)
		}
		for i := range ots.Records {
			d.learn(ctx, observationDomainId, ots.Records[i].TemplateId, ots.Records[i].ScopeFieldCount, ots.Records[i].Fields)
		}
		set.OptionsTemplate = ots
	case id >= MinDataSetId:
		template, err := d.templates.Get(ctx, NewKey(observationDomainId, id))
		if err != nil {
			return nil, err
		}
		ds, err := decodeDataSet(sb, template)
		if err != nil {
			return nil, fmt.Errorf("data set %d: %w", id, err)
		}
		DecodedRecords.WithLabelValues(KindDataSet).Add(float64(len(ds.Records)))
		set.Data = ds
	default:
		return nil, unknownSetId(id)
	}
	return set, nil
}

func (d *Decoder) learn(ctx context.Context, observationDomainId uint32, templateId uint16, scopeFieldCount uint16, fields []FieldSpecifier) {
	_ = d.templates.Add(ctx, NewKey(observationDomainId, templateId), &Template{
		ObservationDomainId: observationDomainId,
		TemplateId:          templateId,
		ScopeFieldCount:     scopeFieldCount,
		Fields:              fields,
		CreationTimestamp:   time.Now(),
	})
}
