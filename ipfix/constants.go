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

// Version is the only protocol version this package speaks (RFC 7011).
const Version uint16 = 10

const (
	// headerLength is the fixed message header: 2 version, 2 length,
	// 4 export time, 4 sequence number, 4 observation domain id.
	headerLength = 16

	// setHeaderLength is 2-octet set id plus 2-octet set length.
	setHeaderLength = 4
)

// Set ids (RFC 7011, Section 3.3.2). Ids 4 through 255 are reserved;
// data sets use the template id they were described by.
const (
	TemplateSetId        uint16 = 2
	OptionsTemplateSetId uint16 = 3
	MinDataSetId         uint16 = 256
)

const (
	// VariableLength in a field specifier marks a variable-length
	// information element (RFC 7011, Section 7).
	VariableLength uint16 = 0xffff

	// enterpriseBit is the top bit of the specifier's id word.
	enterpriseBit uint16 = 0x8000
)

// Set kind labels used for metrics.
const (
	KindTemplateSet        = "template"
	KindOptionsTemplateSet = "options_template"
	KindDataSet            = "data"
)
