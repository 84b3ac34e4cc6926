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

// Package semantics covers the data type semantics column of the IANA IPFIX
// information element registry (RFC 5610, Section 3.2).
package semantics

// Semantic is the declared semantic of an information element's values. The
// zero value means the registry does not state one.
type Semantic string

const (
	Undefined    Semantic = ""
	Default      Semantic = "default"
	Quantity     Semantic = "quantity"
	TotalCounter Semantic = "totalCounter"
	DeltaCounter Semantic = "deltaCounter"
	Identifier   Semantic = "identifier"
	Flags        Semantic = "flags"
	List         Semantic = "list"
	SNMPCounter  Semantic = "snmpCounter"
	SNMPGauge    Semantic = "snmpGauge"
)

// Assigned reports whether s is one of the registered semantics.
func (s Semantic) Assigned() bool {
	switch s {
	case Default, Quantity, TotalCounter, DeltaCounter,
		Identifier, Flags, List, SNMPCounter, SNMPGauge:
		return true
	}
	return false
}

// Counter reports whether values accumulate (totalCounter) or reset per
// report (deltaCounter); such elements are the ones worth rate-converting.
func (s Semantic) Counter() bool {
	return s == TotalCounter || s == DeltaCounter
}
