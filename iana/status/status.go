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

// Package status covers the status column of the IANA IPFIX information
// element registry.
package status

// Status is the registration status of an information element. The zero
// value means the registry does not state one.
type Status string

const (
	Undefined  Status = ""
	Current    Status = "current"
	Deprecated Status = "deprecated"
	Obsolete   Status = "obsolete"
)

// Usable reports whether elements of this status should still be exported.
func (s Status) Usable() bool {
	return s == Current || s == Undefined
}
