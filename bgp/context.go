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
	"github.com/flowbeam/go-telemetry/iana/addressfamily"
)

// Context holds the negotiated capability state a decoder needs to interpret
// Update messages on one session: whether AddPath path identifiers are
// present per address family, how many MPLS labels are stacked per labeled
// address family, and whether AS numbers are 4 octets in AS_PATH.
//
// All read accessors are safe on a nil Context and return the
// nothing-negotiated defaults, so callers that never observed an Open
// message can decode with conservative assumptions.
type Context struct {
	addPath        map[addressfamily.AddressType]bool
	multipleLabels map[addressfamily.AddressType]uint8
	fourOctetAs    bool
}

// NewContext returns a context with no extensions negotiated.
func NewContext() *Context {
	return &Context{
		addPath:        make(map[addressfamily.AddressType]bool),
		multipleLabels: make(map[addressfamily.AddressType]uint8),
	}
}

// ContextFromCapabilities builds a fresh context from the capability set of
// one Open message. The result fully supersedes any earlier context for the
// session; callers replace, never merge.
func ContextFromCapabilities(caps []Capability) *Context {
	ctx := NewContext()
	for _, c := range caps {
		switch c.Code {
		case CapabilityAddPath:
			if c.AddPath == nil {
				continue
			}
			for _, fam := range c.AddPath.Families {
				ctx.addPath[fam.AddressType] = fam.Receive
			}
		case CapabilityMultipleLabels:
			for _, ml := range c.MultipleLabels {
				ctx.multipleLabels[ml.AddressType] = ml.Count
			}
		case CapabilityFourOctetAs:
			ctx.fourOctetAs = true
		}
	}
	return ctx
}

// AddPath reports whether NLRI for the given address family carry a 4-octet
// path identifier prefix.
func (c *Context) AddPath(t addressfamily.AddressType) bool {
	if c == nil {
		return false
	}
	return c.addPath[t]
}

// MultipleLabels returns the negotiated label stack depth for the given
// address family. Without negotiation exactly one label applies (RFC 8277).
func (c *Context) MultipleLabels(t addressfamily.AddressType) uint8 {
	if c == nil {
		return 1
	}
	if n, ok := c.multipleLabels[t]; ok && n > 0 {
		return n
	}
	return 1
}

// FourOctetAs reports whether AS_PATH segments carry 4-octet AS numbers.
func (c *Context) FourOctetAs() bool {
	return c != nil && c.fourOctetAs
}
