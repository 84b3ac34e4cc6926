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

/*
Package telemetry is the root of a set of codecs for binary network-telemetry
protocols spoken between routers and collectors.

The subpackages implement the actual wire formats:

  - bmp: the BGP Monitoring Protocol (RFC 7854), a stream of length-prefixed
    messages carrying embedded BGP PDUs. Decoding is stateful: BGP
    capabilities negotiated in Peer Up messages determine how later Route
    Monitoring messages on the same peer must be parsed.

  - bgp: the subset of BGP-4 (RFC 4271) embedded in BMP, together with the
    capability-derived decode context (AddPath, multiple MPLS labels,
    4-octet AS numbers).

  - ipfix: IP Flow Information Export (RFC 7011). Decoding is
    template-driven: data sets can only be interpreted through templates
    announced earlier in the session, scoped per observation domain.

This package itself only holds the logging surface shared by the subpackages.
*/
package telemetry
