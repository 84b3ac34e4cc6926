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
	"context"
	"fmt"
	"sync"
)

// TemplateKey identifies a template within one transport session: template
// ids are scoped per observation domain, so the same id may describe
// different layouts in different domains.
type TemplateKey struct {
	ObservationDomainId uint32
	TemplateId          uint16
}

func NewKey(observationDomainId uint32, templateId uint16) TemplateKey {
	return TemplateKey{
		ObservationDomainId: observationDomainId,
		TemplateId:          templateId,
	}
}

func (k TemplateKey) String() string {
	return fmt.Sprintf("%d-%d", k.ObservationDomainId, k.TemplateId)
}

// TemplateCache stores templates observed in an IPFIX stream. The decoder
// only needs Get and Add; Delete and GetAll leave room for implementations
// with expiry or persistence without changing the decoder.
type TemplateCache interface {
	// Get returns the template stored at key, or an error wrapping
	// ErrTemplateNotFound.
	Get(ctx context.Context, key TemplateKey) (*Template, error)

	// Add stores a template at key, replacing any previous definition.
	Add(ctx context.Context, key TemplateKey, template *Template) error

	Delete(ctx context.Context, key TemplateKey) error

	// GetAll returns a snapshot of all templates currently stored.
	GetAll(ctx context.Context) map[TemplateKey]*Template
}

// EphemeralCache is the most basic of in-memory caches: memory-safe through
// a read-write mutex, no expiry, nothing persisted.
type EphemeralCache struct {
	mu        sync.RWMutex
	templates map[TemplateKey]*Template
}

var _ TemplateCache = &EphemeralCache{}

// NewEphemeralCache creates an in-memory template cache that lives for the
// lifetime of the caller.
func NewEphemeralCache() *EphemeralCache {
	return &EphemeralCache{templates: make(map[TemplateKey]*Template)}
}

func (c *EphemeralCache) Get(ctx context.Context, key TemplateKey) (*Template, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	template, ok := c.templates[key]
	if !ok {
		return nil, templateNotFound(key)
	}
	return template, nil
}

func (c *EphemeralCache) Add(ctx context.Context, key TemplateKey, template *Template) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates[key] = template
	return nil
}

func (c *EphemeralCache) Delete(ctx context.Context, key TemplateKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.templates, key)
	return nil
}

func (c *EphemeralCache) GetAll(ctx context.Context) map[TemplateKey]*Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	templates := make(map[TemplateKey]*Template, len(c.templates))
	for k, v := range c.templates {
		templates[k] = v
	}
	return templates
}
