package sfc

import "sync"

// ScriptResolver returns the script analysis for a descriptor and build target.
// The second return value is false when no analysis applies.
type ScriptResolver interface {
	ResolvedScript(d *Descriptor, isServer bool) (*ResolvedScript, bool)
}

type scriptKey struct {
	descriptor *Descriptor
	isServer   bool
}

// ScriptCache stores script analysis per descriptor, separately for client and
// server builds. A descriptor replaced in the Cache gets a new identity, so
// stale analysis is never returned for it.
type ScriptCache struct {
	mu      sync.RWMutex
	entries map[scriptKey]*ResolvedScript
}

func NewScriptCache() *ScriptCache {
	return &ScriptCache{entries: make(map[scriptKey]*ResolvedScript)}
}

// Set records the analysis of d for the given target.
func (c *ScriptCache) Set(d *Descriptor, isServer bool, script *ResolvedScript) error {
	if d == nil {
		return ErrDescriptorNil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[scriptKey{descriptor: d, isServer: isServer}] = script
	return nil
}

// ResolvedScript implements ScriptResolver.
func (c *ScriptCache) ResolvedScript(d *Descriptor, isServer bool) (*ResolvedScript, bool) {
	if d == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[scriptKey{descriptor: d, isServer: isServer}]
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}

// Forget drops both client and server analysis of d.
func (c *ScriptCache) Forget(d *Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, scriptKey{descriptor: d, isServer: false})
	delete(c.entries, scriptKey{descriptor: d, isServer: true})
}
