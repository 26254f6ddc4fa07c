package internal

import (
	"sync"
)

// chainFingerprint identifies one revision of a session's message set.
// Messages are insert-only, so (count, max seq) changes on every append and
// a matching fingerprint means the cached chain is still current.
type chainFingerprint struct {
	count  int
	maxSeq int64
}

type cachedChain struct {
	fp    chainFingerprint
	chain []ChatMessage
}

// ChainCache memoizes built active chains per session. The fingerprint check
// makes staleness impossible; Invalidate only reclaims memory eagerly when a
// caller knows a session changed.
type ChainCache struct {
	mu     sync.RWMutex
	chains map[string]cachedChain
}

// NewChainCache creates an empty cache.
func NewChainCache() *ChainCache {
	return &ChainCache{chains: make(map[string]cachedChain)}
}

// ActiveChain returns the active chain for the given message set, reusing a
// previously built chain when the session's messages have not changed.
func (c *ChainCache) ActiveChain(sessionID string, messages []ChatMessage) ([]ChatMessage, error) {
	fp := fingerprint(messages)

	c.mu.RLock()
	cached, ok := c.chains[sessionID]
	c.mu.RUnlock()
	if ok && cached.fp == fp {
		return cached.chain, nil
	}

	chain, err := BuildActiveChain(messages)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.chains[sessionID] = cachedChain{fp: fp, chain: chain}
	c.mu.Unlock()

	return chain, nil
}

// Invalidate drops the cached chain for a session.
func (c *ChainCache) Invalidate(sessionID string) {
	c.mu.Lock()
	delete(c.chains, sessionID)
	c.mu.Unlock()
}

func fingerprint(messages []ChatMessage) chainFingerprint {
	fp := chainFingerprint{count: len(messages)}
	for _, m := range messages {
		if m.Seq > fp.maxSeq {
			fp.maxSeq = m.Seq
		}
	}
	return fp
}
