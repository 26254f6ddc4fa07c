package internal

import (
	"sort"
)

// BuildActiveChain collapses a session's message tree into the single
// currently-valid conversation path.
//
// The input is the full unordered set of stored messages for one session.
// Starting from the root (empty ParentID), the walk descends by picking the
// latest child at every branch point: highest CreatedAt, then highest Seq,
// then highest ID. Siblings that lose the pick (superseded edits and
// retries) are excluded together with their entire subtrees, because a
// retry of an earlier message invalidates everything built on top of it.
//
// An empty input yields an empty chain. More than one root, a parent link
// pointing at a missing message, or linkage that loops, is an invariant
// violation and returns a ChainError; corrupt trees are reported, never
// repaired.
func BuildActiveChain(messages []ChatMessage) ([]ChatMessage, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	children := make(map[string][]ChatMessage)
	var roots []ChatMessage
	for _, m := range messages {
		if m.IsRoot() {
			roots = append(roots, m)
		} else {
			children[m.ParentID] = append(children[m.ParentID], m)
		}
	}

	if len(roots) == 0 {
		return nil, &ChainError{SessionID: messages[0].SessionID, Reason: "no root message found"}
	}
	if len(roots) > 1 {
		return nil, &ChainError{SessionID: messages[0].SessionID, Reason: "multiple root messages found"}
	}

	// Every stored message must hang off the root. A cycle can never be
	// entered by following children edges from the root, so it shows up as
	// an island of unreachable messages, just like a dangling parent link.
	if unreached := countUnreachable(roots[0], children, len(messages)); unreached > 0 {
		return nil, &ChainError{SessionID: roots[0].SessionID, Reason: "message tree has unreachable messages (cycle or dangling parent link)"}
	}

	chain := make([]ChatMessage, 0, len(messages))
	current := roots[0]
	for {
		chain = append(chain, current)

		siblings := children[current.ID]
		if len(siblings) == 0 {
			return chain, nil
		}
		current = latestMessage(siblings)
	}
}

// countUnreachable walks the full children index breadth-first from the root
// (superseded branches included) and reports how many of the stored messages
// the walk never visits.
func countUnreachable(root ChatMessage, children map[string][]ChatMessage, total int) int {
	visited := 1
	queue := []string{root.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range children[id] {
			visited++
			queue = append(queue, c.ID)
		}
	}
	return total - visited
}

// latestMessage picks the winning sibling under one parent: latest CreatedAt,
// ties broken by Seq, then by ID so the choice is deterministic even when
// timestamps collide.
func latestMessage(siblings []ChatMessage) ChatMessage {
	latest := siblings[0]
	for _, s := range siblings[1:] {
		if messageLess(latest, s) {
			latest = s
		}
	}
	return latest
}

func messageLess(a, b ChatMessage) bool {
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt < b.CreatedAt
	}
	if a.Seq != b.Seq {
		return a.Seq < b.Seq
	}
	return a.ID < b.ID
}

// SortByCreation orders messages chronologically in place, using the same
// (CreatedAt, Seq, ID) key the chain builder uses for sibling selection.
func SortByCreation(messages []ChatMessage) {
	sort.Slice(messages, func(i, j int) bool {
		return messageLess(messages[i], messages[j])
	})
}

// ExtractTurnIDs returns the ordered, de-duplicated turn ids carried by
// ai-role messages on an active chain.
//
// Memory is loaded per turn rather than per message: one turn may fan out
// into several memory entries (tool calls, intermediate results) that never
// appear as chat messages. An empty result means "no prior memory" (a fresh
// conversation whose chain has no assistant message yet) and is not an
// error.
func ExtractTurnIDs(chain []ChatMessage) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range chain {
		if m.Role != RoleAI || m.TurnID == "" {
			continue
		}
		if seen[m.TurnID] {
			continue
		}
		seen[m.TurnID] = true
		ids = append(ids, m.TurnID)
	}
	return ids
}
