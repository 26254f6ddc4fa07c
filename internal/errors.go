package internal

import "fmt"

// StorageError represents errors reading or writing the backing store
type StorageError struct {
	Op  string // "query", "append", "delete", "open"
	Key string // session id, entry id, or db path
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ChainError represents a structural invariant violation in a message tree
type ChainError struct {
	SessionID string
	Reason    string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("chain error [%s]: %s", e.SessionID, e.Reason)
}

// AuthError represents a rejected facade request: the requesting node type
// is not allow-listed, or no owner could be resolved
type AuthError struct {
	NodeType string
	Reason   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error [%s]: %s", e.NodeType, e.Reason)
}

// ExportError represents errors during transcript export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
