package leetcode

import "context"

// ClientInterface defines the problem metadata lookup.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	FetchQuestion(ctx context.Context, slug string) (*Question, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
