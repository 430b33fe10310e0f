package approval

import (
	"context"
	"fmt"
	"strings"
)

// KeywordClassifier only recognizes unambiguous phrases and answers Unclear
// for everything else. It exists as a low-confidence fallback behind the
// model-based classifier; a keyword list alone cannot draw the
// approval/revision boundary.
type KeywordClassifier struct {
	ApproveKeywords []string
	ReviseKeywords  []string
}

var _ Classifier = (*KeywordClassifier)(nil)

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		ApproveKeywords: []string{"approve", "approved", "looks good", "lgtm", "no changes", "proceed", "ship it"},
		ReviseKeywords:  []string{"revise", "make changes", "i want changes", "change it", "redo", "try again"},
	}
}

func (c *KeywordClassifier) Classify(ctx context.Context, req *Request) (Decision, error) {
	normalized := strings.ToLower(strings.TrimSpace(req.Answer))
	for _, keyword := range c.ApproveKeywords {
		if normalized == keyword {
			return Approve, nil
		}
	}
	for _, keyword := range c.ReviseKeywords {
		if normalized == keyword {
			return Revise, nil
		}
	}
	return Unclear, nil
}

// FallbackClassifier tries classifiers in order and returns the first
// successful decision.
type FallbackClassifier struct {
	classifiers []Classifier
}

var _ Classifier = (*FallbackClassifier)(nil)

func NewFallbackClassifier(classifiers ...Classifier) *FallbackClassifier {
	return &FallbackClassifier{classifiers: classifiers}
}

func (c *FallbackClassifier) Classify(ctx context.Context, req *Request) (Decision, error) {
	var lastErr error
	for _, classifier := range c.classifiers {
		decision, err := classifier.Classify(ctx, req)
		if err == nil {
			return decision, nil
		}
		lastErr = err
	}
	return Unclear, fmt.Errorf("all approval classifiers failed: %w", lastErr)
}
