// Package policy decides whether a prospective edge between two bubbles
// is legal. It is pure: callers hand it both bubbles and the current
// derived edge list, and it answers without touching board state.
package policy

import (
	"nodular/domain/core/entities"
	"nodular/domain/core/valueobjects"
	pkgerrors "nodular/pkg/errors"
)

// Edge is the minimal view of an existing connection the policy needs
type Edge struct {
	SourceID valueobjects.BubbleID
	TargetID valueobjects.BubbleID
}

// IsLegal reports whether connecting source to target is allowed
func IsLegal(source, target *entities.Bubble, existing []Edge) bool {
	return Evaluate(source, target, existing) == nil
}

// Evaluate applies the connection rules in precedence order and returns
// the reason a connection is rejected, or nil when it is legal.
//
// Precedence: self-loop precondition, then duplicate detection, then
// per-kind rules. The first matching rule decides; anything unmatched
// is illegal.
func Evaluate(source, target *entities.Bubble, existing []Edge) error {
	if source == nil || target == nil {
		return pkgerrors.NewValidationError("source and target bubbles are required")
	}

	// Self-loops are rejected before any rule runs
	if source.ID().Equals(target.ID()) {
		return pkgerrors.NewIllegalConnectionError("a bubble cannot connect to itself")
	}

	// Rule 1: at most one edge per unordered pair
	for _, e := range existing {
		if (e.SourceID.Equals(source.ID()) && e.TargetID.Equals(target.ID())) ||
			(e.SourceID.Equals(target.ID()) && e.TargetID.Equals(source.ID())) {
			return pkgerrors.NewDuplicateConnectionError(source.ID().String(), target.ID().String())
		}
	}

	switch source.Kind() {
	case entities.KindFileAttachment:
		// Rule 2: files feed human-authored prompts only. An empty
		// thread counts as human-authored.
		if isHumanPrompt(target) {
			return nil
		}
		return pkgerrors.NewIllegalConnectionError("a file bubble may only attach to a human prompt")

	case entities.KindSystemPrompt:
		// Rule 3
		if isHumanPrompt(target) {
			return nil
		}
		return pkgerrors.NewIllegalConnectionError("a system prompt may only feed a human prompt")

	case entities.KindPrompt:
		// Rule 4: only human-authored prompts continue into responses
		if source.LeadAuthor() == valueobjects.RoleHuman &&
			target.Kind() == entities.KindResponse && target.LeadAuthor() == valueobjects.RoleModel {
			return nil
		}
		return pkgerrors.NewIllegalConnectionError("a prompt may only continue into a model response")

	case entities.KindResponse:
		// Rule 5
		if isHumanPrompt(target) {
			return nil
		}
		return pkgerrors.NewIllegalConnectionError("a response may only branch into a human prompt")
	}

	return pkgerrors.NewIllegalConnectionError("unknown source bubble kind")
}

func isHumanPrompt(b *entities.Bubble) bool {
	return b.Kind() == entities.KindPrompt && b.LeadAuthor() == valueobjects.RoleHuman
}
