// Package seed populates a fresh board with the demo conversation so
// the canvas is not empty on first render
package seed

import (
	"time"

	"nodular/domain/core/aggregates"
	"nodular/domain/core/entities"
	"nodular/domain/core/valueobjects"
)

// DemoBoard seeds the starter conversation: a system prompt heading an
// initial query and its follow-up. Returns the created bubble ids in
// creation order.
func DemoBoard(board *aggregates.Board) ([]valueobjects.BubbleID, error) {
	now := time.Now()

	systemPrompt, err := valueobjects.NewMessage(
		"You are a helpful assistant. Answer concisely.", valueobjects.RoleHuman, now)
	if err != nil {
		return nil, err
	}
	systemID, err := board.AddBubble(aggregates.BubbleSpec{
		Kind:        entities.KindSystemPrompt,
		Title:       "System",
		Position:    valueobjects.NewPosition(400, 40),
		Messages:    []valueobjects.Message{systemPrompt},
		ModelID:     valueobjects.DefaultModelID,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	question, err := valueobjects.NewMessage(
		"What is a multi-branch conversation?", valueobjects.RoleHuman, now)
	if err != nil {
		return nil, err
	}
	promptID, err := board.AddBubble(aggregates.BubbleSpec{
		Kind:     entities.KindPrompt,
		Title:    "Initial query",
		Position: valueobjects.NewPosition(400, 260),
		Messages: []valueobjects.Message{question},
		ParentID: &systemID,
	})
	if err != nil {
		return nil, err
	}

	answer, err := valueobjects.NewMessage(
		"A multi-branch conversation lets each reply fork into its own thread, so alternative directions live side by side instead of overwriting each other.",
		valueobjects.RoleModel, now)
	if err != nil {
		return nil, err
	}
	responseID, err := board.AddBubble(aggregates.BubbleSpec{
		Kind:     entities.KindResponse,
		Title:    "Answer",
		Position: valueobjects.NewPosition(400, 520),
		Messages: []valueobjects.Message{answer},
		ParentID: &promptID,
	})
	if err != nil {
		return nil, err
	}

	return []valueobjects.BubbleID{systemID, promptID, responseID}, nil
}
