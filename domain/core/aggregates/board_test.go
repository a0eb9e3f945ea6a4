package aggregates

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodular/domain/config"
	"nodular/domain/core/entities"
	"nodular/domain/core/valueobjects"
	pkgerrors "nodular/pkg/errors"
)

func testMessage(t *testing.T, text string, author valueobjects.Role) valueobjects.Message {
	t.Helper()
	msg, err := valueobjects.NewMessage(text, author, time.Now())
	require.NoError(t, err)
	return msg
}

func addSystem(t *testing.T, board *Board) valueobjects.BubbleID {
	t.Helper()
	id, err := board.AddBubble(BubbleSpec{
		Kind:        entities.KindSystemPrompt,
		Title:       "sys",
		Position:    valueobjects.NewPosition(0, 0),
		Messages:    []valueobjects.Message{testMessage(t, "be brief", valueobjects.RoleHuman)},
		ModelID:     valueobjects.DefaultModelID,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	return id
}

func addPrompt(t *testing.T, board *Board, parentID *valueobjects.BubbleID) valueobjects.BubbleID {
	t.Helper()
	id, err := board.AddBubble(BubbleSpec{
		Kind:     entities.KindPrompt,
		Position: valueobjects.NewPosition(0, 200),
		Messages: []valueobjects.Message{testMessage(t, "question", valueobjects.RoleHuman)},
		ParentID: parentID,
	})
	require.NoError(t, err)
	return id
}

func addResponse(t *testing.T, board *Board, parentID *valueobjects.BubbleID) valueobjects.BubbleID {
	t.Helper()
	id, err := board.AddBubble(BubbleSpec{
		Kind:     entities.KindResponse,
		Position: valueobjects.NewPosition(0, 400),
		Messages: []valueobjects.Message{testMessage(t, "answer", valueobjects.RoleModel)},
		ParentID: parentID,
	})
	require.NoError(t, err)
	return id
}

func addFile(t *testing.T, board *Board) valueobjects.BubbleID {
	t.Helper()
	ref, err := valueobjects.NewFileRef("notes.txt", "text/plain", "blob:notes")
	require.NoError(t, err)
	id, err := board.AddBubble(BubbleSpec{
		Kind:     entities.KindFileAttachment,
		Position: valueobjects.NewPosition(-200, 200),
		File:     ref,
	})
	require.NoError(t, err)
	return id
}

func TestConversationSetup(t *testing.T) {
	board := NewBoard("test", nil)

	systemID := addSystem(t, board)
	promptID := addPrompt(t, board, nil)
	require.NoError(t, board.Connect(systemID, promptID))
	responseID := addResponse(t, board, &promptID)

	// The system bubble is never a legal target
	err := board.Connect(promptID, systemID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsIllegalConnection(err))

	edges := board.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, systemID, edges[0].SourceID)
	assert.Equal(t, promptID, edges[0].TargetID)
	assert.Equal(t, EdgeConversation, edges[0].Kind)
	assert.Equal(t, promptID, edges[1].SourceID)
	assert.Equal(t, responseID, edges[1].TargetID)
}

func TestFileAttachment(t *testing.T) {
	board := NewBoard("test", nil)

	promptID := addPrompt(t, board, nil)
	responseID := addResponse(t, board, &promptID)
	fileID := addFile(t, board)

	require.NoError(t, board.Connect(fileID, promptID))

	// Files never attach to responses
	err := board.Connect(fileID, responseID)
	require.Error(t, err)

	prompt, err := board.Bubble(promptID)
	require.NoError(t, err)
	file, err := board.Bubble(fileID)
	require.NoError(t, err)

	assert.True(t, prompt.HasAttachedFile(fileID))
	require.NotNil(t, file.ConnectedToID())
	assert.True(t, file.ConnectedToID().Equals(promptID))

	edges := board.Edges()
	var attachments int
	for _, e := range edges {
		if e.Kind == EdgeAttachment {
			attachments++
			assert.Equal(t, fileID, e.SourceID)
			assert.Equal(t, promptID, e.TargetID)
		}
	}
	assert.Equal(t, 1, attachments)
}

func TestRemoveRepairsRelationships(t *testing.T) {
	board := NewBoard("test", nil)

	systemID := addSystem(t, board)
	promptID := addPrompt(t, board, &systemID)
	responseID := addResponse(t, board, &promptID)
	fileID := addFile(t, board)
	require.NoError(t, board.Connect(fileID, promptID))

	released := false
	file, err := board.Bubble(fileID)
	require.NoError(t, err)
	file.File().OnRelease(func() { released = true })

	require.NoError(t, board.RemoveBubble(promptID))

	// The file link is cleared on both sides
	file, err = board.Bubble(fileID)
	require.NoError(t, err)
	assert.Nil(t, file.ConnectedToID())

	// The child is orphaned, not deleted
	response, err := board.Bubble(responseID)
	require.NoError(t, err)
	assert.Nil(t, response.ParentID())

	// No edge touches the removed id
	for _, e := range board.Edges() {
		assert.False(t, e.SourceID.Equals(promptID))
		assert.False(t, e.TargetID.Equals(promptID))
	}

	// The prompt held no file of its own, so nothing was released
	assert.False(t, released)

	// Removing the file bubble itself releases its handle
	require.NoError(t, board.RemoveBubble(fileID))
	assert.True(t, released)
}

func TestConnectDuplicateBothDirections(t *testing.T) {
	board := NewBoard("test", nil)

	promptID := addPrompt(t, board, nil)
	responseID := addResponse(t, board, nil)

	require.NoError(t, board.Connect(promptID, responseID))

	err := board.Connect(promptID, responseID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDuplicateConnection(err))

	err = board.Connect(responseID, promptID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsDuplicateConnection(err))
}

func TestDisconnect(t *testing.T) {
	board := NewBoard("test", nil)

	promptID := addPrompt(t, board, nil)
	responseID := addResponse(t, board, &promptID)
	require.Len(t, board.Edges(), 1)

	require.NoError(t, board.Disconnect(promptID, responseID))
	assert.Empty(t, board.Edges())

	// A second disconnect of the same pair finds nothing
	err := board.Disconnect(promptID, responseID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestDisconnectFileEdge(t *testing.T) {
	board := NewBoard("test", nil)

	promptID := addPrompt(t, board, nil)
	fileID := addFile(t, board)
	require.NoError(t, board.Connect(fileID, promptID))

	require.NoError(t, board.Disconnect(fileID, promptID))

	prompt, err := board.Bubble(promptID)
	require.NoError(t, err)
	assert.False(t, prompt.HasAttachedFile(fileID))

	file, err := board.Bubble(fileID)
	require.NoError(t, err)
	assert.Nil(t, file.ConnectedToID())

	// The file bubble survives a disconnect
	assert.True(t, board.HasBubble(fileID))
}

func TestConnectRejectsCycle(t *testing.T) {
	board := NewBoard("test", nil)

	// Chain P1 -> R1 -> P2 -> R2
	prompt1ID := addPrompt(t, board, nil)
	response1ID := addResponse(t, board, &prompt1ID)
	prompt2ID := addPrompt(t, board, &response1ID)
	response2ID := addResponse(t, board, &prompt2ID)

	// Response to human prompt is legal by kind, but closing the chain
	// back onto its root would cycle
	err := board.Connect(response2ID, prompt1ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsIllegalConnection(err))

	// The chain itself is intact
	require.Len(t, board.Edges(), 3)
}

func TestUpdateContentAtomicity(t *testing.T) {
	board := NewBoard("test", nil)
	promptID := addPrompt(t, board, nil)

	title := "renamed"
	temp := 1.2
	err := board.UpdateContent(promptID, ContentPatch{
		Title:       &title,
		Temperature: &temp, // prompts carry no model config
	})
	require.Error(t, err)

	prompt, lookupErr := board.Bubble(promptID)
	require.NoError(t, lookupErr)
	assert.Empty(t, prompt.Title(), "rejected patch must not partially apply")
}

func TestUpdateContentAtomicityAtMessageLimit(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.MaxMessagesPerBubble = 1
	board := NewBoard("test", cfg)
	promptID := addPrompt(t, board, nil)

	title := "renamed"
	followUp := testMessage(t, "one more", valueobjects.RoleHuman)
	err := board.UpdateContent(promptID, ContentPatch{
		Title:         &title,
		AppendMessage: &followUp, // thread is already at the limit
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	prompt, lookupErr := board.Bubble(promptID)
	require.NoError(t, lookupErr)
	assert.Empty(t, prompt.Title(), "rejected patch must not partially apply")
	assert.Equal(t, 1, prompt.Thread().Len())
}

func TestMoveBubbleBounds(t *testing.T) {
	board := NewBoard("test", nil)
	promptID := addPrompt(t, board, nil)

	require.NoError(t, board.MoveBubble(promptID, valueobjects.NewPosition(500, -300)))

	err := board.MoveBubble(promptID, valueobjects.NewPosition(1e9, 0))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	prompt, err := board.Bubble(promptID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, prompt.Position().X())
}

func TestUnknownBubbleOperationsFail(t *testing.T) {
	board := NewBoard("test", nil)
	ghost := valueobjects.NewBubbleID()

	assert.True(t, pkgerrors.IsNotFound(board.RemoveBubble(ghost)))
	assert.True(t, pkgerrors.IsNotFound(board.MoveBubble(ghost, valueobjects.NewPosition(0, 0))))
	_, err := board.ToggleCollapsed(ghost)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.True(t, pkgerrors.IsNotFound(board.UpdateContent(ghost, ContentPatch{})))
}

// TestForestInvariantUnderRandomConnects drives a seeded sequence of
// legal connects and checks the parent links always form a forest:
// every bubble has at most one parent and no parent chain loops.
func TestForestInvariantUnderRandomConnects(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	board := NewBoard("test", nil)

	var prompts, responses []valueobjects.BubbleID
	for i := 0; i < 15; i++ {
		prompts = append(prompts, addPrompt(t, board, nil))
		responses = append(responses, addResponse(t, board, nil))
	}

	all := append(append([]valueobjects.BubbleID{}, prompts...), responses...)
	for i := 0; i < 300; i++ {
		src := all[rng.Intn(len(all))]
		tgt := all[rng.Intn(len(all))]
		// Illegal attempts must leave the board untouched
		_ = board.Connect(src, tgt)
		assertForest(t, board)
	}
}

func assertForest(t *testing.T, board *Board) {
	t.Helper()

	// Walk each parent chain; revisiting a node within one walk means a
	// cycle slipped through.
	for _, bubble := range board.Bubbles() {
		seen := map[string]bool{}
		current := bubble
		for current.ParentID() != nil {
			id := current.ID().String()
			require.False(t, seen[id], "cycle through bubble %s", id)
			seen[id] = true

			parent, err := board.Bubble(*current.ParentID())
			require.NoError(t, err)
			current = parent
		}
	}
}
