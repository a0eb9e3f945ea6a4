package projections

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodular/domain/core/aggregates"
	"nodular/domain/core/entities"
	"nodular/domain/core/valueobjects"
)

type fixture struct {
	board      *aggregates.Board
	systemID   valueobjects.BubbleID
	promptID   valueobjects.BubbleID
	responseID valueobjects.BubbleID
	fileID     valueobjects.BubbleID
}

func buildBoard(t *testing.T) fixture {
	t.Helper()
	board := aggregates.NewBoard("test", nil)

	sysMsg, err := valueobjects.NewMessage("be brief", valueobjects.RoleHuman, time.Now())
	require.NoError(t, err)
	systemID, err := board.AddBubble(aggregates.BubbleSpec{
		Kind:        entities.KindSystemPrompt,
		Title:       "sys",
		Position:    valueobjects.NewPosition(0, 0),
		Messages:    []valueobjects.Message{sysMsg},
		ModelID:     valueobjects.DefaultModelID,
		Temperature: 0.7,
	})
	require.NoError(t, err)

	q, err := valueobjects.NewMessage("what is this?", valueobjects.RoleHuman, time.Now())
	require.NoError(t, err)
	promptID, err := board.AddBubble(aggregates.BubbleSpec{
		Kind:     entities.KindPrompt,
		Position: valueobjects.NewPosition(0, 300),
		Messages: []valueobjects.Message{q},
		ParentID: &systemID,
	})
	require.NoError(t, err)

	a, err := valueobjects.NewMessage("a canvas", valueobjects.RoleModel, time.Now())
	require.NoError(t, err)
	responseID, err := board.AddBubble(aggregates.BubbleSpec{
		Kind:     entities.KindResponse,
		Position: valueobjects.NewPosition(0, 600),
		Messages: []valueobjects.Message{a},
		ParentID: &promptID,
	})
	require.NoError(t, err)

	ref, err := valueobjects.NewFileRef("notes.txt", "text/plain", "blob:notes")
	require.NoError(t, err)
	fileID, err := board.AddBubble(aggregates.BubbleSpec{
		Kind:     entities.KindFileAttachment,
		Position: valueobjects.NewPosition(-300, 300),
		File:     ref,
	})
	require.NoError(t, err)
	require.NoError(t, board.Connect(fileID, promptID))

	return fixture{board, systemID, promptID, responseID, fileID}
}

func TestProjectNodesAndEdges(t *testing.T) {
	f := buildBoard(t)
	result := Project(f.board, DefaultRenderOptions())

	require.Len(t, result.Nodes, 4)
	require.Len(t, result.Edges, 3)
	assert.Equal(t, 4, result.Stats.Nodes)
	assert.Equal(t, 3, result.Stats.Edges)

	// Insertion order is preserved
	assert.Equal(t, f.systemID.String(), result.Nodes[0].ID)
	assert.Equal(t, f.fileID.String(), result.Nodes[3].ID)

	// File bubbles expose metadata, no preview
	fileNode := result.Nodes[3]
	assert.Equal(t, "notes.txt", fileNode.FileName)
	assert.Equal(t, "text/plain", fileNode.MimeType)
	assert.Empty(t, fileNode.Preview)
	assert.True(t, fileNode.Collapsed, "file bubbles start collapsed")

	// Every edge carries resolved handles
	for _, e := range result.Edges {
		assert.True(t, strings.HasPrefix(e.SourceHandle, e.SourceID+"-"))
		assert.True(t, strings.HasPrefix(e.TargetHandle, e.TargetID+"-"))
	}
}

func TestProjectEdgeStyles(t *testing.T) {
	f := buildBoard(t)
	result := Project(f.board, DefaultRenderOptions())

	styles := make(map[string]EdgeStyle)
	for _, e := range result.Edges {
		styles[e.SourceID] = e.Style
	}

	assert.Equal(t, "#ffffff", styles[f.systemID.String()].Color)
	assert.Equal(t, "#3b82f6", styles[f.promptID.String()].Color)

	fileStyle := styles[f.fileID.String()]
	assert.Equal(t, "#3b82f6", fileStyle.Color)
	assert.True(t, fileStyle.Animated)
	assert.True(t, fileStyle.Removable)

	for _, s := range styles {
		assert.Equal(t, 2.0, s.StrokeWidth)
	}
}

func TestProjectShowSystemEdges(t *testing.T) {
	f := buildBoard(t)

	opts := DefaultRenderOptions()
	opts.ShowSystemEdges = false
	result := Project(f.board, opts)

	require.Len(t, result.Edges, 2)
	for _, e := range result.Edges {
		assert.NotEqual(t, f.systemID.String(), e.SourceID)
	}

	// Hiding is a projection concern; the relationship survives
	opts.ShowSystemEdges = true
	assert.Len(t, Project(f.board, opts).Edges, 3)
}

func TestProjectAfterRemovalHasNoDanglingEdges(t *testing.T) {
	f := buildBoard(t)
	require.NoError(t, f.board.RemoveBubble(f.promptID))

	result := Project(f.board, DefaultRenderOptions())
	require.Len(t, result.Nodes, 3)
	for _, e := range result.Edges {
		assert.NotEqual(t, f.promptID.String(), e.SourceID)
		assert.NotEqual(t, f.promptID.String(), e.TargetID)
	}
}

func TestProjectPreviewTruncation(t *testing.T) {
	board := aggregates.NewBoard("test", nil)
	long := strings.Repeat("x", 500)
	msg, err := valueobjects.NewMessage(long, valueobjects.RoleHuman, time.Now())
	require.NoError(t, err)
	_, err = board.AddBubble(aggregates.BubbleSpec{
		Kind:     entities.KindPrompt,
		Position: valueobjects.NewPosition(0, 0),
		Messages: []valueobjects.Message{msg},
	})
	require.NoError(t, err)

	opts := DefaultRenderOptions()
	opts.PreviewLength = 10
	result := Project(board, opts)

	require.Len(t, result.Nodes, 1)
	assert.Equal(t, strings.Repeat("x", 10)+"…", result.Nodes[0].Preview)
}

func TestProjectIsPure(t *testing.T) {
	f := buildBoard(t)

	before := Project(f.board, DefaultRenderOptions())
	again := Project(f.board, DefaultRenderOptions())
	assert.Equal(t, before, again)
}
