package valueobjects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(t *testing.T, text string, author Role) Message {
	t.Helper()
	m, err := NewMessage(text, author, time.Now())
	require.NoError(t, err)
	return m
}

func TestNewMessageValidation(t *testing.T) {
	_, err := NewMessage("", RoleHuman, time.Now())
	assert.Error(t, err)

	_, err = NewMessage("hi", Role("robot"), time.Now())
	assert.Error(t, err)
}

func TestThreadLeadAuthor(t *testing.T) {
	// Empty threads read as human-authored
	assert.Equal(t, RoleHuman, NewThread().LeadAuthor())

	thread := NewThread(msg(t, "hi", RoleModel), msg(t, "there", RoleHuman))
	assert.Equal(t, RoleModel, thread.LeadAuthor())
}

func TestThreadAppendIsImmutable(t *testing.T) {
	original := NewThread(msg(t, "one", RoleHuman))
	appended := original.Append(msg(t, "two", RoleModel))

	assert.Equal(t, 1, original.Len())
	assert.Equal(t, 2, appended.Len())
}

func TestThreadReplaceLeadText(t *testing.T) {
	thread := NewThread(msg(t, "draft", RoleHuman), msg(t, "reply", RoleModel))
	edited := thread.ReplaceLeadText("final")

	lead, ok := edited.Lead()
	require.True(t, ok)
	assert.Equal(t, "final", lead.Text())
	assert.Equal(t, RoleHuman, lead.Author())
	assert.Equal(t, 2, edited.Len())

	// Original unchanged
	lead, _ = thread.Lead()
	assert.Equal(t, "draft", lead.Text())
}
