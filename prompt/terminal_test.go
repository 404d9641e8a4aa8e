package prompt

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAskModelCollectsText(t *testing.T) {
	var m tea.Model = newAskModel("User id?")
	assert.Contains(t, m.View(), "User id?")

	for _, r := range "p042" {
		m, _ = m.Update(runes(string(r)))
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	am := m.(askModel)
	assert.True(t, am.done)
	assert.False(t, am.cancelled)
	assert.Equal(t, "p042", am.input.Value())
	assert.NotNil(t, cmd)
	assert.Empty(t, am.View())
}

func TestAskModelCancel(t *testing.T) {
	var m tea.Model = newAskModel("?")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.(askModel).cancelled)
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		key       tea.KeyMsg
		answer    bool
		done      bool
		cancelled bool
	}{
		{key: runes("y"), answer: true, done: true},
		{key: runes("Y"), answer: true, done: true},
		{key: runes("n"), answer: false, done: true},
		{key: tea.KeyMsg{Type: tea.KeyCtrlC}, cancelled: true},
		{key: runes("q")},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			var m tea.Model = confirmModel{question: "Purge?"}
			m, _ = m.Update(tt.key)
			cm := m.(confirmModel)
			assert.Equal(t, tt.answer, cm.answer)
			assert.Equal(t, tt.done, cm.done)
			assert.Equal(t, tt.cancelled, cm.cancelled)
		})
	}
}

func TestNoticeModel(t *testing.T) {
	var m tea.Model = noticeModel{message: "Thanks for participating!"}
	assert.Contains(t, m.View(), "Thanks for participating!")

	m, cmd := m.Update(runes("x"))
	assert.True(t, m.(noticeModel).done)
	assert.NotNil(t, cmd)

	m, _ = noticeModel{}.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.(noticeModel).cancelled)
}
