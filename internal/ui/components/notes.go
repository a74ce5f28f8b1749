package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/docdrill/internal/ui/theme"
)

// MaxNoteLength caps a single step's notes.
const MaxNoteLength = 20000

// NotesEditor is the multi-line editor the trainee writes notes in.
type NotesEditor struct {
	area textarea.Model
}

// NewNotesEditor creates a focused editor.
func NewNotesEditor(placeholder string) NotesEditor {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = MaxNoteLength
	ta.Focus()
	return NotesEditor{area: ta}
}

// Init focuses the editor.
func (e NotesEditor) Init() tea.Cmd {
	return e.area.Focus()
}

// Update forwards msg to the textarea.
func (e NotesEditor) Update(msg tea.Msg) (NotesEditor, tea.Cmd) {
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return e, cmd
}

// SetSize resizes the editing area.
func (e *NotesEditor) SetSize(width, height int) {
	e.area.SetWidth(max(width, 10))
	e.area.SetHeight(max(height, 3))
}

// Focus focuses the editor.
func (e *NotesEditor) Focus() tea.Cmd {
	return e.area.Focus()
}

// Blur removes focus.
func (e *NotesEditor) Blur() {
	e.area.Blur()
}

// Focused reports whether the editor has focus.
func (e NotesEditor) Focused() bool {
	return e.area.Focused()
}

// Value returns the notes.
func (e NotesEditor) Value() string {
	return e.area.Value()
}

// SetValue replaces the notes.
func (e *NotesEditor) SetValue(s string) {
	e.area.SetValue(s)
}

// WordCount counts whitespace separated words.
func (e NotesEditor) WordCount() int {
	return len(strings.Fields(e.area.Value()))
}

// View renders the editor with a word count underneath.
func (e NotesEditor) View() string {
	return e.area.View() + "\n" + theme.Hint.Render(fmt.Sprintf("%d words", e.WordCount()))
}
