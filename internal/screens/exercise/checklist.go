package exercise

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/docdrill/internal/api"
	"github.com/abhisek/docdrill/internal/ui/components"
	"github.com/abhisek/docdrill/internal/ui/theme"
)

// checklist collects the parameters a trainee spots in one document.
type checklist struct {
	docNum    int
	rows      []api.ChecklistRow
	param     components.TextInput
	check     components.TextInput
	focus     int // 0 = parameter, 1 = check
	reviewing bool
	feedback  *api.ChecklistFeedback
}

func newChecklist(docNum int) *checklist {
	c := &checklist{
		docNum: docNum,
		param:  components.NewTextInput("Parameter", "e.g. design flow rate", 120),
		check:  components.NewTextInput("Check", "e.g. matches pump curve?", 200),
	}
	c.check.Blur()
	return c
}

func (c *checklist) focusCmd() tea.Cmd {
	if c.focus == 0 {
		c.check.Blur()
		return c.param.Focus()
	}
	c.param.Blur()
	return c.check.Focus()
}

func (c *checklist) setWidth(w int) {
	c.param.SetWidth(max(w-14, 10))
	c.check.SetWidth(max(w-10, 10))
}

// addRow appends the typed row. It reports false when the parameter is empty.
func (c *checklist) addRow() bool {
	p := strings.TrimSpace(c.param.Value())
	if p == "" {
		return false
	}
	c.rows = append(c.rows, api.ChecklistRow{
		ID:        strconv.Itoa(len(c.rows) + 1),
		Parameter: p,
		Check:     strings.TrimSpace(c.check.Value()),
	})
	c.param.Reset()
	c.check.Reset()
	c.focus = 0
	return true
}

func (c *checklist) removeLast() {
	if len(c.rows) > 0 {
		c.rows = c.rows[:len(c.rows)-1]
	}
}

func (c *checklist) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if c.focus == 0 {
		c.param, cmd = c.param.Update(msg)
	} else {
		c.check, cmd = c.check.Update(msg)
	}
	return cmd
}

func (c *checklist) view(cw int) string {
	var b strings.Builder
	if len(c.rows) == 0 {
		b.WriteString(theme.Hint.Render("No parameters yet.") + "\n")
	}
	for _, r := range c.rows {
		line := fmt.Sprintf("%s. %s", r.ID, r.Parameter)
		if r.Check != "" {
			line += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  (" + r.Check + ")")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + c.param.View() + "\n" + c.check.View())

	switch {
	case c.reviewing:
		b.WriteString("\n\n" + theme.Hint.Render("Reviewing checklist..."))
	case c.feedback != nil:
		b.WriteString("\n\n" + renderChecklistFeedback(*c.feedback))
	}
	return components.Card(fmt.Sprintf("Checklist: Document %d", c.docNum), b.String(), cw)
}

func renderChecklistFeedback(fb api.ChecklistFeedback) string {
	var b strings.Builder
	for _, s := range fb.Captured {
		b.WriteString(theme.Good.Render("+ ") + s + "\n")
	}
	for _, s := range fb.Missed {
		b.WriteString(theme.Bad.Render("- ") + s + "\n")
	}
	b.WriteString(theme.Body.Render(fb.Feedback))
	return b.String()
}
