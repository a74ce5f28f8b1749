package exercise

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/docdrill/internal/api"
	ex "github.com/abhisek/docdrill/internal/exercise"
	"github.com/abhisek/docdrill/internal/ui/components"
	"github.com/abhisek/docdrill/internal/ui/layout"
	"github.com/abhisek/docdrill/internal/ui/theme"
)

func (s *ExerciseScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	switch {
	case s.st.Failed():
		return layout.RenderCentered(
			components.ErrorCard(s.st.Error, "Press r to reset and start a new exercise.", cw),
			width, height)
	case s.st.Step == ex.StepLoading:
		return layout.RenderCentered(theme.Hint.Render("Preparing a new exercise..."), width, height)
	case s.st.Step == ex.StepReviewing:
		return layout.RenderCentered(theme.Hint.Render("Reviewing your notes. This can take a minute..."), width, height)
	case s.st.IsLoading:
		return layout.RenderCentered(theme.Hint.Render("Loading "+s.st.Step.Label()+"..."), width, height)
	case !s.st.Started():
		return layout.RenderCentered(theme.Hint.Render("Waiting for the service..."), width, height)
	}

	var sections []string
	sections = append(sections, renderTrail(s.st.Step, cw))
	if s.timer != nil {
		cd := s.timer.Countdown()
		label := fmt.Sprintf("%s  %s", s.st.Step.Label(), cd.Format())
		sections = append(sections, components.NewTimerBar(label, cd.PercentRemaining(), cd.IsWarning() || cd.IsExpired(), cw).View())
	}

	var bottom string
	if s.checklistOpen {
		if c := s.checklists[s.st.Step.DocNumber()]; c != nil {
			bottom = c.view(cw)
		}
	} else {
		bottom = components.Card("Your notes", s.editor.View(), cw)
		if s.submitting {
			bottom += "\n" + theme.Hint.Render("Submitting...")
		}
	}

	used := lipgloss.Height(strings.Join(sections, "\n")) + lipgloss.Height(bottom) + 6
	room := max(height-used, 3)
	sections = append(sections, s.renderArtifact(cw, room), bottom)

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(strings.Join(sections, "\n\n"))
}

// renderTrail shows every ordered step with the current one highlighted.
func renderTrail(current ex.Step, cw int) string {
	idx := current.Index()
	var parts []string
	for i, step := range ex.ProgressSteps() {
		name := step.Label()
		switch {
		case i == idx:
			parts = append(parts, theme.Selected.Render(name))
		case idx >= 0 && i < idx:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Secondary).Render(name))
		default:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render(name))
		}
	}
	trail := strings.Join(parts, theme.Hint.Render(" › "))
	if lipgloss.Width(trail) > cw {
		return theme.Selected.Render(fmt.Sprintf("Step %d of %d: %s", idx+1, len(ex.ProgressSteps()), current.Label()))
	}
	return trail
}

// renderArtifact renders the material for the current step, clipped to
// lines rows starting at the scroll offset.
func (s *ExerciseScreen) renderArtifact(cw, lines int) string {
	heading, body := artifactFor(s.st)
	wrapped := lipgloss.NewStyle().Width(cw - 4).Render(body)
	all := strings.Split(wrapped, "\n")

	maxScroll := max(len(all)-lines, 0)
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}
	end := min(s.scroll+lines, len(all))
	view := strings.Join(all[s.scroll:end], "\n")
	if end < len(all) {
		view += "\n" + theme.Hint.Render(fmt.Sprintf("(%d more lines, PgDn)", len(all)-end))
	}
	return components.Card(heading, view, cw)
}

// artifactFor picks the heading and text shown for st's step.
func artifactFor(st ex.State) (string, string) {
	switch st.Step {
	case ex.StepBackgroundRead, ex.StepBackgroundReview:
		if st.Background == nil {
			return "Background", ""
		}
		body := st.Background.Content
		if st.Step == ex.StepBackgroundReview {
			body = theme.Hint.Render("Your earlier notes are replaced by what you submit here.") + "\n\n" + body
		}
		return st.Background.Title, body
	case ex.StepRequest:
		return "Client request", renderRequest(st.Request)
	case ex.StepDoc1, ex.StepDoc2, ex.StepDoc3:
		doc := st.Document(st.Step.DocNumber())
		if doc == nil {
			return st.Step.Label(), ""
		}
		return fmt.Sprintf("%s: %s", st.Step.Label(), doc.Title), doc.Content
	case ex.StepPredictions:
		body := renderRequest(st.Request)
		if summary := st.Notes[ex.FieldDeliverableSummary]; summary != "" {
			body += "\n\n" + theme.Heading.Render("Your deliverable summary") + "\n" + summary
		}
		return "Before you see the data", body
	case ex.StepData:
		return renderDataHeading(st.Data), renderData(st.Data)
	}
	return "", ""
}

func renderRequest(r *api.ClientRequest) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("From: %s\nSubject: %s\n\n%s", r.From, r.Subject, r.Body)
}

func renderDataHeading(d *api.DataArtifact) string {
	if d == nil {
		return "Data"
	}
	switch d.Format {
	case api.DataFormatTable:
		return "Data (table)"
	case api.DataFormatValues:
		return "Data (values)"
	case api.DataFormatTextOutput:
		return "Data (tool output)"
	}
	return "Data"
}

func renderData(d *api.DataArtifact) string {
	if d == nil {
		return ""
	}
	return d.Description + "\n\n" + d.Content
}
