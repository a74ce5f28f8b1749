package exercise

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/docdrill/internal/api"
	ex "github.com/abhisek/docdrill/internal/exercise"
	"github.com/abhisek/docdrill/internal/journal"
	"github.com/abhisek/docdrill/internal/router"
	"github.com/abhisek/docdrill/internal/screen"
	"github.com/abhisek/docdrill/internal/screens/feedback"
	"github.com/abhisek/docdrill/internal/timer"
	"github.com/abhisek/docdrill/internal/ui/components"
	"github.com/abhisek/docdrill/internal/ui/layout"
)

const editorHeight = 8

// Deps are the collaborators an exercise needs.
type Deps struct {
	Service  api.Service
	Saver    ex.Saver
	Recorder ex.Recorder
	Logger   *zap.Logger
}

// ExerciseScreen runs one timed exercise from start to review.
type ExerciseScreen struct {
	seq      *ex.Sequencer
	changes  chan struct{}
	recorder ex.Recorder
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	st         ex.State
	step       ex.Step
	timer      *timer.Model
	editor     components.NotesEditor
	submitting bool

	checklists    map[int]*checklist
	checklistOpen bool

	scroll int
	width  int
}

var _ screen.Screen = (*ExerciseScreen)(nil)
var _ screen.KeyHintProvider = (*ExerciseScreen)(nil)
var _ screen.StatusProvider = (*ExerciseScreen)(nil)
var _ screen.BackHandler = (*ExerciseScreen)(nil)

// New creates an ExerciseScreen. The exercise starts when the screen is
// shown.
func New(deps Deps) *ExerciseScreen {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	changes := make(chan struct{}, 1)
	opts := []ex.Option{
		ex.WithLogger(logger.Named("exercise")),
		ex.WithObserver(func(ex.State) {
			select {
			case changes <- struct{}{}:
			default:
			}
		}),
	}
	if deps.Recorder != nil {
		opts = append(opts, ex.WithRecorder(deps.Recorder))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &ExerciseScreen{
		seq:        ex.New(deps.Service, deps.Saver, opts...),
		changes:    changes,
		recorder:   deps.Recorder,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		checklists: make(map[int]*checklist),
		width:      layout.MinWidth,
	}
}

func (s *ExerciseScreen) Init() tea.Cmd {
	s.sync()
	return tea.Batch(s.waitForChange(), s.start())
}

func (s *ExerciseScreen) Title() string {
	if s.st.Step == ex.StepLoading {
		return "Exercise"
	}
	return "Exercise · " + s.st.Step.Label()
}

func (s *ExerciseScreen) Status() string {
	if !s.st.Started() {
		return ""
	}
	status := fmt.Sprintf("$%.4f", s.st.CostSoFar)
	if s.timer != nil {
		status = s.timer.View() + "   " + status
	}
	return status
}

func (s *ExerciseScreen) HandlesBack() bool { return true }

func (s *ExerciseScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.st.Failed():
		return []layout.KeyHint{
			{Key: "r", Description: "Reset & restart"},
			{Key: "Esc", Description: "Back"},
		}
	case s.checklistOpen:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Switch field"},
			{Key: "Enter", Description: "Add row"},
			{Key: "Ctrl+R", Description: "Review"},
			{Key: "Ctrl+X", Description: "Remove last"},
			{Key: "Esc", Description: "Close"},
		}
	case s.timer != nil:
		hints := []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "PgUp/PgDn", Description: "Scroll"},
		}
		if s.st.Step.DocNumber() > 0 {
			hints = append(hints, layout.KeyHint{Key: "Ctrl+K", Description: "Checklist"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Abandon"})
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *ExerciseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.resize()
		return s, nil

	case stateChangedMsg:
		return s, tea.Batch(s.sync(), s.waitForChange())

	case startDoneMsg:
		return s, nil

	case submitDoneMsg:
		s.submitting = false
		return s, nil

	case timer.TickMsg:
		if s.timer != nil {
			return s, s.timer.Update(msg)
		}
		return s, nil

	case timer.WarningMsg:
		if s.timer != nil && msg.ID == s.timer.ID() {
			s.logger.Debug("step timer warning", zap.String("step", string(s.st.Step)))
		}
		return s, nil

	case timer.ExpiredMsg:
		if s.timer == nil || msg.ID != s.timer.ID() {
			return s, nil
		}
		s.record(journal.KindTimerExpired, "")
		return s, s.submit()

	case checklistReviewedMsg:
		if c, ok := s.checklists[msg.DocNum]; ok {
			c.reviewing = false
			fb := msg.Feedback
			c.feedback = &fb
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	// Cursor blink and other editor messages.
	if s.timer != nil && !s.checklistOpen {
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ExerciseScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.checklistOpen {
		return s, s.handleChecklistKey(msg)
	}

	switch msg.String() {
	case "esc":
		s.cancel()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "ctrl+s":
		return s, s.submit()
	case "ctrl+k":
		return s, s.openChecklist()
	case "pgup":
		s.scroll = max(s.scroll-5, 0)
		return s, nil
	case "pgdown":
		s.scroll += 5
		return s, nil
	}

	if s.st.Failed() {
		if msg.String() == "r" {
			return s, s.restart()
		}
		return s, nil
	}

	if s.timer == nil || s.submitting {
		return s, nil
	}
	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	return s, cmd
}

func (s *ExerciseScreen) handleChecklistKey(msg tea.KeyPressMsg) tea.Cmd {
	c := s.checklists[s.st.Step.DocNumber()]
	if c == nil {
		s.checklistOpen = false
		return nil
	}

	switch msg.String() {
	case "esc", "ctrl+k":
		s.checklistOpen = false
		return s.editor.Focus()
	case "tab", "shift+tab":
		c.focus = 1 - c.focus
		return c.focusCmd()
	case "enter":
		if c.focus == 0 && c.param.Value() != "" {
			c.focus = 1
			return c.focusCmd()
		}
		c.addRow()
		return c.focusCmd()
	case "ctrl+x":
		c.removeLast()
		return nil
	case "ctrl+r":
		return s.reviewChecklist(c)
	case "ctrl+s":
		s.checklistOpen = false
		return s.submit()
	}
	return c.update(msg)
}

func (s *ExerciseScreen) openChecklist() tea.Cmd {
	n := s.st.Step.DocNumber()
	if n == 0 || s.timer == nil || s.submitting {
		return nil
	}
	c, ok := s.checklists[n]
	if !ok {
		c = newChecklist(n)
		c.setWidth(components.ContentWidth(s.width))
		s.checklists[n] = c
	}
	s.checklistOpen = true
	s.editor.Blur()
	return c.focusCmd()
}

func (s *ExerciseScreen) reviewChecklist(c *checklist) tea.Cmd {
	if c.reviewing || len(c.rows) == 0 {
		return nil
	}
	c.reviewing = true
	c.feedback = nil
	rows := append([]api.ChecklistRow(nil), c.rows...)
	docNum := c.docNum
	ctx := s.ctx
	seq := s.seq
	return func() tea.Msg {
		return checklistReviewedMsg{DocNum: docNum, Feedback: seq.ReviewChecklist(ctx, docNum, rows)}
	}
}

// submit hands the current notes to the sequencer. Manual submission and
// timer expiry both end here; a second call while one is in flight is
// ignored.
func (s *ExerciseScreen) submit() tea.Cmd {
	if s.submitting || s.timer == nil {
		return nil
	}
	step := s.st.Step
	content := s.editor.Value()
	used := s.timer.Countdown().Elapsed()
	s.timer.Pause()
	s.editor.Blur()
	s.submitting = true

	ctx := s.ctx
	seq := s.seq
	return func() tea.Msg {
		return submitDoneMsg{Step: step, Err: seq.SubmitAndAdvance(ctx, step, content, used)}
	}
}

func (s *ExerciseScreen) start() tea.Cmd {
	ctx := s.ctx
	seq := s.seq
	return func() tea.Msg {
		return startDoneMsg{Err: seq.Start(ctx)}
	}
}

func (s *ExerciseScreen) restart() tea.Cmd {
	s.seq.Reset()
	s.checklists = make(map[int]*checklist)
	s.checklistOpen = false
	return s.start()
}

// sync pulls the latest state from the sequencer. A new step gets a fresh
// editor; its timer starts once the step's content is available.
func (s *ExerciseScreen) sync() tea.Cmd {
	s.st = s.seq.State()

	if s.st.Step != s.step {
		s.step = s.st.Step
		s.timer = nil
		s.submitting = false
		s.checklistOpen = false
		s.scroll = 0
		s.editor = components.NewNotesEditor(placeholderFor(s.step))
		s.editor.Blur()
		s.resize()

		if s.step == ex.StepFeedback {
			s.cancel()
			fb := feedback.New(s.st)
			return func() tea.Msg { return router.ReplaceScreenMsg{Screen: fb} }
		}
	}

	if s.timer == nil && s.step.Timed() && s.st.Ready() {
		s.timer = timer.NewModel(s.st.StepDuration(s.step))
		return tea.Batch(s.timer.Start(), s.editor.Focus())
	}
	return nil
}

func (s *ExerciseScreen) waitForChange() tea.Cmd {
	ch, ctx := s.changes, s.ctx
	return func() tea.Msg {
		select {
		case <-ch:
			return stateChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *ExerciseScreen) resize() {
	cw := components.ContentWidth(s.width)
	s.editor.SetSize(cw-2, editorHeight)
	for _, c := range s.checklists {
		c.setWidth(cw)
	}
}

func (s *ExerciseScreen) record(kind journal.Kind, detail string) {
	if s.recorder == nil {
		return
	}
	_, err := s.recorder.Append(context.Background(), journal.Entry{
		Kind:      kind,
		SessionID: s.st.SessionID,
		Step:      string(s.st.Step),
		Detail:    detail,
	})
	if err != nil {
		s.logger.Warn("journal append failed", zap.Error(err))
	}
}

func placeholderFor(step ex.Step) string {
	switch step {
	case ex.StepBackgroundRead:
		return "Key facts about the plant, the process and the people..."
	case ex.StepRequest:
		return "In one or two sentences: what does the client actually need?"
	case ex.StepBackgroundReview:
		return "Refine your background notes now that you know the request..."
	case ex.StepDoc1, ex.StepDoc2, ex.StepDoc3:
		return "Parameters, values and anything that looks off..."
	case ex.StepPredictions:
		return "What do you expect the data to show, and why?"
	case ex.StepData:
		return "What does the data say? Does it confirm your predictions?"
	}
	return ""
}
