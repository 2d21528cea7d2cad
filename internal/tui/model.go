package tui

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/echochat/internal/conversation"
	apierrors "github.com/diogo/echochat/internal/errors"
	"github.com/diogo/echochat/internal/models"
	"github.com/diogo/echochat/internal/render"
)

const (
	appTitle         = "AI Assistant"
	inputPlaceholder = "Ask me anything..."
	welcomeTitle     = "Ask me anything!"
	welcomeSubtitle  = "I'm here to help with your questions, offline."
)

var errNothingToCopy = errors.New("no reply to copy yet")

// Message types for the TUI
type (
	submitMsg struct {
		text string
	}
	resolvedMsg struct {
		result conversation.Result
	}
	clipboardMsg struct {
		err error
	}
)

// Options configures the chat model
type Options struct {
	Controller *conversation.Controller

	// Endpoint is shown in the header
	Endpoint string

	// InitialQuery is submitted as soon as the program starts
	InitialQuery string

	Render render.Options

	// Copy writes text to the clipboard; defaults to atotto/clipboard
	Copy func(string) error

	// Context bounds in-flight backend requests
	Context context.Context
}

// Model is the chat screen
type Model struct {
	ctx          context.Context
	controller   *conversation.Controller
	endpoint     string
	initialQuery string
	renderOpts   render.Options
	copy         func(string) error
	connectivity ConnectivityIndicator

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	presets      []string
	presetCursor int

	// bubbles caches rendered messages; the thread is append-only
	bubbles      []string
	bubblesWidth int

	ready  bool
	notice string
	err    error

	width  int
	height int
}

// NewChatModel creates the chat model
func NewChatModel(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = inputPlaceholder
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	ctrl := opts.Controller
	if ctrl == nil {
		ctrl = conversation.New(nil)
	}
	renderOpts := opts.Render
	if renderOpts == (render.Options{}) {
		renderOpts = render.DefaultOptions()
	}

	return Model{
		ctx:          ctx,
		controller:   ctrl,
		endpoint:     opts.Endpoint,
		initialQuery: opts.InitialQuery,
		renderOpts:   renderOpts,
		copy:         copyFn,
		connectivity: NewConnectivityIndicator(),
		textarea:     ta,
		spinner:      s,
		presets:      ctrl.Matcher().Questions(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if strings.TrimSpace(m.initialQuery) != "" {
		query := m.initialQuery
		cmds = append(cmds, func() tea.Msg { return submitMsg{text: query} })
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+y":
			return m, m.copyLastReply()

		case "enter":
			return m.handleEnter()

		case "up", "down":
			if m.choosingPreset() {
				m.movePresetCursor(msg.String() == "down")
				return m, nil
			}
		}

	case submitMsg:
		return m.submit(msg.text)

	case resolvedMsg:
		m.textarea.Focus()
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, textarea.Blink

	case clipboardMsg:
		if msg.err != nil {
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = "Copied last reply to clipboard"
		}
		return m, nil

	case spinner.TickMsg:
		if m.controller.Awaiting() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	// Keys reach the textarea only while input is enabled
	if _, ok := msg.(tea.KeyMsg); ok && !m.controller.Awaiting() {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		m.controller.SetPendingInput(m.textarea.Value())
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	if m.controller.Awaiting() {
		return m, nil
	}

	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		if m.choosingPreset() {
			return m.submit(m.presets[m.presetCursor])
		}
		return m, nil
	}
	if isExitCommand(input) {
		return m, tea.Quit
	}
	return m.submit(m.textarea.Value())
}

// submit hands text to the controller and starts resolving the reply
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	pending, err := m.controller.Submit(text)
	switch {
	case errors.Is(err, apierrors.ErrEmptyInput):
		return m, nil
	case errors.Is(err, apierrors.ErrBusy):
		m.notice = "Still waiting for the last reply"
		return m, nil
	case err != nil:
		m.err = err
		return m, nil
	}

	m.textarea.Reset()
	m.textarea.Blur()
	m.notice = ""
	m.err = nil
	m.refreshViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.resolve(pending), m.spinner.Tick)
}

func (m Model) resolve(p *conversation.Pending) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return resolvedMsg{result: p.Resolve(ctx)}
	}
}

func (m Model) copyLastReply() tea.Cmd {
	last, ok := m.controller.LastReply()
	copyFn := m.copy
	return func() tea.Msg {
		if !ok {
			return clipboardMsg{err: errNothingToCopy}
		}
		return clipboardMsg{err: copyFn(last.Content)}
	}
}

// choosingPreset reports whether up/down and Enter drive the welcome shortcuts
func (m Model) choosingPreset() bool {
	return m.controller.Len() == 0 &&
		len(m.presets) > 0 &&
		strings.TrimSpace(m.textarea.Value()) == ""
}

func (m *Model) movePresetCursor(down bool) {
	n := len(m.presets)
	if down {
		m.presetCursor = (m.presetCursor + 1) % n
	} else {
		m.presetCursor = (m.presetCursor - 1 + n) % n
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 3
	inputHeight := 6
	statusHeight := 2
	frame := 2

	vpHeight := height - headerHeight - inputHeight - statusHeight - frame
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.viewport.KeyMap = scrollKeys()
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)

	m.refreshViewport()
	m.viewport.GotoBottom()
}

// scrollKeys keeps letter keys out of the viewport so typing never scrolls
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
	}
}

// refreshViewport renders any new messages and the thinking bubble
func (m *Model) refreshViewport() {
	snap := m.controller.Snapshot()
	width := m.viewport.Width

	if width != m.bubblesWidth || len(m.bubbles) > len(snap.Messages) {
		m.bubbles = nil
		m.bubblesWidth = width
	}
	for _, msg := range snap.Messages[len(m.bubbles):] {
		m.bubbles = append(m.bubbles, m.renderMessage(msg, width))
	}

	content := strings.Join(m.bubbles, "\n\n")
	if snap.AwaitingResponse {
		thinking := thinkingStyle.Render(models.ThinkingText)
		content += "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Left, thinking)
	}
	m.viewport.SetContent(content)
}

// bubbleWidth is the widest a bubble may be for a given viewport width
func bubbleWidth(viewportWidth int) int {
	w := viewportWidth * 4 / 5
	if w < 16 {
		w = viewportWidth
	}
	return w
}

func (m Model) renderMessage(msg models.Message, width int) string {
	maxInner := bubbleWidth(width) - 4
	if maxInner < 1 {
		maxInner = 1
	}

	if msg.IsUser() {
		body := fitBubble(userBubbleStyle, msg.Content, maxInner)
		block := lipgloss.JoinVertical(lipgloss.Right, userLabelStyle.Render("You ⬤"), body)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}

	rendered := render.Reply(msg.Content, m.renderOpts.WithWidth(maxInner))
	body := fitBubble(assistantBubbleStyle, rendered, maxInner)
	block := lipgloss.JoinVertical(lipgloss.Left, assistantLabelStyle.Render("✦ Assistant"), body)
	return lipgloss.PlaceHorizontal(width, lipgloss.Left, block)
}

// fitBubble sizes a bubble to its content, capped at maxInner columns
func fitBubble(style lipgloss.Style, content string, maxInner int) string {
	inner := lipgloss.Width(content)
	if inner > maxInner {
		inner = maxInner
	}
	if inner < 1 {
		inner = 1
	}
	return style.Width(inner + style.GetHorizontalPadding()).Render(content)
}

func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.viewport.Width
	var sections []string

	sections = append(sections, m.renderHeader(contentWidth))

	var messagesContent string
	if m.controller.Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	var inputContent string
	if m.controller.Awaiting() {
		inputContent = lipgloss.JoinHorizontal(lipgloss.Center,
			m.spinner.View(),
			loadingStyle.Render(" Waiting for reply"),
			hintStyle.Render("  input disabled"),
		)
	} else {
		inputContent = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	} else if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	left := titleStyle.Render("✦ " + appTitle)
	if host := displayHost(m.endpoint); host != "" {
		left = lipgloss.JoinHorizontal(lipgloss.Center, left, hintStyle.Render("  •  "), subtitleStyle.Render(host))
	}
	right := m.connectivity.View()

	gap := width - 4 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// displayHost trims an endpoint down to host:port for the header
func displayHost(endpoint string) string {
	if endpoint == "" {
		return ""
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// renderWelcome shows the greeting and the preset shortcuts
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 2
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	lines := []string{
		center.Render(welcomeIconStyle.Render("✦")),
		"",
		center.Render(welcomeTitleStyle.Render(welcomeTitle)),
		center.Render(welcomeStyle.Render(welcomeSubtitle)),
		"",
	}
	for i, q := range m.presets {
		item := presetItemStyle.Render(q)
		cursor := "  "
		if i == m.presetCursor {
			item = presetSelectedStyle.Render(q)
			cursor = presetCursorStyle.Render("▸ ")
		}
		lines = append(lines, center.Render(cursor+item))
	}

	content := strings.Join(lines, "\n")
	top := (m.viewport.Height - lipgloss.Height(content)) / 2
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + content
}

func (m Model) renderStatusBar(width int) string {
	scroll := "Scroll"
	if m.choosingPreset() {
		scroll = "Pick question"
	}
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"↑↓", scroll},
		{"Ctrl+Y", "Copy reply"},
		{"Esc", "Quit"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(opts Options) error {
	p := tea.NewProgram(
		NewChatModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
