package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/deficit-slayer/pkg/battle"
	"github.com/jwebster45206/deficit-slayer/pkg/display"
	"github.com/jwebster45206/deficit-slayer/pkg/view"
	"github.com/muesli/reflow/wordwrap"
)

const (
	PlaceHolderText = "Calories eaten today..."

	floatingTextDuration = 1500 * time.Millisecond
	victoryDelay         = 1500 * time.Millisecond
	statusDuration       = 3 * time.Second
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config *ConsoleConfig
	client *http.Client

	gameState *view.GameState
	history   []view.HistoryEntry

	input     textinput.Model
	historyVp viewport.Model
	hpBar     progress.Model
	goalBar   progress.Model
	width     int
	height    int
	ready     bool
	loading   bool
	err       error
	status    string
	statusSeq int
	floating  []display.FloatingText
	floatSeq  int
	events    chan SSEEvent

	showHistory   bool
	showVictory   bool
	showLegend    bool
	showQuitModal bool
}

type logResponseMsg struct {
	response *view.LogResponse
	err      error
}

type advanceMsg struct {
	gameState *view.GameState
	err       error
}

type refreshMsg struct {
	gameState *view.GameState
	history   []view.HistoryEntry
	err       error
}

type floatExpiredMsg struct{ seq int }

type statusExpiredMsg struct{ seq int }

type victoryMsg struct{}

type legendMsg struct{}

type sseEventMsg SSEEvent

type streamClosedMsg struct{ err error }

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	damageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // red
			Bold(true)

	critStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Bold(true).
			Underline(true)

	healStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")). // green
			Bold(true)

	missStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")). // dark grey
			Italic(true)

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")) // soft red

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

// monsterColors maps roster color names to terminal colors.
var monsterColors = map[string]lipgloss.Color{
	"green":  "34",
	"pink":   "212",
	"gray":   "250",
	"orange": "208",
	"purple": "135",
	"red":    "196",
	"yellow": "220",
}

var monsterIcons = map[string]string{
	"droplet": "💧",
	"ghost":   "👻",
	"dog":     "🐺",
	"flame":   "🔥",
	"frown":   "☹",
	"hammer":  "🔨",
	"skull":   "💀",
}

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, gs *view.GameState) ConsoleUI {
	ti := textinput.New()
	ti.Placeholder = PlaceHolderText
	ti.Prompt = promptStyle.Render(":: ")
	ti.CharLimit = 9
	ti.Width = 24
	ti.Focus()

	vp := viewport.New(40, 10)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		config:    cfg,
		client:    client,
		gameState: gs,
		input:     ti,
		historyVp: vp,
		hpBar:     progress.New(progress.WithGradient("#FF5F87", "#FFAF5F"), progress.WithoutPercentage()),
		goalBar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		events:    make(chan SSEEvent, 8),
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refresh(), m.startStream(), m.waitForEvent())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case logResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		before := m.gameState
		m.gameState = &msg.response.GameState
		m.history = append([]view.HistoryEntry{msg.response.Log}, m.history...)
		m.writeHistory()

		m.floatSeq++
		m.floating = msg.response.FloatingText
		cmds := []tea.Cmd{expireFloating(m.floatSeq)}

		gs := msg.response.GameState
		switch {
		case gs.Completed && (before == nil || !before.Completed):
			cmds = append(cmds, tea.Tick(victoryDelay, func(time.Time) tea.Msg { return legendMsg{} }))
		case gs.Defeated && !gs.Completed:
			cmds = append(cmds, tea.Tick(victoryDelay, func(time.Time) tea.Msg { return victoryMsg{} }))
		}
		return m, tea.Batch(cmds...)

	case advanceMsg:
		m.loading = false
		m.showVictory = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.gameState = msg.gameState
		m.floating = nil
		m.input.Focus()
		return m, textinput.Blink

	case refreshMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.gameState = msg.gameState
		m.history = msg.history
		m.writeHistory()

	case victoryMsg:
		if m.gameState != nil && m.gameState.CanAdvance {
			m.showVictory = true
			m.input.Blur()
		}

	case legendMsg:
		if m.gameState != nil && m.gameState.Completed {
			m.showLegend = true
			m.input.Blur()
		}

	case floatExpiredMsg:
		if msg.seq == m.floatSeq {
			m.floating = nil
		}

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}

	case sseEventMsg:
		// Another client may have logged; pick up its changes.
		return m, tea.Batch(m.refresh(), m.waitForEvent())

	case streamClosedMsg:
		if msg.err != nil && !errors.Is(msg.err, errNoEventStream) && !errors.Is(msg.err, context.Canceled) {
			cmd := m.setStatus("Live updates stopped: " + msg.err.Error())
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || (msg.Type == tea.KeyEsc && !m.showVictory && !m.showLegend) {
		m.showQuitModal = true
		return m, nil
	}

	if m.showVictory {
		if msg.Type == tea.KeyEnter && !m.loading {
			m.loading = true
			return m, m.advance()
		}
		return m, nil
	}

	if m.showLegend {
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
			m.showLegend = false
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab:
		m.showHistory = !m.showHistory
		m.resize()
		return m, nil
	case tea.KeyCtrlY:
		cmd := m.copySummary()
		return m, cmd
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.historyVp, cmd = m.historyVp.Update(msg)
		return m, cmd
	case tea.KeyEnter:
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the typed intake, or advances when the current monster is
// down and the input is empty.
func (m ConsoleUI) submit() (tea.Model, tea.Cmd) {
	if m.loading || m.gameState == nil {
		return m, nil
	}

	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		if m.gameState.CanAdvance {
			m.loading = true
			return m, m.advance()
		}
		return m, nil
	}

	calories, hint := parseCalories(raw)
	if hint != "" {
		cmd := m.setStatus(hint)
		return m, cmd
	}
	if !m.gameState.CanAttack {
		cmd := m.setStatus("Defeat confirmed. Press Enter with no input to face the next monster")
		return m, cmd
	}

	m.input.Reset()
	m.loading = true
	return m, m.logIntake(calories)
}

func (m *ConsoleUI) setStatus(text string) tea.Cmd {
	m.statusSeq++
	m.status = text
	seq := m.statusSeq
	return tea.Tick(statusDuration, func(time.Time) tea.Msg { return statusExpiredMsg{seq} })
}

func expireFloating(seq int) tea.Cmd {
	return tea.Tick(floatingTextDuration, func(time.Time) tea.Msg { return floatExpiredMsg{seq} })
}

func (m ConsoleUI) logIntake(calories int) tea.Cmd {
	return func() tea.Msg {
		resp, err := logIntake(m.client, m.config.APIBaseURL, calories)
		return logResponseMsg{resp, err}
	}
}

func (m ConsoleUI) advance() tea.Cmd {
	return func() tea.Msg {
		gs, err := advanceMonster(m.client, m.config.APIBaseURL)
		return advanceMsg{gs, err}
	}
}

func (m ConsoleUI) refresh() tea.Cmd {
	return func() tea.Msg {
		gs, err := getGameState(m.client, m.config.APIBaseURL)
		if err != nil {
			return refreshMsg{err: err}
		}
		history, err := getHistory(m.client, m.config.APIBaseURL)
		return refreshMsg{gameState: gs, history: history, err: err}
	}
}

// startStream runs the SSE listener for the life of the program. The stream
// uses its own client since a request timeout would cut it off.
func (m ConsoleUI) startStream() tea.Cmd {
	return func() tea.Msg {
		err := listenToSSE(context.Background(), &http.Client{}, m.config.APIBaseURL, m.events)
		return streamClosedMsg{err}
	}
}

func (m ConsoleUI) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return sseEventMsg(<-m.events)
	}
}

func (m *ConsoleUI) copySummary() tea.Cmd {
	if m.gameState == nil {
		return nil
	}
	if err := clipboard.WriteAll(summaryText(*m.gameState)); err != nil {
		return m.setStatus("Clipboard unavailable: " + err.Error())
	}
	return m.setStatus("Summary copied to clipboard")
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N", "esc":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m *ConsoleUI) resize() {
	if m.width == 0 {
		return
	}
	barWidth := min(60, max(10, m.width-12))
	m.hpBar.Width = barWidth
	m.goalBar.Width = barWidth
	m.historyVp.Width = max(20, m.width-6)
	m.historyVp.Height = max(3, m.height/3)
	m.writeHistory()
}

func (m *ConsoleUI) writeHistory() {
	m.historyVp.SetContent(renderHistory(m.history, m.historyVp.Width))
	m.historyVp.GotoTop()
}

// parseCalories accepts a whole number within the loggable range. On
// failure it returns the hint to show instead.
func parseCalories(raw string) (int, string) {
	calories, err := strconv.Atoi(raw)
	if err != nil {
		return 0, "Enter calories as a whole number"
	}
	if battle.CheckIntake(calories) != nil {
		return 0, fmt.Sprintf("Enter at most %s calories", display.Number(battle.MaxIntake))
	}
	return calories, ""
}

// projection previews what typing input would do to the current monster.
func projection(input string) string {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return ""
	}
	calories, hint := parseCalories(raw)
	if hint != "" {
		return hint
	}

	deficit := battle.Deficit(calories)
	switch battle.Classify(deficit) {
	case battle.EffectCrit:
		return fmt.Sprintf("Projected: %s damage (critical)", display.Number(deficit))
	case battle.EffectHit:
		return fmt.Sprintf("Projected: %s damage", display.Number(deficit))
	case battle.EffectHeal:
		return fmt.Sprintf("Projected: monster heals %s", display.Number(-deficit))
	default:
		return "Projected: no damage"
	}
}

// summaryText is the shareable progress summary copied with Ctrl+Y.
func summaryText(gs view.GameState) string {
	var b strings.Builder
	b.WriteString("Deficit Slayer\n")
	if gs.Completed {
		b.WriteString("Every monster defeated. LEGEND.\n")
	} else if gs.Monster != nil {
		fmt.Fprintf(&b, "Fighting %s (%d of %d): %s HP\n", gs.Monster.Name, gs.MonsterNumber, gs.MonsterCount, gs.HPLabel)
	}
	fmt.Fprintf(&b, "Burned %s of %s (%s) over %d days\n",
		gs.TotalDeficitLabel, gs.GoalLabel, gs.ProgressLabel, gs.LogCount)
	return b.String()
}

func renderHistory(entries []view.HistoryEntry, width int) string {
	if len(entries) == 0 {
		return promptStyle.Render("No battles yet. Log today's calories to attack.")
	}

	var b strings.Builder
	for _, e := range entries {
		amount := lossStyle.Render("+" + e.Amount + " hp")
		if e.Burned {
			amount = winStyle.Render("-" + e.Amount + " hp")
		} else if e.Deficit == 0 {
			amount = missStyle.Render("miss")
		}
		line := fmt.Sprintf("%s  %-18s %8s kcal  %s",
			e.Date.Local().Format("Jan 02 15:04"),
			truncate(e.MonsterName, 18),
			display.Number(e.CaloriesConsumed),
			amount)
		b.WriteString(wordwrap.String(line, width))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func renderFloating(texts []display.FloatingText) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		var style lipgloss.Style
		switch t.Kind {
		case "crit":
			style = critStyle
		case "heal":
			style = healStyle
		case "miss":
			style = missStyle
		default:
			style = damageStyle
		}
		text := t.Text
		if t.Scale > 1 {
			text = strings.ToUpper(text)
		}
		parts = append(parts, style.Render(text))
	}
	return strings.Join(parts, "  ")
}

func (m ConsoleUI) renderMonster() string {
	gs := m.gameState
	contentWidth := max(20, m.width-10)

	var b strings.Builder
	if gs.Monster == nil {
		b.WriteString(titleStyle.Render("The roster is cleared."))
		return panelStyle.Width(contentWidth + 4).Render(b.String())
	}

	mon := gs.Monster
	nameStyle := titleStyle
	if c, ok := monsterColors[mon.Color]; ok {
		nameStyle = nameStyle.Foreground(c)
	}
	icon := monsterIcons[mon.Icon]
	b.WriteString(nameStyle.Render(strings.TrimSpace(icon + " " + mon.Name)))
	b.WriteString(labelStyle.Render(fmt.Sprintf("   monster %d of %d", gs.MonsterNumber, gs.MonsterCount)))
	b.WriteString("\n")
	b.WriteString(wordwrap.String(mon.Description, contentWidth))
	b.WriteString("\n\n")

	b.WriteString(m.hpBar.ViewAs(gs.HPFraction))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(gs.HPLabel + " HP"))
	if gs.Defeated {
		b.WriteString("  " + damageStyle.Render("DEFEATED"))
	}
	b.WriteString("\n\n")

	if len(m.floating) > 0 {
		b.WriteString(renderFloating(m.floating))
	}

	return panelStyle.Width(contentWidth + 4).Render(b.String())
}

func (m ConsoleUI) renderModal(title, body, prompt string) string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render(title))
	content.WriteString("\n\n")
	content.WriteString(wordwrap.String(body, 46))
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render(prompt))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if !m.ready || m.gameState == nil {
		return "\n  Initializing..."
	}

	if m.showQuitModal {
		return m.renderModal("Quit?", "Your progress is saved on the server.",
			"Press Y to quit, N to continue, or Ctrl+C to force quit")
	}

	gs := m.gameState
	if m.showVictory && gs.Monster != nil {
		return m.renderModal("VICTORY!",
			fmt.Sprintf("%s has been defeated. The next monster awaits.", gs.Monster.Name),
			"Press Enter to continue")
	}
	if m.showLegend {
		return m.renderModal("LEGEND",
			fmt.Sprintf("Every monster has fallen. You burned %s calories in %d days.", gs.TotalDeficitLabel, gs.LogCount),
			"Press Enter to keep logging")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("DEFICIT SLAYER"))
	b.WriteString("\n\n")
	b.WriteString(m.renderMonster())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Total burned"))
	b.WriteString("\n")
	b.WriteString(m.goalBar.ViewAs(gs.Progress))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%s / %s (%s)", gs.TotalDeficitLabel, gs.GoalLabel, gs.ProgressLabel)))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n")
	switch {
	case m.loading:
		b.WriteString(loadingStyle.Render("Attacking..."))
	case gs.CanAdvance:
		b.WriteString(winStyle.Render("Victory! Press Enter to face the next monster."))
	default:
		b.WriteString(promptStyle.Render(projection(m.input.Value())))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(loadingStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.showHistory {
		b.WriteString("\n")
		b.WriteString(separatorStyle.Render(strings.Repeat("─", max(10, m.historyVp.Width))))
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(fmt.Sprintf("BATTLE LOG (%d)", len(m.history))))
		b.WriteString("\n")
		b.WriteString(m.historyVp.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(promptStyle.Render("Enter: attack • Tab: battle log • PgUp/PgDn: scroll • Ctrl+Y: copy summary • Esc: quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
