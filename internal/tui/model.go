package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/kelsos/junction/internal/account"
	"github.com/kelsos/junction/internal/app"
	"github.com/kelsos/junction/internal/effect"
	"github.com/kelsos/junction/internal/models"
	"github.com/kelsos/junction/internal/receive"
	"github.com/kelsos/junction/internal/send"
	"github.com/kelsos/junction/internal/setup"
)

const maxLogs = 10

// Runner turns effect descriptions into commands. *async.Scheduler is the
// production implementation.
type Runner interface {
	Commands(effects []effect.Effect) tea.Cmd
	Active() []effect.Kind
}

type LogMessage struct {
	Message string
}

type Model struct {
	router  app.Router
	runner  Runner
	pending []effect.Effect

	name        textinput.Model
	address     textinput.Model
	amount      textinput.Model
	focusAmount bool

	spinner spinner.Model
	logs    []string
	width   int
	height  int
	quit    bool
}

// NewModel wraps router. initial holds the effects returned when the router
// was built; they are issued from Init.
func NewModel(router app.Router, initial []effect.Effect, runner Runner) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	name := textinput.New()
	name.Placeholder = "account name"
	name.CharLimit = 32

	address := textinput.New()
	address.Placeholder = "address"

	amount := textinput.New()
	amount.Placeholder = "amount in sats"
	amount.CharLimit = 20

	m := Model{
		router:  router,
		runner:  runner,
		pending: initial,
		name:    name,
		address: address,
		amount:  amount,
		spinner: sp,
		logs:    []string{},
		width:   80,
		height:  24,
	}
	m, _ = m.syncInputs()
	return m
}

func (m Model) Router() app.Router { return m.router }

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		textinput.Blink,
		m.runner.Commands(m.pending),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKeyMsg(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case LogMessage:
		m = m.addLog(msg.Message)

	case effect.Result:
		m = m.logResult(msg)
		var cmd tea.Cmd
		m, cmd = m.dispatch(msg)
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	default:
		// cursor blink and other widget messages
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		cmds = append(cmds, cmd)
		m.address, cmd = m.address.Update(msg)
		cmds = append(cmds, cmd)
		m.amount, cmd = m.amount.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.quit {
		return m, tea.Quit
	}
	return m, tea.Batch(cmds...)
}

// dispatch feeds msg through the router and issues whatever it asks for
func (m Model) dispatch(msg tea.Msg) (Model, tea.Cmd) {
	router, effects := m.router.Update(msg)
	m.router = router
	m, focus := m.syncInputs()
	return m, tea.Batch(focus, m.runner.Commands(effects))
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quit = true
		return m, nil
	case "q":
		if !m.typing() {
			m.quit = true
			return m, nil
		}
	case "ctrl+n":
		return m.dispatch(app.CreateAccountRequested{})
	case "pgdown":
		return m.dispatch(app.SelectNextAccount{})
	case "pgup":
		return m.dispatch(app.SelectPreviousAccount{})
	}

	switch s := m.router.Screen().(type) {
	case app.ShowingWizard:
		return m.handleWizardKey(s.Wizard, msg)
	case app.ShowingAccount:
		return m.handleAccountKey(s.Page, msg)
	}
	return m, nil
}

func (m Model) handleWizardKey(w setup.Wizard, msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.dispatch(setup.Next{})
	case "esc":
		return m.dispatch(setup.Back{})
	}

	switch w.Step().(type) {
	case setup.ChooseNetwork:
		if i, ok := choice(msg, len(models.Networks())); ok {
			return m.dispatch(setup.NetworkSelected{Network: models.Networks()[i]})
		}
	case setup.ChooseWordCount:
		if i, ok := choice(msg, len(models.WordCounts())); ok {
			return m.dispatch(setup.WordCountSelected{WordCount: models.WordCounts()[i]})
		}
	case setup.EnterName:
		var cmd, dispatched tea.Cmd
		m.name, cmd = m.name.Update(msg)
		m, dispatched = m.dispatch(setup.NameChanged{Name: m.name.Value()})
		return m, tea.Batch(cmd, dispatched)
	}
	return m, nil
}

func (m Model) handleAccountKey(p account.Page, msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "f1":
		return m.dispatch(account.NavigateTo{View: account.ViewTransactions})
	case "f2":
		return m.dispatch(account.NavigateTo{View: account.ViewSend})
	case "f3":
		return m.dispatch(account.NavigateTo{View: account.ViewReceive})
	case "f4":
		return m.dispatch(account.NavigateTo{View: account.ViewSettings})
	case "f5":
		return m.dispatch(account.RefreshRequested{})
	}

	switch p.View().(type) {
	case account.Send:
		return m.handleSendKey(msg)
	case account.Receive:
		if msg.String() == "c" {
			return m.dispatch(receive.CopyRequested{})
		}
	}
	return m, nil
}

func (m Model) handleSendKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusAmount = !m.focusAmount
		return m.syncInputs()
	case "enter":
		return m.dispatch(send.SendRequested{})
	}

	var cmd, dispatched tea.Cmd
	if m.focusAmount {
		m.amount, cmd = m.amount.Update(msg)
		m, dispatched = m.dispatch(send.AmountChanged{Text: m.amount.Value()})
	} else {
		m.address, cmd = m.address.Update(msg)
		m, dispatched = m.dispatch(send.AddressChanged{Text: m.address.Value()})
	}
	return m, tea.Batch(cmd, dispatched)
}

// syncInputs points the text inputs at the fields of the current screen. A
// fresh send view or wizard step resets them.
func (m Model) syncInputs() (Model, tea.Cmd) {
	m.name.Blur()
	m.address.Blur()
	m.amount.Blur()

	switch s := m.router.Screen().(type) {
	case app.ShowingWizard:
		if step, ok := s.Wizard.Step().(setup.EnterName); ok {
			if m.name.Value() != step.Name {
				m.name.SetValue(step.Name)
			}
			return m, m.name.Focus()
		}

	case app.ShowingAccount:
		if v, ok := s.Page.View().(account.Send); ok {
			if m.address.Value() != v.Address() {
				m.address.SetValue(v.Address())
			}
			if m.amount.Value() != v.Amount() {
				m.amount.SetValue(v.Amount())
			}
			if v.Stage() != send.StageEditing {
				return m, nil
			}
			if m.focusAmount {
				return m, m.amount.Focus()
			}
			return m, m.address.Focus()
		}
	}

	m.focusAmount = false
	return m, nil
}

func (m Model) typing() bool {
	return m.name.Focused() || m.address.Focused() || m.amount.Focused()
}

func (m Model) addLog(message string) Model {
	logs := append([]string{}, m.logs...)
	logs = append(logs, fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), message))
	if len(logs) > maxLogs {
		logs = logs[len(logs)-maxLogs:]
	}
	m.logs = logs
	return m
}

func (m Model) logResult(result effect.Result) Model {
	if err := result.Failed(); err != nil {
		return m.addLog(fmt.Sprintf("❌ %T failed: %v", result, err))
	}
	switch r := result.(type) {
	case effect.AccountSynced:
		return m.addLog(fmt.Sprintf("✅ Synced %s", r.Account.Name))
	case effect.Broadcasted:
		return m.addLog(fmt.Sprintf("📡 Broadcast %s", r.Txid))
	}
	return m
}

// choice maps the keys 1..n to an index
func choice(msg tea.KeyMsg, n int) (int, bool) {
	key := msg.String()
	if len(key) != 1 || key[0] < '1' || int(key[0]-'1') >= n {
		return 0, false
	}
	return int(key[0] - '1'), true
}

// truncate shortens s to max terminal cells without splitting a character
func truncate(s string, max int) string {
	return runewidth.Truncate(s, max, "...")
}

func formatAmount(a *models.Account) string {
	if a.Balance == nil {
		return "-"
	}
	return a.Balance.String()
}

func (m Model) View() string {
	if m.quit {
		return "Shutting down...\n"
	}

	var s strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginBottom(1)

	s.WriteString(headerStyle.Render("₿ Junction"))
	s.WriteString("\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	bodyStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1).
		Width(m.width - 2)

	switch screen := m.router.Screen().(type) {
	case app.ShowingWizard:
		s.WriteString(bodyStyle.Render(m.renderWizard(screen.Wizard)))
	case app.ShowingAccount:
		s.WriteString(bodyStyle.Render(m.renderPage(screen.Page)))
	}
	s.WriteString("\n\n")

	logSectionStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(m.width - 2).
		Height(maxLogs - 2)

	var logSection strings.Builder
	logSection.WriteString(fmt.Sprintf("📝 Recent Logs | ⏳ Active Tasks: %d\n", len(m.runner.Active())))
	for _, log := range m.logs {
		logSection.WriteString(log + "\n")
	}
	s.WriteString(logSectionStyle.Render(logSection.String()))
	s.WriteString("\n\n")

	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	s.WriteString(footerStyle.Render(m.footer()))

	return s.String()
}

func (m Model) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82")).Underline(true)
	inactive := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	current, showing := m.router.Current()
	var tabs []string
	for _, a := range m.router.Accounts() {
		label := truncate(a.Name, 15)
		if label == "" {
			label = truncate(a.ID, 15)
		}
		if showing && a.ID == current.ID {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}
	if !showing {
		tabs = append(tabs, active.Render("+ new"))
	}
	return strings.Join(tabs, " │ ")
}

func (m Model) renderWizard(w setup.Wizard) string {
	var b strings.Builder
	step := w.Step()
	b.WriteString(fmt.Sprintf("🧭 Setup %d/4: %s\n", step.Index()+1, step.Title()))
	b.WriteString(strings.Repeat("─", 40) + "\n")

	selected := lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	switch step := step.(type) {
	case setup.ChooseNetwork:
		for i, n := range models.Networks() {
			line := fmt.Sprintf("%d) %s", i+1, n)
			if step.Network != nil && *step.Network == n {
				line = selected.Render(line + " ✓")
			}
			b.WriteString(line + "\n")
		}
	case setup.EnterName:
		b.WriteString(m.name.View() + "\n")
	case setup.ChooseWordCount:
		for i, c := range models.WordCounts() {
			line := fmt.Sprintf("%d) %s", i+1, c)
			if step.WordCount != nil && *step.WordCount == c {
				line = selected.Render(line + " ✓")
			}
			b.WriteString(line + "\n")
		}
	case setup.DisplayWords:
		for i, word := range step.Seed.Words {
			b.WriteString(fmt.Sprintf("%2d. %-10s", i+1, word))
			if (i+1)%4 == 0 {
				b.WriteString("\n")
			}
		}
		b.WriteString("\nWrite these words down, then press enter.\n")
	}

	if err := w.Err(); err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", err)))
	}
	return b.String()
}

func (m Model) renderPage(p account.Page) string {
	var b strings.Builder
	a := p.Account()

	b.WriteString(fmt.Sprintf("%s (%s)  Balance: %s", a.Name, a.Network, formatAmount(&a)))
	switch {
	case p.Syncing():
		b.WriteString("  " + m.spinner.View() + " syncing")
	case p.SyncErr() != nil:
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString("  " + errorStyle.Render(fmt.Sprintf("sync failed: %v", p.SyncErr())))
	}
	b.WriteString("\n")

	var views []string
	for i, kind := range account.ViewKinds() {
		label := fmt.Sprintf("F%d %s", i+1, kind)
		if kind == p.View().Kind() {
			label = lipgloss.NewStyle().Bold(true).Render("[" + label + "]")
		}
		views = append(views, label)
	}
	b.WriteString(strings.Join(views, "  ") + "\n")
	b.WriteString(strings.Repeat("─", 60) + "\n")

	switch v := p.View().(type) {
	case account.Transactions:
		b.WriteString(renderTransactions(v))
	case account.Send:
		b.WriteString(m.renderSend(v))
	case account.Receive:
		b.WriteString(m.renderReceive(v))
	case account.Settings:
		b.WriteString(renderSettings(v))
	}
	return b.String()
}

func renderTransactions(v account.Transactions) string {
	if !v.Loaded() {
		return "Not synced yet\n"
	}
	rows := v.Rows()
	if len(rows) == 0 {
		return "No transactions\n"
	}

	in := lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	out := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	var b strings.Builder
	for _, tx := range rows {
		delta := tx.Delta()
		style := in
		if delta < 0 {
			style = out
		}
		b.WriteString(fmt.Sprintf("%-20s %s\n", truncate(string(tx.Txid), 20), style.Render(delta.String())))
	}
	return b.String()
}

func (m Model) renderSend(v account.Send) string {
	var b strings.Builder
	b.WriteString("To:     " + m.address.View() + "\n")
	b.WriteString("Amount: " + m.amount.View() + "\n\n")

	switch v.Stage() {
	case send.StageBuilding, send.StageSigning, send.StageBroadcasting:
		b.WriteString(fmt.Sprintf("%s %s...\n", m.spinner.View(), v.Stage()))
	case send.StageSucceeded:
		txid, _ := v.Txid()
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✅ Sent " + string(txid)))
		b.WriteString("\n")
	}

	if msg := v.Error(); msg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(msg) + "\n")
	}
	return b.String()
}

func (m Model) renderReceive(v account.Receive) string {
	switch {
	case v.Deriving():
		return m.spinner.View() + " deriving address...\n"
	case v.Err() != nil:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", v.Err())) + "\n"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(v.Address().EncodeAddress()) + "\n\n")
	switch v.CopyStatus() {
	case receive.CopyPending:
		b.WriteString(m.spinner.View() + " copying\n")
	case receive.CopyDone:
		b.WriteString("📋 Copied\n")
	case receive.CopyFailed:
		b.WriteString("Copy failed\n")
	}
	return b.String()
}

func renderSettings(v account.Settings) string {
	a := v.Account()
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Name:       %s\n", a.Name))
	b.WriteString(fmt.Sprintf("Network:    %s\n", a.Network))
	b.WriteString(fmt.Sprintf("Descriptor: %s\n", a.Descriptor()))
	b.WriteString(fmt.Sprintf("Watch-only: %t\n", a.WatchOnly()))
	return b.String()
}

func (m Model) footer() string {
	switch screen := m.router.Screen().(type) {
	case app.ShowingWizard:
		return "enter next | esc back | 1-3 choose | pgup/pgdown accounts | ctrl+c quit"
	case app.ShowingAccount:
		switch screen.Page.View().(type) {
		case account.Send:
			return "tab switch field | enter send | F1-F4 views | F5 refresh | ctrl+n new | ctrl+c quit"
		case account.Receive:
			return "c copy | F1-F4 views | F5 refresh | ctrl+n new | q quit"
		}
	}
	return "F1-F4 views | F5 refresh | pgup/pgdown accounts | ctrl+n new account | q quit"
}
