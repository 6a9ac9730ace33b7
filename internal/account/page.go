package account

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelsos/junction/internal/effect"
	"github.com/kelsos/junction/internal/logger"
	"github.com/kelsos/junction/internal/models"
	"github.com/kelsos/junction/internal/receive"
	"github.com/kelsos/junction/internal/send"
	"github.com/kelsos/junction/internal/transactions"
)

type ViewKind int

const (
	ViewTransactions ViewKind = iota
	ViewSend
	ViewReceive
	ViewSettings
)

func ViewKinds() []ViewKind {
	return []ViewKind{ViewTransactions, ViewSend, ViewReceive, ViewSettings}
}

func (k ViewKind) String() string {
	switch k {
	case ViewTransactions:
		return "Transactions"
	case ViewSend:
		return "Send"
	case ViewReceive:
		return "Receive"
	case ViewSettings:
		return "Settings"
	default:
		return fmt.Sprintf("View(%d)", int(k))
	}
}

// MainView is the active sub-view of a page. Exactly one exists at a time.
type MainView interface {
	Kind() ViewKind
	Ticket() effect.Ticket
}

type Transactions struct{ transactions.View }

type Send struct{ send.Pipeline }

type Receive struct{ receive.View }

type Settings struct {
	ticket  effect.Ticket
	account models.Account
}

func (Transactions) Kind() ViewKind { return ViewTransactions }
func (Send) Kind() ViewKind         { return ViewSend }
func (Receive) Kind() ViewKind      { return ViewReceive }
func (Settings) Kind() ViewKind     { return ViewSettings }

func (s Settings) Ticket() effect.Ticket   { return s.ticket }
func (s Settings) Account() models.Account { return s.account }

type Msg interface {
	accountMsg()
}

type NavigateTo struct{ View ViewKind }

// RefreshRequested asks for a sync; ignored while one is running
type RefreshRequested struct{}

func (NavigateTo) accountMsg()       {}
func (RefreshRequested) accountMsg() {}

type Options struct {
	// MaxAddresses is the gap hint passed to every sync
	MaxAddresses uint32
}

// Page owns the authoritative account snapshot. Sub-views get clones and only
// see changes through AccountUpdated after a successful sync.
type Page struct {
	id       uint64
	opts     Options
	account  models.Account
	view     MainView
	lastView uint64
	syncing  bool
	syncErr  error
}

// New builds a page showing transactions and starts the initial sync
func New(id uint64, account models.Account, opts Options) (Page, []effect.Effect) {
	p := Page{id: id, opts: opts, account: account.Clone()}
	p, effects := p.navigate(ViewTransactions)
	p, syncEffects := p.sync()
	return p, append(effects, syncEffects...)
}

func (p Page) ID() uint64              { return p.id }
func (p Page) Account() models.Account { return p.account.Clone() }
func (p Page) View() MainView          { return p.view }
func (p Page) Syncing() bool           { return p.syncing }
func (p Page) SyncErr() error          { return p.syncErr }

func (p Page) ticket() effect.Ticket {
	return effect.Ticket{Page: p.id}
}

func (p Page) Update(msg tea.Msg) (Page, []effect.Effect) {
	switch msg := msg.(type) {
	case NavigateTo:
		return p.navigate(msg.View)

	case RefreshRequested:
		return p.sync()

	case effect.AccountSynced:
		return p.handleAccountSynced(msg)

	case send.Msg:
		if _, ok := p.view.(Send); ok {
			return p.forward(msg)
		}
	case receive.Msg:
		if _, ok := p.view.(Receive); ok {
			return p.forward(msg)
		}
	case transactions.Msg:
		if _, ok := p.view.(Transactions); ok {
			return p.forward(msg)
		}

	case effect.Result:
		if msg.Owner() != p.view.Ticket() {
			logger.Debug("Page %d dropped stale %T for %s", p.id, msg, msg.Owner())
			return p, nil
		}
		return p.forward(msg)
	}

	logger.Debug("Page %d ignored %T while showing %s", p.id, msg, p.view.Kind())
	return p, nil
}

func (p Page) navigate(kind ViewKind) (Page, []effect.Effect) {
	p.lastView++
	ticket := effect.Ticket{Page: p.id, View: p.lastView}
	snapshot := p.account.Clone()

	var effects []effect.Effect
	switch kind {
	case ViewSend:
		p.view = Send{send.New(ticket, snapshot)}
	case ViewReceive:
		var v receive.View
		v, effects = receive.New(ticket, snapshot)
		p.view = Receive{v}
	case ViewSettings:
		p.view = Settings{ticket: ticket, account: snapshot}
	default:
		p.view = Transactions{transactions.New(ticket, snapshot)}
	}
	return p, effects
}

func (p Page) sync() (Page, []effect.Effect) {
	if p.syncing {
		logger.Debug("Sync already running for %s", p.account.Name)
		return p, nil
	}
	p.syncing = true
	return p, []effect.Effect{effect.SyncAccount{
		Ticket:       p.ticket(),
		Account:      p.account.Clone(),
		MaxAddresses: p.opts.MaxAddresses,
	}}
}

func (p Page) handleAccountSynced(msg effect.AccountSynced) (Page, []effect.Effect) {
	if msg.Ticket != p.ticket() || !p.syncing {
		return p, nil
	}
	p.syncing = false

	if msg.Err != nil {
		logger.Error("Failed to sync %s: %v", p.account.Name, msg.Err)
		p.syncErr = msg.Err
		return p, nil
	}
	if msg.Account.ID != p.account.ID {
		logger.Error("Sync for %s returned account %s", p.account.ID, msg.Account.ID)
		return p, nil
	}

	p.syncErr = nil
	p.account = msg.Account.Clone()

	switch p.view.(type) {
	case Send:
		return p.forward(send.AccountUpdated{Account: p.account.Clone()})
	case Receive:
		return p.forward(receive.AccountUpdated{Account: p.account.Clone()})
	case Transactions:
		return p.forward(transactions.AccountUpdated{Account: p.account.Clone()})
	}
	return p, nil
}

func (p Page) forward(msg tea.Msg) (Page, []effect.Effect) {
	var effects []effect.Effect
	switch v := p.view.(type) {
	case Send:
		v.Pipeline, effects = v.Pipeline.Update(msg)
		p.view = v
	case Receive:
		v.View, effects = v.View.Update(msg)
		p.view = v
	case Transactions:
		v.View, effects = v.View.Update(msg)
		p.view = v
	}
	return p, effects
}
