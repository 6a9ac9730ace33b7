// Package app holds the top level state machine that switches between the
// setup wizard and an account page.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelsos/junction/internal/account"
	"github.com/kelsos/junction/internal/effect"
	"github.com/kelsos/junction/internal/logger"
	"github.com/kelsos/junction/internal/models"
	"github.com/kelsos/junction/internal/receive"
	"github.com/kelsos/junction/internal/seed"
	"github.com/kelsos/junction/internal/send"
	"github.com/kelsos/junction/internal/setup"
	"github.com/kelsos/junction/internal/transactions"
)

type Msg interface {
	appMsg()
}

type CreateAccountRequested struct{}

type AccountSelected struct{ Account models.Account }

// WizardCompleted is produced by the router itself when the wizard finishes
type WizardCompleted struct{ Account models.Account }

type SelectNextAccount struct{}

type SelectPreviousAccount struct{}

func (CreateAccountRequested) appMsg() {}
func (AccountSelected) appMsg()        {}
func (WizardCompleted) appMsg()        {}
func (SelectNextAccount) appMsg()      {}
func (SelectPreviousAccount) appMsg()  {}

// Screen is either ShowingWizard or ShowingAccount
type Screen interface {
	screen()
}

type ShowingWizard struct{ Wizard setup.Wizard }

type ShowingAccount struct{ Page account.Page }

func (ShowingWizard) screen()  {}
func (ShowingAccount) screen() {}

type Options struct {
	Seeds seed.Generator
	Page  account.Options
}

type Router struct {
	opts     Options
	accounts []models.Account
	screen   Screen
	lastPage uint64
}

// New opens the first account, or the wizard when there are none
func New(accounts []models.Account, opts Options) (Router, []effect.Effect) {
	r := Router{opts: opts}
	for _, a := range accounts {
		r.accounts = append(r.accounts, a.Clone())
	}
	if len(r.accounts) == 0 {
		r.screen = ShowingWizard{Wizard: setup.New(opts.Seeds)}
		return r, nil
	}
	return r.open(r.accounts[0])
}

func (r Router) Screen() Screen { return r.screen }

func (r Router) Accounts() []models.Account {
	accounts := make([]models.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, a.Clone())
	}
	return accounts
}

// Current returns the account shown by the active page
func (r Router) Current() (models.Account, bool) {
	if s, ok := r.screen.(ShowingAccount); ok {
		return s.Page.Account(), true
	}
	return models.Account{}, false
}

func (r Router) Update(msg tea.Msg) (Router, []effect.Effect) {
	switch msg := msg.(type) {
	case CreateAccountRequested:
		r = r.leave()
		r.screen = ShowingWizard{Wizard: setup.New(r.opts.Seeds)}
		return r, nil

	case AccountSelected:
		return r.leave().open(msg.Account)

	case WizardCompleted:
		if _, ok := r.screen.(ShowingWizard); !ok {
			logger.Warn("Wizard completion for %s arrived outside the wizard", msg.Account.Name)
			return r, nil
		}
		return r.open(msg.Account)

	case SelectNextAccount:
		return r.cycle(1)

	case SelectPreviousAccount:
		return r.cycle(-1)

	case setup.Msg:
		s, ok := r.screen.(ShowingWizard)
		if !ok {
			logger.Warn("Dropped wizard message %T while showing an account", msg)
			return r, nil
		}
		var done *models.Account
		s.Wizard, done = s.Wizard.Update(msg)
		r.screen = s
		if done != nil {
			return r.Update(WizardCompleted{Account: *done})
		}
		return r, nil

	case account.Msg, send.Msg, receive.Msg, transactions.Msg:
		return r.toPage(msg, true)

	case effect.Result:
		return r.toPage(msg, false)
	}

	return r, nil
}

func (r Router) toPage(msg tea.Msg, fromUser bool) (Router, []effect.Effect) {
	s, ok := r.screen.(ShowingAccount)
	if !ok {
		if fromUser {
			logger.Warn("Dropped account message %T while showing the wizard", msg)
		} else {
			logger.Debug("Dropped %T for a closed page", msg)
		}
		return r, nil
	}
	if result, ok := msg.(effect.Result); ok && result.Owner().Page != s.Page.ID() {
		logger.Debug("Dropped %T for page %d, showing %d", msg, result.Owner().Page, s.Page.ID())
		return r, nil
	}

	var effects []effect.Effect
	s.Page, effects = s.Page.Update(msg)
	r.screen = s
	return r, effects
}

// open shows a fresh page for a, adding it to the list if it is new
func (r Router) open(a models.Account) (Router, []effect.Effect) {
	if r.indexOf(a.ID) < 0 {
		r.accounts = append(r.accounts, a.Clone())
	}
	r.lastPage++
	page, effects := account.New(r.lastPage, a, r.opts.Page)
	r.screen = ShowingAccount{Page: page}
	logger.Info("Showing account %s on page %d", a, r.lastPage)
	return r, effects
}

// leave keeps the latest synced snapshot of the page being closed
func (r Router) leave() Router {
	s, ok := r.screen.(ShowingAccount)
	if !ok {
		return r
	}
	current := s.Page.Account()
	if i := r.indexOf(current.ID); i >= 0 {
		accounts := make([]models.Account, len(r.accounts))
		copy(accounts, r.accounts)
		accounts[i] = current
		r.accounts = accounts
	}
	return r
}

func (r Router) cycle(step int) (Router, []effect.Effect) {
	n := len(r.accounts)
	if n == 0 {
		return r, nil
	}

	next := 0
	if step < 0 {
		next = n - 1
	}
	if current, ok := r.Current(); ok {
		i := r.indexOf(current.ID)
		next = ((i+step)%n + n) % n
		if n == 1 {
			return r, nil
		}
	}
	return r.leave().open(r.accounts[next])
}

func (r Router) indexOf(id string) int {
	for i, a := range r.accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}
