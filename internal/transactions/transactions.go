package transactions

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelsos/junction/internal/effect"
	"github.com/kelsos/junction/internal/models"
)

type Msg interface {
	transactionsMsg()
}

type AccountUpdated struct{ Account models.Account }

func (AccountUpdated) transactionsMsg() {}

// View lists the account history from its snapshot
type View struct {
	ticket  effect.Ticket
	account models.Account
}

func New(ticket effect.Ticket, account models.Account) View {
	return View{ticket: ticket, account: account}
}

func (v View) Ticket() effect.Ticket   { return v.ticket }
func (v View) Account() models.Account { return v.account }

// Loaded reports whether the snapshot has been synced at least once
func (v View) Loaded() bool {
	return v.account.Transactions != nil
}

// Rows returns the history newest first
func (v View) Rows() []models.Transaction {
	rows := make([]models.Transaction, 0, len(v.account.Transactions))
	for i := len(v.account.Transactions) - 1; i >= 0; i-- {
		rows = append(rows, v.account.Transactions[i])
	}
	return rows
}

func (v View) Update(msg tea.Msg) (View, []effect.Effect) {
	if msg, ok := msg.(AccountUpdated); ok {
		v.account = msg.Account
	}
	return v, nil
}
