package receive

import (
	"github.com/btcsuite/btcd/btcutil"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelsos/junction/internal/effect"
	"github.com/kelsos/junction/internal/models"
)

type Msg interface {
	receiveMsg()
}

type CopyRequested struct{}

type AccountUpdated struct{ Account models.Account }

func (CopyRequested) receiveMsg()  {}
func (AccountUpdated) receiveMsg() {}

// CopyStatus reports the outcome of the last clipboard write
type CopyStatus int

const (
	CopyIdle CopyStatus = iota
	CopyPending
	CopyDone
	CopyFailed
)

// View shows a fresh receive address. The address is derived asynchronously
// when the view is created.
type View struct {
	ticket   effect.Ticket
	account  models.Account
	address  btcutil.Address
	deriving bool
	err      error
	copied   CopyStatus
}

func New(ticket effect.Ticket, account models.Account) (View, []effect.Effect) {
	v := View{ticket: ticket, account: account, deriving: true}
	return v, []effect.Effect{effect.DeriveAddress{Ticket: ticket, Account: account.Clone()}}
}

func (v View) Ticket() effect.Ticket    { return v.ticket }
func (v View) Account() models.Account  { return v.account }
func (v View) Deriving() bool           { return v.deriving }
func (v View) Address() btcutil.Address { return v.address }
func (v View) Err() error               { return v.err }
func (v View) CopyStatus() CopyStatus   { return v.copied }

func (v View) Update(msg tea.Msg) (View, []effect.Effect) {
	switch msg := msg.(type) {
	case AccountUpdated:
		v.account = msg.Account

	case effect.AddressDerived:
		if msg.Ticket != v.ticket || !v.deriving {
			return v, nil
		}
		v.deriving = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.address = msg.Address

	case CopyRequested:
		if v.address == nil || v.copied == CopyPending {
			return v, nil
		}
		v.copied = CopyPending
		return v, []effect.Effect{effect.CopyText{Ticket: v.ticket, Text: v.address.EncodeAddress()}}

	case effect.TextCopied:
		if msg.Ticket != v.ticket || v.copied != CopyPending {
			return v, nil
		}
		v.copied = CopyDone
		if msg.Err != nil {
			v.copied = CopyFailed
		}
	}
	return v, nil
}
