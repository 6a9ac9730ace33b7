// Package effect describes asynchronous work without performing it. Reducers
// return these values; the scheduler in internal/async executes them and turns
// each one into exactly one result message.
package effect

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/kelsos/junction/internal/models"
)

type Kind string

const (
	KindSyncAccount   Kind = "sync-account"
	KindDeriveAddress Kind = "derive-address"
	KindBuildProposal Kind = "build-proposal"
	KindSignProposal  Kind = "sign-proposal"
	KindBroadcast     Kind = "broadcast"
	KindGenerateSeed  Kind = "generate-seed"
	KindCopyText      Kind = "copy-text"
)

// Ticket identifies the state instance that issued an effect. Page ids are
// handed out by the application router and view ids by the account page, so a
// result whose ticket no longer matches belongs to state that was replaced.
// View 0 addresses the page itself.
type Ticket struct {
	Page uint64
	View uint64
}

func (t Ticket) String() string {
	return fmt.Sprintf("%d/%d", t.Page, t.View)
}

type Effect interface {
	Kind() Kind
	Owner() Ticket
}

type SyncAccount struct {
	Ticket       Ticket
	Account      models.Account
	MaxAddresses uint32
}

type DeriveAddress struct {
	Ticket  Ticket
	Account models.Account
}

type BuildProposal struct {
	Ticket  Ticket
	Account models.Account
	Address btcutil.Address
	Amount  btcutil.Amount
}

type SignProposal struct {
	Ticket   Ticket
	Account  models.Account
	Proposal models.UnsignedProposal
}

type Broadcast struct {
	Ticket   Ticket
	Account  models.Account
	Proposal models.SignedProposal
}

type GenerateSeed struct {
	Ticket    Ticket
	Network   models.Network
	WordCount models.WordCount
}

type CopyText struct {
	Ticket Ticket
	Text   string
}

func (SyncAccount) Kind() Kind   { return KindSyncAccount }
func (DeriveAddress) Kind() Kind { return KindDeriveAddress }
func (BuildProposal) Kind() Kind { return KindBuildProposal }
func (SignProposal) Kind() Kind  { return KindSignProposal }
func (Broadcast) Kind() Kind     { return KindBroadcast }
func (GenerateSeed) Kind() Kind  { return KindGenerateSeed }
func (CopyText) Kind() Kind      { return KindCopyText }

func (e SyncAccount) Owner() Ticket   { return e.Ticket }
func (e DeriveAddress) Owner() Ticket { return e.Ticket }
func (e BuildProposal) Owner() Ticket { return e.Ticket }
func (e SignProposal) Owner() Ticket  { return e.Ticket }
func (e Broadcast) Owner() Ticket     { return e.Ticket }
func (e GenerateSeed) Owner() Ticket  { return e.Ticket }
func (e CopyText) Owner() Ticket      { return e.Ticket }
