package effect

import (
	"github.com/btcsuite/btcd/btcutil"

	"github.com/kelsos/junction/internal/models"
	"github.com/kelsos/junction/internal/seed"
)

// Result is the message an executed effect re-enters the loop with
type Result interface {
	Owner() Ticket
	Failed() error
}

type AccountSynced struct {
	Ticket  Ticket
	Account models.Account
	Err     error
}

type AddressDerived struct {
	Ticket  Ticket
	Address btcutil.Address
	Err     error
}

type ProposalBuilt struct {
	Ticket   Ticket
	Proposal models.UnsignedProposal
	Err      error
}

type ProposalSigned struct {
	Ticket    Ticket
	Proposal  models.SignedProposal
	Finalized bool
	Err       error
}

type Broadcasted struct {
	Ticket Ticket
	Txid   models.Txid
	Err    error
}

type SeedGenerated struct {
	Ticket Ticket
	Seed   seed.Seed
	Err    error
}

type TextCopied struct {
	Ticket Ticket
	Err    error
}

func (r AccountSynced) Owner() Ticket  { return r.Ticket }
func (r AddressDerived) Owner() Ticket { return r.Ticket }
func (r ProposalBuilt) Owner() Ticket  { return r.Ticket }
func (r ProposalSigned) Owner() Ticket { return r.Ticket }
func (r Broadcasted) Owner() Ticket    { return r.Ticket }
func (r SeedGenerated) Owner() Ticket  { return r.Ticket }
func (r TextCopied) Owner() Ticket     { return r.Ticket }

func (r AccountSynced) Failed() error  { return r.Err }
func (r AddressDerived) Failed() error { return r.Err }
func (r ProposalBuilt) Failed() error  { return r.Err }
func (r ProposalSigned) Failed() error { return r.Err }
func (r Broadcasted) Failed() error    { return r.Err }
func (r SeedGenerated) Failed() error  { return r.Err }
func (r TextCopied) Failed() error     { return r.Err }

// Failure builds the error result matching e, used when an effect cannot run
// to completion at all.
func Failure(e Effect, err error) Result {
	t := e.Owner()
	switch e := e.(type) {
	case SyncAccount:
		return AccountSynced{Ticket: t, Account: e.Account, Err: err}
	case DeriveAddress:
		return AddressDerived{Ticket: t, Err: err}
	case BuildProposal:
		return ProposalBuilt{Ticket: t, Err: err}
	case SignProposal:
		return ProposalSigned{Ticket: t, Err: err}
	case Broadcast:
		return Broadcasted{Ticket: t, Err: err}
	case GenerateSeed:
		return SeedGenerated{Ticket: t, Err: err}
	default:
		return TextCopied{Ticket: t, Err: err}
	}
}
