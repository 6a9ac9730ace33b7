package send

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelsos/junction/internal/effect"
	"github.com/kelsos/junction/internal/logger"
	"github.com/kelsos/junction/internal/models"
)

// ErrCouldNotFinalize means signing worked but left the proposal incomplete.
// Retrying the broadcast cannot help; the key material has to be checked.
var ErrCouldNotFinalize = errors.New("could not finalize")

const (
	BadAddress = "Bad address"
	BadAmount  = "Bad amount"
)

type Stage int

const (
	StageEditing Stage = iota
	StageBuilding
	StageSigning
	StageBroadcasting
	StageSucceeded
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageEditing:
		return "editing"
	case StageBuilding:
		return "building"
	case StageSigning:
		return "signing"
	case StageBroadcasting:
		return "broadcasting"
	case StageSucceeded:
		return "succeeded"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Failure is the terminal error of a pipeline, tagged with the stage that
// produced it.
type Failure struct {
	Stage Stage
	Err   error
}

func (f Failure) Reason() string {
	return f.Err.Error()
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s failed: %v", f.Stage, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Msg is implemented by the user input the send view accepts
type Msg interface {
	sendMsg()
}

type AddressChanged struct{ Text string }

type AmountChanged struct{ Text string }

type SendRequested struct{}

// AccountUpdated carries a fresh account snapshot from the account page
type AccountUpdated struct{ Account models.Account }

func (AddressChanged) sendMsg() {}
func (AmountChanged) sendMsg()  {}
func (SendRequested) sendMsg()  {}
func (AccountUpdated) sendMsg() {}

// Request is a parsed and validated send
type Request struct {
	Address btcutil.Address
	Amount  btcutil.Amount
}

// Pipeline drives one send from text fields to a broadcast transaction
type Pipeline struct {
	ticket  effect.Ticket
	account models.Account

	address string
	amount  string
	request *Request

	stage    Stage
	inFlight bool
	invalid  string
	failure  *Failure
	txid     models.Txid
}

func New(ticket effect.Ticket, account models.Account) Pipeline {
	return Pipeline{
		ticket:  ticket,
		account: account,
		stage:   StageEditing,
	}
}

func (p Pipeline) Ticket() effect.Ticket   { return p.ticket }
func (p Pipeline) Account() models.Account { return p.account }
func (p Pipeline) Stage() Stage            { return p.stage }
func (p Pipeline) InFlight() bool          { return p.inFlight }
func (p Pipeline) Address() string         { return p.address }
func (p Pipeline) Amount() string          { return p.amount }

// Request returns the validated request once a send has been accepted
func (p Pipeline) Request() (Request, bool) {
	if p.request == nil {
		return Request{}, false
	}
	return *p.request, true
}

func (p Pipeline) Failure() (Failure, bool) {
	if p.failure == nil {
		return Failure{}, false
	}
	return *p.failure, true
}

func (p Pipeline) Txid() (models.Txid, bool) {
	return p.txid, p.stage == StageSucceeded
}

// Error is the most recent user-facing error, validation or stage failure
func (p Pipeline) Error() string {
	if p.failure != nil {
		return p.failure.Reason()
	}
	return p.invalid
}

func (p Pipeline) Update(msg tea.Msg) (Pipeline, []effect.Effect) {
	switch msg := msg.(type) {
	case AddressChanged:
		if p.stage == StageEditing {
			p.address = msg.Text
			p.invalid = ""
		}
		return p, nil

	case AmountChanged:
		if p.stage == StageEditing {
			p.amount = msg.Text
			p.invalid = ""
		}
		return p, nil

	case AccountUpdated:
		p.account = msg.Account
		return p, nil

	case SendRequested:
		return p.handleSendRequested()

	case effect.ProposalBuilt:
		if !p.expects(msg, StageBuilding) {
			return p, nil
		}
		return p.handleProposalBuilt(msg)

	case effect.ProposalSigned:
		if !p.expects(msg, StageSigning) {
			return p, nil
		}
		return p.handleProposalSigned(msg)

	case effect.Broadcasted:
		if !p.expects(msg, StageBroadcasting) {
			return p, nil
		}
		return p.handleBroadcasted(msg)
	}

	return p, nil
}

// expects reports whether result is the one the pipeline is waiting for.
// Anything else is a leftover of an abandoned attempt and is dropped.
func (p Pipeline) expects(result effect.Result, stage Stage) bool {
	if result.Owner() != p.ticket || !p.inFlight || p.stage != stage {
		logger.Debug("Send %s dropped %T while %s", p.ticket, result, p.stage)
		return false
	}
	return true
}

func (p Pipeline) handleSendRequested() (Pipeline, []effect.Effect) {
	if p.inFlight || p.stage != StageEditing {
		return p, nil
	}

	params := p.account.Network.Params()
	addr, err := btcutil.DecodeAddress(strings.TrimSpace(p.address), params)
	if err != nil || !addr.IsForNet(params) {
		p.invalid = BadAddress
		return p, nil
	}

	sats, err := strconv.ParseInt(strings.TrimSpace(p.amount), 10, 64)
	if err != nil || sats <= 0 {
		p.invalid = BadAmount
		return p, nil
	}

	p.request = &Request{Address: addr, Amount: btcutil.Amount(sats)}
	p.invalid = ""
	p.inFlight = true
	p.stage = StageBuilding

	return p, []effect.Effect{effect.BuildProposal{
		Ticket:  p.ticket,
		Account: p.account.Clone(),
		Address: addr,
		Amount:  p.request.Amount,
	}}
}

func (p Pipeline) handleProposalBuilt(msg effect.ProposalBuilt) (Pipeline, []effect.Effect) {
	if msg.Err != nil {
		return p.fail(StageBuilding, msg.Err), nil
	}

	p.stage = StageSigning
	return p, []effect.Effect{effect.SignProposal{
		Ticket:   p.ticket,
		Account:  p.account.Clone(),
		Proposal: msg.Proposal,
	}}
}

func (p Pipeline) handleProposalSigned(msg effect.ProposalSigned) (Pipeline, []effect.Effect) {
	if msg.Err != nil {
		return p.fail(StageSigning, msg.Err), nil
	}
	if !msg.Finalized {
		return p.fail(StageSigning, ErrCouldNotFinalize), nil
	}

	p.stage = StageBroadcasting
	return p, []effect.Effect{effect.Broadcast{
		Ticket:   p.ticket,
		Account:  p.account.Clone(),
		Proposal: msg.Proposal,
	}}
}

func (p Pipeline) handleBroadcasted(msg effect.Broadcasted) (Pipeline, []effect.Effect) {
	if msg.Err != nil {
		return p.fail(StageBroadcasting, msg.Err), nil
	}

	p.stage = StageSucceeded
	p.inFlight = false
	p.txid = msg.Txid
	logger.Info("Send %s succeeded with txid %s", p.ticket, msg.Txid)
	return p, nil
}

func (p Pipeline) fail(stage Stage, err error) Pipeline {
	p.stage = StageFailed
	p.inFlight = false
	p.failure = &Failure{Stage: stage, Err: err}
	logger.Warn("Send %s failed at %s: %v", p.ticket, stage, err)
	return p
}
