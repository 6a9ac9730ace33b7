package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelsos/junction/internal/effect"
	"github.com/kelsos/junction/internal/logger"
	"github.com/kelsos/junction/internal/seed"
	"github.com/kelsos/junction/internal/wallet"
)

var ErrUnsupportedEffect = errors.New("unsupported effect")

type TaskID int

// Clipboard is the system clipboard as seen by the receive view
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Scheduler runs effect descriptions off the UI loop. Every issued effect
// yields exactly one result, including when the collaborator panics or the
// scheduler is stopped.
type Scheduler struct {
	wallet    wallet.Service
	seeds     seed.Generator
	clipboard Clipboard
	timeout   time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.RWMutex
	activeTasks map[TaskID]effect.Kind
	nextID      TaskID
}

type Option func(*Scheduler)

func WithClipboard(c Clipboard) Option {
	return func(s *Scheduler) { s.clipboard = c }
}

func WithSeedGenerator(g seed.Generator) Option {
	return func(s *Scheduler) { s.seeds = g }
}

// WithTimeout bounds every effect; zero means no limit
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.timeout = d }
}

func NewScheduler(svc wallet.Service, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		wallet:      svc,
		seeds:       seed.BIP39{},
		clipboard:   systemClipboard{},
		ctx:         ctx,
		cancel:      cancel,
		activeTasks: make(map[TaskID]effect.Kind),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue starts e in its own goroutine. The returned channel receives exactly
// one result and is then closed.
func (s *Scheduler) Issue(e effect.Effect) <-chan effect.Result {
	resultChan := make(chan effect.Result, 1)

	s.mu.Lock()
	s.nextID++
	taskID := s.nextID
	s.activeTasks[taskID] = e.Kind()
	s.mu.Unlock()

	logger.Debug("Issued task %d (%s) for %s", taskID, e.Kind(), e.Owner())

	go func() {
		result := s.run(e)

		s.mu.Lock()
		delete(s.activeTasks, taskID)
		s.mu.Unlock()

		logger.Debug("Task %d (%s) completed", taskID, e.Kind())
		resultChan <- result
		close(resultChan)
	}()

	return resultChan
}

// Await issues e and blocks until its result is available
func (s *Scheduler) Await(e effect.Effect) effect.Result {
	return <-s.Issue(e)
}

// Command wraps e for the bubbletea runtime, which runs it off the loop and
// feeds the result back to Update.
func (s *Scheduler) Command(e effect.Effect) tea.Cmd {
	return func() tea.Msg {
		return s.Await(e)
	}
}

func (s *Scheduler) Commands(effects []effect.Effect) tea.Cmd {
	if len(effects) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, e := range effects {
		cmds = append(cmds, s.Command(e))
	}
	return tea.Batch(cmds...)
}

// Active returns the kinds of the effects still running
func (s *Scheduler) Active() []effect.Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kinds := make([]effect.Kind, 0, len(s.activeTasks))
	for _, kind := range s.activeTasks {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Stop cancels the context shared by every running effect. Effects issued
// afterwards fail immediately.
func (s *Scheduler) Stop() {
	s.cancel()
}

func (s *Scheduler) run(e effect.Effect) (result effect.Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Effect %s panicked: %v", e.Kind(), r)
			result = effect.Failure(e, fmt.Errorf("%s panicked: %v", e.Kind(), r))
		}
	}()

	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return effect.Failure(e, fmt.Errorf("%s not started: %w", e.Kind(), err))
	}

	return s.execute(ctx, e)
}

func (s *Scheduler) execute(ctx context.Context, e effect.Effect) effect.Result {
	switch e := e.(type) {
	case effect.SyncAccount:
		account, err := wallet.Refresh(ctx, s.wallet, e.Account, e.MaxAddresses)
		return effect.AccountSynced{Ticket: e.Ticket, Account: account, Err: err}

	case effect.DeriveAddress:
		addr, err := s.wallet.DeriveAddress(ctx, e.Account)
		return effect.AddressDerived{Ticket: e.Ticket, Address: addr, Err: err}

	case effect.BuildProposal:
		proposal, err := s.wallet.BuildProposal(ctx, e.Account, e.Address, e.Amount)
		return effect.ProposalBuilt{Ticket: e.Ticket, Proposal: proposal, Err: err}

	case effect.SignProposal:
		proposal, finalized, err := s.wallet.Sign(ctx, e.Account, e.Proposal)
		return effect.ProposalSigned{Ticket: e.Ticket, Proposal: proposal, Finalized: finalized, Err: err}

	case effect.Broadcast:
		txid, err := s.wallet.Broadcast(ctx, e.Account, e.Proposal)
		return effect.Broadcasted{Ticket: e.Ticket, Txid: txid, Err: err}

	case effect.GenerateSeed:
		generated, err := s.seeds.Generate(e.Network, e.WordCount)
		return effect.SeedGenerated{Ticket: e.Ticket, Seed: generated, Err: err}

	case effect.CopyText:
		return effect.TextCopied{Ticket: e.Ticket, Err: s.clipboard.WriteAll(e.Text)}

	default:
		return effect.Failure(e, fmt.Errorf("%w: %s", ErrUnsupportedEffect, e.Kind()))
	}
}
