package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsos/junction/internal/account"
	"github.com/kelsos/junction/internal/effect"
	"github.com/kelsos/junction/internal/logger"
	"github.com/kelsos/junction/internal/models"
	"github.com/kelsos/junction/internal/seed"
	"github.com/kelsos/junction/internal/send"
	"github.com/kelsos/junction/internal/setup"
	"github.com/kelsos/junction/internal/wallet"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type fixedSeeds struct{}

func (fixedSeeds) Generate(network models.Network, _ models.WordCount) (seed.Seed, error) {
	return seed.FromMnemonic(strings.Fields(testMnemonic), "", network)
}

func demo(t *testing.T, n int) []models.Account {
	t.Helper()
	accounts, err := wallet.DemoAccounts(n, models.Regtest)
	require.NoError(t, err)
	return accounts
}

func newRouter(t *testing.T, n int) Router {
	t.Helper()
	r, _ := New(demo(t, n), Options{Seeds: fixedSeeds{}, Page: account.Options{MaxAddresses: 10}})
	return r
}

func page(t *testing.T, r Router) account.Page {
	t.Helper()
	s, ok := r.Screen().(ShowingAccount)
	require.True(t, ok, "expected an account page, got %T", r.Screen())
	return s.Page
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(nil) })
	return &buf
}

func TestNewWithoutAccountsShowsWizard(t *testing.T) {
	r, effects := New(nil, Options{Seeds: fixedSeeds{}})
	assert.Empty(t, effects)
	assert.IsType(t, ShowingWizard{}, r.Screen())
	_, ok := r.Current()
	assert.False(t, ok)
}

func TestNewOpensFirstAccountAndSyncs(t *testing.T) {
	accounts := demo(t, 2)
	r, effects := New(accounts, Options{})

	require.Len(t, effects, 1)
	sync, ok := effects[0].(effect.SyncAccount)
	require.True(t, ok)
	assert.Equal(t, accounts[0].ID, sync.Account.ID)

	current, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, accounts[0].ID, current.ID)
}

func TestWizardCompletionOpensNewAccount(t *testing.T) {
	r := newRouter(t, 1)
	r, effects := r.Update(CreateAccountRequested{})
	assert.Empty(t, effects)
	require.IsType(t, ShowingWizard{}, r.Screen())

	for _, msg := range []setup.Msg{
		setup.NetworkSelected{Network: models.Regtest}, setup.Next{},
		setup.NameChanged{Name: "fresh"}, setup.Next{},
		setup.WordCountSelected{WordCount: models.WordsLow}, setup.Next{},
	} {
		r, effects = r.Update(msg)
		require.Empty(t, effects)
	}
	require.IsType(t, ShowingWizard{}, r.Screen())

	r, effects = r.Update(setup.Next{})
	require.Len(t, effects, 1)
	assert.IsType(t, effect.SyncAccount{}, effects[0])

	current, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, "fresh", current.Name)
	require.Len(t, r.Accounts(), 2)
	assert.Equal(t, current.ID, r.Accounts()[1].ID)
}

func TestWizardCompletedOutsideWizardIsDropped(t *testing.T) {
	buf := captureLogs(t)
	r := newRouter(t, 1)
	stray := models.NewAccount("stray", models.Regtest, "key")

	next, effects := r.Update(WizardCompleted{Account: stray})
	assert.Empty(t, effects)
	assert.Equal(t, r, next)
	assert.Len(t, next.Accounts(), 1)
	assert.Contains(t, buf.String(), "outside the wizard")
}

func TestProtocolViolationsAreLoggedAndDropped(t *testing.T) {
	buf := captureLogs(t)

	r := newRouter(t, 1)
	next, effects := r.Update(setup.Next{})
	assert.Empty(t, effects)
	assert.Equal(t, r, next)
	assert.Contains(t, buf.String(), "wizard message")

	buf.Reset()
	r, _ = r.Update(CreateAccountRequested{})
	next, effects = r.Update(send.SendRequested{})
	assert.Empty(t, effects)
	assert.Equal(t, r, next)
	assert.Contains(t, buf.String(), "account message")
}

func TestResultsForReplacedPagesAreDropped(t *testing.T) {
	accounts := demo(t, 2)
	r, effects := New(accounts, Options{})
	first := effects[0].(effect.SyncAccount)

	r, _ = r.Update(AccountSelected{Account: accounts[1]})
	second := page(t, r)
	require.NotEqual(t, first.Ticket.Page, second.ID())

	stale := accounts[0].Clone()
	balance := btcutil.Amount(1)
	stale.Balance = &balance
	next, effects := r.Update(effect.AccountSynced{Ticket: first.Ticket, Account: stale})
	assert.Empty(t, effects)
	assert.Equal(t, r, next)
	assert.True(t, page(t, next).Syncing())
}

func TestResultsAfterSwitchingToWizardAreDropped(t *testing.T) {
	r, effects := New(demo(t, 1), Options{Seeds: fixedSeeds{}})
	sync := effects[0].(effect.SyncAccount)

	r, _ = r.Update(CreateAccountRequested{})
	next, effects := r.Update(effect.AccountSynced{Ticket: sync.Ticket, Account: sync.Account})
	assert.Empty(t, effects)
	assert.Equal(t, r, next)
}

func TestCycleThroughAccounts(t *testing.T) {
	accounts := demo(t, 3)
	r := newRouter(t, 3)

	ids := func(r Router) string {
		current, ok := r.Current()
		require.True(t, ok)
		return current.ID
	}

	r, effects := r.Update(SelectNextAccount{})
	require.Len(t, effects, 1)
	assert.Equal(t, accounts[1].ID, ids(r))

	r, _ = r.Update(SelectNextAccount{})
	r, _ = r.Update(SelectNextAccount{})
	assert.Equal(t, accounts[0].ID, ids(r))

	r, _ = r.Update(SelectPreviousAccount{})
	assert.Equal(t, accounts[2].ID, ids(r))

	r, _ = r.Update(CreateAccountRequested{})
	r, _ = r.Update(SelectPreviousAccount{})
	assert.Equal(t, accounts[2].ID, ids(r))
}

func TestCycleWithSingleAccountKeepsPage(t *testing.T) {
	r := newRouter(t, 1)
	next, effects := r.Update(SelectNextAccount{})
	assert.Empty(t, effects)
	assert.Equal(t, r, next)
}

func TestLeavingPageKeepsSyncedSnapshot(t *testing.T) {
	accounts := demo(t, 2)
	r, effects := New(accounts, Options{})
	sync := effects[0].(effect.SyncAccount)

	fresh := sync.Account.Clone()
	balance := btcutil.Amount(2500)
	fresh.Balance = &balance
	fresh.Transactions = []models.Transaction{}
	r, _ = r.Update(effect.AccountSynced{Ticket: sync.Ticket, Account: fresh})

	r, _ = r.Update(SelectNextAccount{})
	cached := r.Accounts()[0]
	require.NotNil(t, cached.Balance)
	assert.EqualValues(t, 2500, *cached.Balance)
}

func TestPageMessagesReachActivePage(t *testing.T) {
	r := newRouter(t, 1)
	r, effects := r.Update(account.NavigateTo{View: account.ViewReceive})
	require.Len(t, effects, 1)
	assert.IsType(t, effect.DeriveAddress{}, effects[0])
	assert.Equal(t, account.ViewReceive, page(t, r).View().Kind())
}
