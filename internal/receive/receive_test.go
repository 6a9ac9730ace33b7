package receive

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsos/junction/internal/effect"
	"github.com/kelsos/junction/internal/models"
	"github.com/kelsos/junction/internal/wallet"
)

var ticket = effect.Ticket{Page: 2, View: 5}

func derived(t *testing.T) View {
	t.Helper()
	accounts, err := wallet.DemoAccounts(1, models.Testnet)
	require.NoError(t, err)

	v, effects := New(ticket, accounts[0])
	require.Len(t, effects, 1)
	require.IsType(t, effect.DeriveAddress{}, effects[0])
	require.True(t, v.Deriving())

	addr, err := wallet.DeriveReceiveAddress(accounts[0], 0)
	require.NoError(t, err)
	v, _ = v.Update(effect.AddressDerived{Ticket: ticket, Address: addr})
	require.False(t, v.Deriving())
	return v
}

func TestDerivationFailureIsRecoverable(t *testing.T) {
	v, _ := New(ticket, models.Account{Name: "broken"})

	v, effects := v.Update(effect.AddressDerived{Ticket: ticket, Err: wallet.ErrInvalidKey})

	assert.Empty(t, effects)
	assert.ErrorIs(t, v.Err(), wallet.ErrInvalidKey)
	assert.Nil(t, v.Address())

	v, effects = v.Update(CopyRequested{})
	assert.Empty(t, effects, "nothing to copy without an address")
}

func TestStaleDerivationIsDropped(t *testing.T) {
	v, _ := New(ticket, models.Account{})
	next, _ := v.Update(effect.AddressDerived{Ticket: effect.Ticket{Page: 2, View: 4}, Err: errors.New("old")})
	assert.Equal(t, v, next)
}

func TestCopyAddress(t *testing.T) {
	v := derived(t)

	v, effects := v.Update(CopyRequested{})
	require.Len(t, effects, 1)
	cp, ok := effects[0].(effect.CopyText)
	require.True(t, ok)
	assert.Equal(t, v.Address().EncodeAddress(), cp.Text)
	assert.Equal(t, CopyPending, v.CopyStatus())

	_, effects = v.Update(CopyRequested{})
	assert.Empty(t, effects, "one copy at a time")

	v, _ = v.Update(effect.TextCopied{Ticket: ticket})
	assert.Equal(t, CopyDone, v.CopyStatus())
}

func TestCopyFailureOnlyChangesStatus(t *testing.T) {
	v := derived(t)
	v, _ = v.Update(CopyRequested{})
	v, _ = v.Update(effect.TextCopied{Ticket: ticket, Err: errors.New("no display")})

	assert.Equal(t, CopyFailed, v.CopyStatus())
	assert.NoError(t, v.Err())
	assert.NotNil(t, v.Address())
}
