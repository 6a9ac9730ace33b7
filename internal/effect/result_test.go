package effect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kelsos/junction/internal/models"
)

func TestFailureMatchesEffect(t *testing.T) {
	boom := errors.New("boom")
	ticket := Ticket{Page: 3, View: 4}
	account := models.Account{ID: "a1"}

	tests := []struct {
		effect Effect
		want   Result
	}{
		{SyncAccount{Ticket: ticket, Account: account}, AccountSynced{Ticket: ticket, Account: account, Err: boom}},
		{DeriveAddress{Ticket: ticket}, AddressDerived{Ticket: ticket, Err: boom}},
		{BuildProposal{Ticket: ticket}, ProposalBuilt{Ticket: ticket, Err: boom}},
		{SignProposal{Ticket: ticket}, ProposalSigned{Ticket: ticket, Err: boom}},
		{Broadcast{Ticket: ticket}, Broadcasted{Ticket: ticket, Err: boom}},
		{GenerateSeed{Ticket: ticket}, SeedGenerated{Ticket: ticket, Err: boom}},
		{CopyText{Ticket: ticket, Text: "x"}, TextCopied{Ticket: ticket, Err: boom}},
	}

	for _, tt := range tests {
		t.Run(string(tt.effect.Kind()), func(t *testing.T) {
			got := Failure(tt.effect, boom)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, ticket, got.Owner())
			assert.ErrorIs(t, got.Failed(), boom)
		})
	}
}

func TestTicketString(t *testing.T) {
	assert.NotEqual(t, Ticket{Page: 1, View: 2}.String(), Ticket{Page: 2, View: 1}.String())
}
