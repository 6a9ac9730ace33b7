package setup

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsos/junction/internal/models"
	"github.com/kelsos/junction/internal/seed"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type fakeSeeds struct {
	err   error
	calls int
}

func (f *fakeSeeds) Generate(network models.Network, _ models.WordCount) (seed.Seed, error) {
	f.calls++
	if f.err != nil {
		return seed.Seed{}, f.err
	}
	return seed.FromMnemonic(strings.Fields(testMnemonic), "", network)
}

func advance(t *testing.T, w Wizard, msgs ...Msg) Wizard {
	t.Helper()
	for _, msg := range msgs {
		var done *models.Account
		w, done = w.Update(msg)
		require.Nil(t, done)
	}
	return w
}

func TestHappyPath(t *testing.T) {
	seeds := &fakeSeeds{}
	w := advance(t, New(seeds),
		NetworkSelected{Network: models.Testnet}, Next{},
		NameChanged{Name: " savings "}, Next{},
		WordCountSelected{WordCount: models.WordsMedium}, Next{},
	)

	step, ok := w.Step().(DisplayWords)
	require.True(t, ok)
	assert.Equal(t, models.Testnet, step.Network)
	assert.Equal(t, models.WordsMedium, step.WordCount)
	assert.Len(t, step.Seed.Words, 12)
	assert.Equal(t, 1, seeds.calls)

	_, account := w.Update(Next{})
	require.NotNil(t, account)
	assert.Equal(t, "savings", account.Name)
	assert.Equal(t, models.Testnet, account.Network)
	assert.Equal(t, step.Seed.MasterKey.String(), account.Key)
	assert.NotEmpty(t, account.ID)
	assert.False(t, account.WatchOnly())
}

func TestNextRequiresSelections(t *testing.T) {
	seeds := &fakeSeeds{}
	w := New(seeds)

	w = advance(t, w, Next{})
	assert.IsType(t, ChooseNetwork{}, w.Step())

	w = advance(t, w, NetworkSelected{Network: models.Regtest}, Next{}, Next{})
	assert.IsType(t, ChooseWordCount{}, w.Step(), "empty names are allowed")

	w = advance(t, w, Next{})
	assert.IsType(t, ChooseWordCount{}, w.Step())
	assert.Zero(t, seeds.calls)
}

func TestBackFromFirstStepIsNoop(t *testing.T) {
	for _, w := range []Wizard{
		New(&fakeSeeds{}),
		advance(t, New(&fakeSeeds{}), NetworkSelected{Network: models.Mainnet}),
	} {
		next, done := w.Update(Back{})
		assert.Nil(t, done)
		assert.Equal(t, w, next)
	}
}

func TestBackKeepsEarlierFields(t *testing.T) {
	w := advance(t, New(&fakeSeeds{}),
		NetworkSelected{Network: models.Mainnet}, Next{},
		NameChanged{Name: "cold"}, Next{},
		WordCountSelected{WordCount: models.WordsHigh}, Next{},
	)

	w = advance(t, w, Back{})
	step, ok := w.Step().(ChooseWordCount)
	require.True(t, ok)
	assert.Equal(t, "cold", step.Name)
	assert.Equal(t, models.Mainnet, step.Network)
	require.NotNil(t, step.WordCount)
	assert.Equal(t, models.WordsHigh, *step.WordCount)

	w = advance(t, w, Back{})
	name, ok := w.Step().(EnterName)
	require.True(t, ok)
	assert.Equal(t, "cold", name.Name)

	w = advance(t, w, Back{})
	network, ok := w.Step().(ChooseNetwork)
	require.True(t, ok)
	require.NotNil(t, network.Network)
	assert.Equal(t, models.Mainnet, *network.Network)
}

func TestSeedFailureKeepsStep(t *testing.T) {
	seeds := &fakeSeeds{err: errors.New("entropy source closed")}
	w := advance(t, New(seeds),
		NetworkSelected{Network: models.Regtest}, Next{},
		Next{},
		WordCountSelected{WordCount: models.WordsLow}, Next{},
	)

	assert.IsType(t, ChooseWordCount{}, w.Step())
	assert.EqualError(t, w.Err(), "entropy source closed")

	seeds.err = nil
	w = advance(t, w, Next{})
	assert.IsType(t, DisplayWords{}, w.Step())
	assert.NoError(t, w.Err())
}

func TestFieldUpdatesOutsideTheirStepAreIgnored(t *testing.T) {
	w := advance(t, New(&fakeSeeds{}), NetworkSelected{Network: models.Testnet}, Next{})
	before := w

	w = advance(t, w,
		NetworkSelected{Network: models.Mainnet},
		WordCountSelected{WordCount: models.WordsHigh},
	)
	assert.Equal(t, before, w)
}

// Random walks over every wizard message: fields carried by the current step
// always match the last value accepted by the step that owns them.
func TestRandomWalksNeverLoseFields(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"", "a", "spending", "cold storage"}

	for walk := 0; walk < 200; walk++ {
		w := New(&fakeSeeds{})
		var (
			network *models.Network
			name    string
			count   *models.WordCount
		)

		for i := 0; i < 40; i++ {
			var msg Msg
			switch rng.Intn(5) {
			case 0:
				msg = Next{}
			case 1:
				msg = Back{}
			case 2:
				msg = NetworkSelected{Network: models.Networks()[rng.Intn(3)]}
			case 3:
				msg = NameChanged{Name: names[rng.Intn(len(names))]}
			case 4:
				msg = WordCountSelected{WordCount: models.WordCounts()[rng.Intn(3)]}
			}

			prev := w.Step()
			w, _ = w.Update(msg)

			switch m := msg.(type) {
			case NetworkSelected:
				if _, ok := prev.(ChooseNetwork); ok {
					n := m.Network
					network = &n
				}
			case NameChanged:
				if _, ok := prev.(EnterName); ok {
					name = m.Name
				}
			case WordCountSelected:
				if _, ok := prev.(ChooseWordCount); ok {
					c := m.WordCount
					count = &c
				}
			case Next:
				switch prev.(type) {
				case ChooseNetwork:
					name = ""
				case EnterName:
					count = nil
				}
			}

			switch step := w.Step().(type) {
			case ChooseNetwork:
				assert.Equal(t, network, step.Network)
			case EnterName:
				assert.Equal(t, *network, step.Network)
				assert.Equal(t, name, step.Name)
			case ChooseWordCount:
				assert.Equal(t, *network, step.Network)
				assert.Equal(t, name, step.Name)
				assert.Equal(t, count, step.WordCount)
			case DisplayWords:
				assert.Equal(t, *network, step.Network)
				assert.Equal(t, name, step.Name)
				assert.Equal(t, *count, step.WordCount)
			}
		}
	}
}
