// Package setup implements the account creation wizard. Each step is its own
// type holding exactly what the earlier steps collected, so a later step
// cannot exist without its inputs.
package setup

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelsos/junction/internal/logger"
	"github.com/kelsos/junction/internal/models"
	"github.com/kelsos/junction/internal/seed"
)

var ErrNoSeed = errors.New("seed generation returned no master key")

type Step interface {
	// Index is the position of the step, starting at 0
	Index() int
	Title() string
}

type ChooseNetwork struct {
	Network *models.Network
}

type EnterName struct {
	Network models.Network
	Name    string
}

type ChooseWordCount struct {
	Network   models.Network
	Name      string
	WordCount *models.WordCount
}

type DisplayWords struct {
	Network   models.Network
	Name      string
	WordCount models.WordCount
	Seed      seed.Seed
}

func (ChooseNetwork) Index() int   { return 0 }
func (EnterName) Index() int       { return 1 }
func (ChooseWordCount) Index() int { return 2 }
func (DisplayWords) Index() int    { return 3 }

func (ChooseNetwork) Title() string   { return "Choose Network" }
func (EnterName) Title() string       { return "Name" }
func (ChooseWordCount) Title() string { return "How Many Words" }
func (DisplayWords) Title() string    { return "Display Words" }

// Msg is implemented by every message the wizard accepts
type Msg interface {
	setupMsg()
}

type Next struct{}

type Back struct{}

type NetworkSelected struct{ Network models.Network }

type NameChanged struct{ Name string }

type WordCountSelected struct{ WordCount models.WordCount }

func (Next) setupMsg()              {}
func (Back) setupMsg()              {}
func (NetworkSelected) setupMsg()   {}
func (NameChanged) setupMsg()       {}
func (WordCountSelected) setupMsg() {}

type Wizard struct {
	step  Step
	seeds seed.Generator
	err   error
}

func New(seeds seed.Generator) Wizard {
	return Wizard{step: ChooseNetwork{}, seeds: seeds}
}

func (w Wizard) Step() Step { return w.step }

// Err is the last seed generation failure, cleared by any later transition
func (w Wizard) Err() error { return w.err }

// Update applies msg and returns the completed account when Next is pressed
// on the last step. The wizard itself never leaves that step; the parent
// decides what completion means.
func (w Wizard) Update(msg tea.Msg) (Wizard, *models.Account) {
	switch msg := msg.(type) {
	case Next:
		return w.next()
	case Back:
		return w.back(), nil
	case NetworkSelected:
		if step, ok := w.step.(ChooseNetwork); ok && msg.Network.Valid() {
			network := msg.Network
			step.Network = &network
			w.step = step
		}
	case NameChanged:
		if step, ok := w.step.(EnterName); ok {
			step.Name = msg.Name
			w.step = step
		}
	case WordCountSelected:
		if step, ok := w.step.(ChooseWordCount); ok && msg.WordCount.Valid() {
			count := msg.WordCount
			step.WordCount = &count
			w.step = step
		}
	}
	return w, nil
}

func (w Wizard) next() (Wizard, *models.Account) {
	switch step := w.step.(type) {
	case ChooseNetwork:
		if step.Network == nil {
			return w, nil
		}
		w.step = EnterName{Network: *step.Network}

	case EnterName:
		w.step = ChooseWordCount{Network: step.Network, Name: step.Name}

	case ChooseWordCount:
		if step.WordCount == nil {
			return w, nil
		}
		generated, err := w.generate(step.Network, *step.WordCount)
		if err != nil {
			logger.Error("Seed generation failed: %v", err)
			w.err = err
			return w, nil
		}
		w.err = nil
		w.step = DisplayWords{
			Network:   step.Network,
			Name:      step.Name,
			WordCount: *step.WordCount,
			Seed:      generated,
		}

	case DisplayWords:
		account := models.NewAccount(strings.TrimSpace(step.Name), step.Network, step.Seed.MasterKey.String())
		logger.Info("Setup complete for %s", account)
		return w, &account
	}
	return w, nil
}

func (w Wizard) back() Wizard {
	switch step := w.step.(type) {
	case ChooseNetwork:
		logger.Debug("Can't go back from the first setup step")
		return w
	case EnterName:
		network := step.Network
		w.step = ChooseNetwork{Network: &network}
	case ChooseWordCount:
		w.step = EnterName{Network: step.Network, Name: step.Name}
	case DisplayWords:
		count := step.WordCount
		w.step = ChooseWordCount{Network: step.Network, Name: step.Name, WordCount: &count}
	}
	w.err = nil
	return w
}

func (w Wizard) generate(network models.Network, count models.WordCount) (seed.Seed, error) {
	if w.seeds == nil {
		return seed.Seed{}, ErrNoSeed
	}
	generated, err := w.seeds.Generate(network, count)
	if err != nil {
		return seed.Seed{}, err
	}
	if generated.MasterKey == nil {
		return seed.Seed{}, ErrNoSeed
	}
	return generated, nil
}
