package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kelsos/junction/internal/app"
	"github.com/kelsos/junction/internal/async"
	"github.com/kelsos/junction/internal/effect"
	"github.com/kelsos/junction/internal/logger"
)

// Program runs the wallet UI on top of a scheduler
type Program struct {
	router    app.Router
	initial   []effect.Effect
	scheduler *async.Scheduler
	program   *tea.Program
}

func NewProgram(router app.Router, initial []effect.Effect, scheduler *async.Scheduler) *Program {
	return &Program{
		router:    router,
		initial:   initial,
		scheduler: scheduler,
	}
}

func (p *Program) Start() error {
	if p.scheduler == nil {
		return fmt.Errorf("no scheduler configured")
	}
	model := NewModel(p.router, p.initial, p.scheduler)
	p.program = tea.NewProgram(model, tea.WithAltScreen())
	return nil
}

func (p *Program) AddLog(message string) {
	if p.program != nil {
		p.program.Send(LogMessage{Message: message})
	}
}

// Run blocks until the UI quits, then cancels whatever effects are still
// running.
func (p *Program) Run() error {
	if p.program == nil {
		if err := p.Start(); err != nil {
			return err
		}
	}
	defer p.scheduler.Stop()

	// Send blocks until the event loop is running
	go p.AddLog(fmt.Sprintf("Loaded %d accounts", len(p.router.Accounts())))

	final, err := p.program.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if model, ok := final.(Model); ok {
		if active := model.runner.Active(); len(active) > 0 {
			logger.Info("Cancelling %d running effects: %v", len(active), active)
		}
	}
	return nil
}
