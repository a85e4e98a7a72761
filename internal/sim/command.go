package sim

// Command is a mutation funnelled through GameState.Apply. Player input and
// scheduler ticks take the same path, so each one runs to completion before
// the next is looked at.
type Command interface {
	Name() string
}

// PrimaryAction is one click.
type PrimaryAction struct{}

func (PrimaryAction) Name() string { return "PrimaryAction" }

// Buy purchases one unit of an upgrade.
type Buy struct {
	ID string
}

func (Buy) Name() string { return "Buy" }

// Tick advances the world by Count discrete ticks.
type Tick struct {
	Count int
}

func (Tick) Name() string { return "Tick" }

// Outcome reports what a command did.
type Outcome struct {
	Changed  bool
	Ticks    int
	Purchase PurchaseResult
}
