// Package script runs a game headlessly from a plain-text command list.
//
// One command per line; blank lines and lines starting with # are skipped:
//
//	click [n]        perform the primary action n times
//	buy <id> [n]     attempt n purchases of an upgrade
//	tick [n]         advance n ticks
//	wait <duration>  advance the ticks that fit in a duration of at most 24h
//	state            log a summary of the current state
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-idle/internal/sim"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("script: syntax error")

const (
	// maxRepeat bounds n in one line and the ticks of one wait.
	maxRepeat = 10_000_000
	// maxWait bounds the duration of one wait.
	maxWait = 24 * time.Hour
)

// Op is a script operation.
type Op int

const (
	OpClick Op = iota
	OpBuy
	OpTick
	OpWait
	OpState
)

// Step is one parsed line.
type Step struct {
	Line   int
	Op     Op
	ID     string        // OpBuy
	Repeat int           // OpClick, OpBuy, OpTick
	Wait   time.Duration // OpWait
}

// Parse reads a script.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		step, err := parseLine(line, strings.Fields(text))
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("script: read: %w", err)
	}
	return steps, nil
}

func parseLine(line int, f []string) (Step, error) {
	step := Step{Line: line, Repeat: 1}
	bad := func(format string, args ...any) (Step, error) {
		return Step{}, fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
	}

	args := f[1:]
	switch strings.ToLower(f[0]) {
	case "click":
		step.Op = OpClick
	case "tick":
		step.Op = OpTick
	case "buy":
		step.Op = OpBuy
		if len(args) == 0 {
			return bad("buy needs an upgrade id")
		}
		step.ID, args = args[0], args[1:]
	case "wait":
		step.Op = OpWait
		if len(args) != 1 {
			return bad("wait needs one duration")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil || d < 0 {
			return bad("bad duration %q", args[0])
		}
		if d > maxWait {
			return bad("wait %s is longer than %s", d, maxWait)
		}
		step.Wait = d
		return step, nil
	case "state":
		step.Op = OpState
		if len(args) != 0 {
			return bad("state takes no arguments")
		}
		return step, nil
	default:
		return bad("unknown command %q", f[0])
	}

	switch len(args) {
	case 0:
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > maxRepeat {
			return bad("bad count %q", args[0])
		}
		step.Repeat = n
	default:
		return bad("too many arguments")
	}
	return step, nil
}

// Report summarises a run.
type Report struct {
	Clicks    int
	Ticks     int
	Purchases int
	Rejected  map[string]int // by reason
}

// Run executes steps against g in order. Nothing runs concurrently with a
// step, so the same script on the same scenario always ends the same way.
func Run(g *sim.GameState, steps []Step, logger *log.Logger) Report {
	if logger == nil {
		logger = log.Default()
	}
	rep := Report{Rejected: make(map[string]int)}
	tps := g.Balance().TicksPerSecond

	for _, s := range steps {
		switch s.Op {
		case OpClick:
			for i := 0; i < s.Repeat; i++ {
				g.PerformPrimaryAction()
			}
			rep.Clicks += s.Repeat

		case OpBuy:
			for i := 0; i < s.Repeat; i++ {
				res := g.Purchase(s.ID)
				if !res.OK {
					rep.Rejected[res.Reason.String()]++
					logger.Debug("purchase rejected", "line", s.Line, "id", s.ID, "reason", res.Reason, "price", res.Price)
					break
				}
				rep.Purchases++
				logger.Info("bought", "id", s.ID, "price", res.Price, "count", res.Count)
			}

		case OpTick:
			g.Step(s.Repeat)
			rep.Ticks += s.Repeat

		case OpWait:
			n, capped := waitTicks(s.Wait, tps)
			if capped {
				logger.Warn("wait capped", "line", s.Line, "wait", s.Wait, "ticks", n)
			}
			g.Step(n)
			rep.Ticks += n

		case OpState:
			LogState(logger, g.Snapshot())
		}
	}
	return rep
}

// waitTicks converts d into whole ticks at tps, at most maxRepeat.
func waitTicks(d time.Duration, tps int) (n int, capped bool) {
	whole := int64(d/time.Second) * int64(tps)
	whole += int64(d%time.Second) * int64(tps) / int64(time.Second)
	if whole > maxRepeat {
		return maxRepeat, true
	}
	return int(whole), false
}

// LogState writes the headline numbers of a snapshot.
func LogState(logger *log.Logger, snap sim.Snapshot) {
	logger.Info("state",
		"tick", snap.Tick,
		"clock", snap.Clock.String(),
		"currency", round2(snap.Currency),
		"harm", round2(snap.Harm),
		"tier", snap.Tier.Label,
		"currency_per_s", round2(snap.Rates.CurrencyPerSecond),
		"harm_per_s", round2(snap.Rates.HarmPerSecond),
	)
}

func round2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
