package repair

import (
	"fmt"
	"sort"

	"github.com/fuzzyjson/fuzzyjson/internal/strictjson"
	"github.com/sirupsen/logrus"
)

// Engine wires a set of Handlers and Strategies together with Options
// and drives the one-pass repair loop. It holds no state of its own
// across calls to Repair — everything mutable lives in a fresh State
// per call — so one Engine is safe to reuse and to share across
// goroutines.
type Engine struct {
	Handlers   []Handler
	Strategies []Strategy
	Options    Options
	Log        logrus.FieldLogger
}

// NewEngine builds an Engine from opts, using the default handler and
// strategy sets (gated by opts where a flag says so) sorted stably by
// descending priority. log may be nil, in which case a disabled logger
// is used.
func NewEngine(opts Options, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = silentLogger()
	}
	return &Engine{
		Handlers:   DefaultHandlers(opts),
		Strategies: sortedStrategies(DefaultStrategies(opts)),
		Options:    opts,
		Log:        log,
	}
}

func silentLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return l
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func sortedStrategies(strategies []Strategy) []Strategy {
	sorted := make([]Strategy, len(strategies))
	copy(sorted, strategies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return sorted
}

// SortStrategies sorts strategies by descending priority using a stable
// sort, so equal-priority strategies keep their relative order. Exported
// so callers that add their own strategies to an existing Engine (see
// Engine.Strategies) can re-sort the merged set the same way NewEngine
// does internally.
func SortStrategies(strategies []Strategy) []Strategy {
	return sortedStrategies(strategies)
}

// Repair rewrites text into valid JSON if it isn't already. It first
// tries a strict parse (the cheap path for input that's already well
// formed), then — unless Options.AutoRepair is false — runs the
// character-driven main loop of handlers and strategies while input
// remains (or until a handler returns stop=true), a single postlude strategy pass to close any scope still open
// once input is exhausted, and a final re-parse to confirm the result is
// actually valid.
//
// If, at any position before the input is exhausted, neither a handler
// nor a strategy can make progress, Repair returns a *StuckError
// immediately rather than forcing a close-out — this is the one place
// the engine hard-rejects a defect it doesn't recognize at all, as
// opposed to one it recognizes but fails to fully resolve
// (ErrRepairFailed).
func (e *Engine) Repair(text string) (string, error) {
	if _, err := strictjson.ParseString(text); err == nil {
		return text, nil
	}

	if !e.Options.AutoRepair {
		return "", fmt.Errorf("%w", ErrNotRepaired)
	}

	s := NewState(text)
	attempts := 0

	for !s.IsFinished() {
		if attempts >= e.Options.MaxRepairAttempts {
			return "", fmt.Errorf("%w: exceeded %d attempts at rune position %d", ErrRepairFailed, e.Options.MaxRepairAttempts, s.Position())
		}
		attempts++

		handled, stop := e.tryHandlers(s)
		if stop {
			break
		}
		if handled {
			continue
		}
		if e.tryStrategies(s, "") {
			continue
		}

		ch, hasChar := s.CurrentChar()
		e.Log.WithField("position", s.Position()).WithField("context", s.CurrentContext()).Debug("repair: no handler or strategy made progress")
		return "", &StuckError{Position: s.Position(), Context: s.CurrentContext(), Char: ch, HasChar: hasChar}
	}

	if s.CurrentContext() != Root {
		e.tryStrategies(s, "")
	}

	repaired := s.Output()
	if _, err := strictjson.ParseString(repaired); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRepairFailed, err)
	}
	return repaired, nil
}

func (e *Engine) tryHandlers(s *State) (handled, stop bool) {
	for _, h := range e.Handlers {
		if !h.CanHandle(s) {
			continue
		}
		before := s.Position()
		stop, err := h.Handle(s)
		if err != nil {
			continue
		}
		if stop {
			return true, true
		}
		if s.Position() != before || s.IsFinished() {
			return true, false
		}
	}
	return false, false
}

func (e *Engine) tryStrategies(s *State, errText string) bool {
	for _, strat := range e.Strategies {
		if !strat.CanRepair(s, errText) {
			continue
		}
		before := s.Position()
		beforeLen := len(s.Output())
		if err := strat.Repair(s, errText); err != nil {
			continue
		}
		if s.Position() != before || len(s.Output()) != beforeLen {
			return true
		}
	}
	return false
}
