package rope

import (
	"log/slog"
	"math/bits"
	"slices"
)

// BuildPhase identifies a stage of bulk construction.
type BuildPhase uint8

const (
	// BuildLeaves is the chunking of flat text into leaves.
	BuildLeaves BuildPhase = iota
	// BuildLevels is the pairwise joining of subtrees, one level at a time.
	BuildLevels
)

// String returns the phase name.
func (p BuildPhase) String() string {
	switch p {
	case BuildLeaves:
		return "leaves"
	case BuildLevels:
		return "levels"
	default:
		return "unknown"
	}
}

// BuildProgress reports how far a bulk build has come.
type BuildProgress struct {
	Phase BuildPhase
	Done  int
	Total int
}

// BuildObserver is called synchronously during bulk construction.
type BuildObserver func(BuildProgress)

// build creates a balanced tree over text. Leaves are cut at
// cfg.ChunkLength and then joined pairwise, level by level, so every join
// is between trees of nearly equal height.
func build(text []rune, cfg *Config) *Node {
	if len(text) == 0 {
		return newLeaf(nil, cfg)
	}

	chunk := cfg.ChunkLength()
	leaves := (len(text) + chunk - 1) / chunk
	notify := func(phase BuildPhase, done, total int) {
		if cfg.Observer != nil {
			cfg.Observer(BuildProgress{Phase: phase, Done: done, Total: total})
		}
	}

	level := make([]*Node, 0, leaves)
	for start := 0; start < len(text); start += chunk {
		end := min(start+chunk, len(text))
		level = append(level, newLeaf(slices.Clone(text[start:end]), cfg))
		notify(BuildLeaves, len(level), leaves)
	}

	levels := bits.Len(uint(leaves - 1))
	for done := 0; len(level) > 1; {
		next := level[:0]
		for i := 0; i+1 < len(level); i += 2 {
			next = append(next, level[i].append(level[i+1]))
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		level = next
		done++
		notify(BuildLevels, done, levels)
	}
	return level[0]
}

// LogProgress returns a BuildObserver that logs build progress to logger
// at debug level, once per tenth of each phase and on completion.
func LogProgress(logger *slog.Logger) BuildObserver {
	if logger == nil {
		logger = slog.Default()
	}
	lastDecile := -1
	lastPhase := BuildPhase(255)
	return func(p BuildProgress) {
		if p.Phase != lastPhase {
			lastPhase, lastDecile = p.Phase, -1
		}
		decile := 10
		if p.Total > 0 {
			decile = p.Done * 10 / p.Total
		}
		if decile == lastDecile && p.Done != p.Total {
			return
		}
		lastDecile = decile
		logger.Debug("rope build progress",
			"phase", p.Phase.String(),
			"done", p.Done,
			"total", p.Total)
	}
}
