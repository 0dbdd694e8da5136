package canopy

import (
	"fmt"
	"os"
	"time"
)

// globalDebug enables tree sanity checks in Add. Set by Renderer.SetDebugMode.
var globalDebug bool

// frameStats holds per-frame phase timings and counters.
// Only logged when the renderer is in debug mode.
type frameStats struct {
	gatherTime   time.Duration
	sortTime     time.Duration
	cullTime     time.Duration
	dispatchTime time.Duration
	updateTime   time.Duration
	drawTime     time.Duration
	gathered     int
	culled       int
	drawCalls    int
}

func (s frameStats) total() time.Duration {
	return s.gatherTime + s.sortTime + s.cullTime + s.dispatchTime + s.updateTime + s.drawTime
}

// debugLog prints timing and draw-call stats to stderr.
func (r *Renderer) debugLog(stats frameStats) {
	if !r.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[canopy] gather: %v | sort: %v | cull: %v | dispatch: %v | update: %v | draw: %v | total: %v\n",
		stats.gatherTime, stats.sortTime, stats.cullTime, stats.dispatchTime,
		stats.updateTime, stats.drawTime, stats.total())
	_, _ = fmt.Fprintf(os.Stderr,
		"[canopy] objects: %d | culled: %d | draw calls: %d\n",
		stats.gathered, stats.culled, stats.drawCalls)
}

// debugCheckDestroyed panics when a destroyed object is used in a tree
// operation. Callers skip this entirely outside debug mode.
func debugCheckDestroyed(o *Object2D, op string) {
	if o.destroyed {
		panic(fmt.Sprintf("canopy debug: %s on destroyed object %q (ID was %d)", op, o.Name, o.ID))
	}
}

// debugMaxTreeDepth is the depth above which Add warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(o *Object2D) {
	depth := 0
	for p := o; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[canopy] warning: tree depth %d exceeds %d (object %q)\n",
			depth, debugMaxTreeDepth, o.Name)
	}
}

// debugMaxChildCount is the child count above which Add warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(o *Object2D) {
	if len(o.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[canopy] warning: object %q has %d children (threshold %d)\n",
			o.Name, len(o.children), debugMaxChildCount)
	}
}
