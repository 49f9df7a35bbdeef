package evaluator

import (
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/sim"
)

// TraceLogger is a hook that prints one line per resolved record.
type TraceLogger struct {
	w io.Writer
}

// NewTraceLogger creates a TraceLogger writing to w.
func NewTraceLogger(w io.Writer) *TraceLogger {
	return &TraceLogger{w: w}
}

// Func implements sim.Hook.
func (l *TraceLogger) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosRecord {
		return
	}

	d, ok := ctx.Item.(RecordDetail)
	if !ok {
		return
	}

	_, _ = fmt.Fprintf(l.w, "%8d  addr=0x%x %s  idx=%d ctr=%d %s  ghr=0x%x\n",
		d.Seq, d.Event.Addr, d.Event.Outcome, d.Index, d.Counter, d.Result, d.History)
}
