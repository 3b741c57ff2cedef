// Package outreach drives unsent profile records through a delivery strategy
// and persists each terminal outcome back to the record store. Processing is
// strictly sequential: concurrent outreach against the same third-party
// surface risks correlated rate limiting, and the store is rewritten after
// every item.
package outreach

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkreach/internal/pacing"
	"linkreach/internal/store"
)

// MaxMessageLen is the platform's invite note limit. Longer messages are
// truncated, not rejected.
const MaxMessageLen = 300

// maxDetailLen bounds the diagnostic written into the Delivered column.
const maxDetailLen = 50

// Target identifies a profile a strategy has resolved for sending. URN is
// set by the API strategy; the UI strategy operates on the handle alone.
type Target struct {
	Handle string
	URN    string
}

// Strategy is one interchangeable delivery mechanism. Resolve locates the
// profile and derives a send target; a non-empty Result outcome is a
// terminal classification and skips the send. Send issues the connection
// request with the pre-resolved target and must not re-resolve. Errors from
// either are unexpected failures, caught at the item boundary.
type Strategy interface {
	Resolve(ctx context.Context, handle string) (Target, Result, error)
	Send(ctx context.Context, target Target, message string) (Result, error)
}

// Unfollower is the optional post-send side-effect a strategy may support.
type Unfollower interface {
	Unfollow(ctx context.Context, target Target) error
}

// Recorder persists one row's terminal outcome. *store.Workbook implements it.
type Recorder interface {
	Persist(row int, status, delivered string) error
}

// Summary is the end-of-run report.
type Summary struct {
	RunID      string
	Successful int
	Failed     int
	Elapsed    time.Duration
}

// Runner orchestrates one outreach run.
type Runner struct {
	Strategy Strategy
	Records  Recorder
	Pacing   pacing.Policy
	Message  string
	NoFollow bool
	Log      *zap.Logger

	// Out receives the operator-facing per-item status lines. Defaults to
	// os.Stdout.
	Out io.Writer
	// Sleep is the pacing suspension point. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Run processes the work items in order. A single item's failure never
// aborts the run; only a store write failure is fatal, since without it the
// at-most-once guarantee is gone.
func (r *Runner) Run(ctx context.Context, items []store.WorkItem) (Summary, error) {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	policy := r.Pacing
	if policy == nil {
		policy = pacing.None{}
	}

	summary := Summary{RunID: uuid.NewString()}
	message := truncate(r.Message, MaxMessageLen)
	start := time.Now()

	for i, item := range items {
		fmt.Fprintf(out, "\n[%d/%d] %s\n", i+1, len(items), item.Name)
		fmt.Fprintf(out, "  🏢 %s\n", item.Company)
		fmt.Fprintf(out, "  🔗 %s\n", item.Handle)

		res, target := r.attempt(ctx, item.Handle, message)
		log.Info("outreach attempt finished",
			zap.String("run_id", summary.RunID),
			zap.String("handle", item.Handle),
			zap.String("outcome", string(res.Outcome)),
			zap.String("detail", res.Detail))

		switch {
		case res.Outcome.Success():
			summary.Successful++
		case res.Outcome.Neutral():
			// recorded, counted as neither
		default:
			summary.Failed++
		}
		if res.Outcome == OutcomeSentMaybe {
			log.Warn("send control not located after modal opened; assuming delivered",
				zap.String("handle", item.Handle))
		}
		printOutcome(out, res)

		if err := r.Records.Persist(item.Row, string(res.Outcome), deliveredFor(res)); err != nil {
			return summary, fmt.Errorf("persist row %d: %w", item.Row, err)
		}

		if r.NoFollow && res.Outcome == OutcomeSent {
			if uf, ok := r.Strategy.(Unfollower); ok {
				if err := uf.Unfollow(ctx, target); err != nil {
					log.Debug("unfollow failed", zap.String("handle", item.Handle), zap.Error(err))
				} else {
					fmt.Fprintf(out, "  👋 Unfollowed\n")
				}
			}
		}

		if i < len(items)-1 {
			d := policy.Delay(i, item.Name)
			fmt.Fprintf(out, "  ⏳ Waiting %.1fs...\n", d.Seconds())
			sleep(d)
		}
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

// attempt drives one item through resolve and send. Unexpected errors are
// converted to an error classification here so the loop always receives a
// terminal outcome.
func (r *Runner) attempt(ctx context.Context, handle, message string) (Result, Target) {
	target, res, err := r.Strategy.Resolve(ctx, handle)
	if err != nil {
		return Result{Outcome: OutcomeError, Detail: truncate(err.Error(), maxDetailLen)}, target
	}
	if res.Outcome != OutcomeNone {
		return res, target
	}

	res, err = r.Strategy.Send(ctx, target, message)
	if err != nil {
		return Result{Outcome: OutcomeError, Detail: truncate(err.Error(), maxDetailLen)}, target
	}
	return res, target
}

// deliveredFor maps an outcome to the Delivered column value. Successful
// sends record "pending" (an invite awaiting the other side); everything
// else carries its truncated diagnostic, possibly empty.
func deliveredFor(res Result) string {
	if res.Outcome.Success() {
		return "pending"
	}
	return truncate(res.Detail, maxDetailLen)
}

func printOutcome(out io.Writer, res Result) {
	switch res.Outcome {
	case OutcomeSent, OutcomeSentMaybe:
		fmt.Fprintln(out, "  ✅ Connection request sent!")
	case OutcomeAlreadyConnected:
		fmt.Fprintln(out, "  ℹ️ Already connected")
	case OutcomePending:
		fmt.Fprintln(out, "  ℹ️ Request already pending")
	case OutcomeNotFound:
		fmt.Fprintln(out, "  ⚠️ Profile not found or private")
	case OutcomeNoURN:
		fmt.Fprintln(out, "  ⚠️ Could not get profile URN")
	default:
		if res.Detail != "" {
			fmt.Fprintf(out, "  ❌ Failed: %s (%s)\n", res.Outcome, res.Detail)
		} else {
			fmt.Fprintf(out, "  ❌ Failed: %s\n", res.Outcome)
		}
	}
}

// truncate cuts s to at most n runes. The platform counts characters, not
// bytes, so slicing is done on the decoded sequence.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
