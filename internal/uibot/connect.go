package uibot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"linkreach/internal/outreach"
)

// Selector inventory. All of these are fragile individually; the chain below
// is what makes control location robust.
var (
	queryAriaInvite = XPath(`//button[contains(@aria-label, "Invite") and contains(@aria-label, "connect")]`)
	queryConnectBtn = XPath(`//button[.//span[text()="Connect"]]`)
	queryMoreBtn    = XPath(`//button[contains(@aria-label, "More action")]`)
	queryMenuItem   = XPath(`//div[contains(@class, "artdeco-dropdown__content")]//span[text()="Connect"]/ancestor::div[@role="button" or @role="menuitem"]`)
	queryMessageBtn = XPath(`//button[.//span[text()="Message"]]`)
	queryPendingBtn = XPath(`//button[.//span[text()="Pending"]]`)
	queryAddNote    = XPath(`//button[contains(@aria-label, "Add a note")]`)
	queryNoteInput  = XPath(`//textarea[contains(@name, "message") or contains(@id, "custom-message")]`)
	queryDismiss    = XPath(`//button[contains(@aria-label, "Dismiss")]`)
)

// sendQueries locates the modal's send control, tried in order: accessible
// label, exact button text, primary-button styling.
var sendQueries = []Query{
	XPath(`//button[contains(@aria-label, "Send")]`),
	XPath(`//button[.//span[text()="Send"]]`),
	XPath(`//button[contains(@class, "artdeco-button--primary")]`),
}

// Options configures a Bot.
type Options struct {
	Surface Surface
	BaseURL string
	Log     *zap.Logger
	// Settle is the base unit for the fixed waits that stand in for
	// condition waits on a UI with no readiness signal.
	Settle time.Duration
}

// Bot drives connection requests through the browser surface. It implements
// outreach.Strategy.
type Bot struct {
	surface Surface
	baseURL string
	log     *zap.Logger
	settle  time.Duration
}

// NewBot builds a Bot over a surface.
func NewBot(opts Options) *Bot {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "https://www.linkedin.com"
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = time.Second
	}
	return &Bot{surface: opts.Surface, baseURL: baseURL, log: log, settle: settle}
}

// Resolve navigates to the profile page and lets it settle. Resolution is
// implicit in navigation for this strategy: whether the profile exists is
// only discoverable from which controls the page offers, so classification
// happens in Send.
func (b *Bot) Resolve(ctx context.Context, handle string) (outreach.Target, outreach.Result, error) {
	url := b.baseURL + "/in/" + handle + "/"
	if err := b.surface.Navigate(ctx, url); err != nil {
		return outreach.Target{}, outreach.Result{}, err
	}
	b.surface.Sleep(3 * b.settle)

	// Nudge the page to close any floating overlays.
	if err := b.surface.ScrollBy(0, 300); err != nil {
		return outreach.Target{}, outreach.Result{}, err
	}
	b.surface.Sleep(b.settle)
	return outreach.Target{Handle: handle}, outreach.Result{}, nil
}

// Send locates the connect control through the fallback chain and completes
// the invite modal. Chain exhaustion degrades to a classification; only
// surface-level failures outside the modal propagate as errors.
func (b *Bot) Send(ctx context.Context, target outreach.Target, message string) (outreach.Result, error) {
	clicked := false
	for _, step := range b.connectSteps() {
		hit, err := step.run()
		if err != nil {
			return outreach.Result{}, fmt.Errorf("%s: %w", step.name, err)
		}
		if hit {
			b.log.Debug("connect control located",
				zap.String("handle", target.Handle),
				zap.String("strategy", step.name))
			clicked = true
			break
		}
	}

	if !clicked {
		return b.classifyMissingConnect(target.Handle)
	}

	b.surface.Sleep(b.settle)
	return b.completeModal(message), nil
}

// connectStep is one fallback strategy for locating and activating the
// connect control. run returns true once the control was clicked.
type connectStep struct {
	name string
	run  func() (bool, error)
}

func (b *Bot) connectSteps() []connectStep {
	return []connectStep{
		{"aria-label invite", func() (bool, error) {
			return b.clickFirst(queryAriaInvite)
		}},
		{"visible Connect button", func() (bool, error) {
			return b.clickFirst(queryConnectBtn)
		}},
		{"overflow menu", b.connectViaMenu},
	}
}

// clickFirst clicks the first match of q, if any.
func (b *Bot) clickFirst(q Query) (bool, error) {
	els, err := b.surface.Find(q)
	if err != nil {
		return false, err
	}
	if len(els) == 0 {
		return false, nil
	}
	if err := els[0].Click(); err != nil {
		return false, err
	}
	return true, nil
}

// connectViaMenu opens the more-actions menu and activates its Connect
// entry. An open menu with no such entry is a miss, not an error.
func (b *Bot) connectViaMenu() (bool, error) {
	opened, err := b.clickFirst(queryMoreBtn)
	if err != nil || !opened {
		return false, err
	}
	b.surface.Sleep(b.settle)

	hit, err := b.clickFirst(queryMenuItem)
	if err != nil {
		return false, err
	}
	return hit, nil
}

// classifyMissingConnect explains why no connect control exists.
func (b *Bot) classifyMissingConnect(handle string) (outreach.Result, error) {
	if els, err := b.surface.Find(queryMessageBtn); err != nil {
		return outreach.Result{}, err
	} else if len(els) > 0 {
		return outreach.Result{Outcome: outreach.OutcomeAlreadyConnected}, nil
	}
	if els, err := b.surface.Find(queryPendingBtn); err != nil {
		return outreach.Result{}, err
	} else if len(els) > 0 {
		return outreach.Result{Outcome: outreach.OutcomePending}, nil
	}
	b.log.Debug("no connect control located", zap.String("handle", handle))
	return outreach.Result{Outcome: outreach.OutcomeNoConnectButton}, nil
}

// completeModal runs the invite modal to a terminal result. Any failure
// inside the modal is converted to a modal_error classification after a
// best-effort dismiss, so a stuck dialog never aborts the run.
func (b *Bot) completeModal(message string) outreach.Result {
	res, err := b.modalFlow(message)
	if err != nil {
		b.dismissModal()
		return outreach.Result{
			Outcome: outreach.OutcomeModalError,
			Detail:  truncate(err.Error(), 50),
		}
	}
	return res
}

func (b *Bot) modalFlow(message string) (outreach.Result, error) {
	if message != "" {
		noteBtns, err := b.surface.Find(queryAddNote)
		if err != nil {
			return outreach.Result{}, err
		}
		if len(noteBtns) > 0 {
			if err := noteBtns[0].Click(); err != nil {
				return outreach.Result{}, err
			}
			b.surface.Sleep(b.settle / 2)

			inputs, err := b.surface.Find(queryNoteInput)
			if err != nil {
				return outreach.Result{}, err
			}
			if len(inputs) > 0 {
				if err := inputs[0].Input(message); err != nil {
					return outreach.Result{}, err
				}
				b.surface.Sleep(b.settle / 2)
			}
		}
	}

	for _, q := range sendQueries {
		els, err := b.surface.Find(q)
		if err != nil {
			return outreach.Result{}, err
		}
		if len(els) == 0 {
			continue
		}
		if err := els[0].Click(); err != nil {
			return outreach.Result{}, err
		}
		b.surface.Sleep(b.settle)
		return outreach.Result{Outcome: outreach.OutcomeSent}, nil
	}

	// Some invites go out without a confirm step; ambiguous, assumed sent.
	return outreach.Result{Outcome: outreach.OutcomeSentMaybe}, nil
}

func (b *Bot) dismissModal() {
	els, err := b.surface.Find(queryDismiss)
	if err != nil || len(els) == 0 {
		return
	}
	_ = els[0].Click()
}
