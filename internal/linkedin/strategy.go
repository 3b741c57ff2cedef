package linkedin

import (
	"context"
	"errors"

	"linkreach/internal/outreach"
)

// Resolve fetches the profile and derives the connection target. A missing
// profile, a non-OK API response, or a payload without an entity URN are
// terminal classifications, not errors; only transport failures propagate to
// the item boundary.
func (c *Client) Resolve(ctx context.Context, handle string) (outreach.Target, outreach.Result, error) {
	prof, err := c.GetProfile(ctx, handle)
	var apiErr *apiError
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return outreach.Target{}, outreach.Result{Outcome: outreach.OutcomeNotFound}, nil
	case errors.As(err, &apiErr):
		return outreach.Target{}, outreach.Result{
			Outcome: outreach.OutcomeAPIError,
			Detail:  apiErr.Error(),
		}, nil
	case err != nil:
		return outreach.Target{}, outreach.Result{}, err
	}

	urn := prof.URNID()
	if urn == "" {
		return outreach.Target{}, outreach.Result{Outcome: outreach.OutcomeNoURN}, nil
	}
	return outreach.Target{Handle: handle, URN: urn}, outreach.Result{}, nil
}

// Send issues the invitation with the pre-resolved URN.
func (c *Client) Send(ctx context.Context, target outreach.Target, message string) (outreach.Result, error) {
	ok, err := c.AddConnection(ctx, target.Handle, target.URN, message)
	if err != nil {
		return outreach.Result{}, err
	}
	if !ok {
		return outreach.Result{Outcome: outreach.OutcomeFailed}, nil
	}
	return outreach.Result{Outcome: outreach.OutcomeSent}, nil
}

// Unfollow implements the orchestrator's optional post-send side-effect.
func (c *Client) Unfollow(ctx context.Context, target outreach.Target) error {
	return c.UnfollowProfile(ctx, target.URN)
}
