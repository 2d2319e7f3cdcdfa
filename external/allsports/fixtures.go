package allsports

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/riskibarqy/playscout/internal/domain/fixture"
)

// FetchFixtures returns the raw schema A fixtures of one calendar day.
func (c *Client) FetchFixtures(ctx context.Context, date string) ([]fixture.ProviderFixture, error) {
	date = strings.TrimSpace(date)
	params := url.Values{}
	params.Set("from", date)
	params.Set("to", date)
	params.Set("timezone", c.timezone)

	var env envelope[fixture.SchemaA]
	if err := c.get(ctx, "Fixtures", params, &env); err != nil {
		return nil, feedError("fetch allsports fixtures", err)
	}
	if !env.ok() {
		return nil, fmt.Errorf("fetch allsports fixtures date=%s: %w: success=%q", date, fixture.ErrMalformedResponse, env.Success)
	}
	return toProviderFixtures(env.Result), nil
}

// FetchTeamFixtures returns the provider's fixture list for one team.
func (c *Client) FetchTeamFixtures(ctx context.Context, teamID string) ([]fixture.ProviderFixture, error) {
	params := url.Values{}
	params.Set("teamId", strings.TrimSpace(teamID))
	params.Set("timezone", c.timezone)

	var env envelope[fixture.SchemaA]
	if err := c.get(ctx, "Fixtures", params, &env); err != nil {
		return nil, lookupError("fetch allsports team fixtures", err)
	}
	if !env.ok() {
		return nil, nil
	}
	return toProviderFixtures(env.Result), nil
}

func toProviderFixtures(items []fixture.SchemaA) []fixture.ProviderFixture {
	out := make([]fixture.ProviderFixture, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
