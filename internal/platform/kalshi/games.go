package kalshi

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

// GameSeries maps sport codes to their game-winner series tickers.
var GameSeries = map[string]string{
	"nfl":   "KXNFLGAME",
	"nba":   "KXNBAGAME",
	"mlb":   "KXMLBGAME",
	"nhl":   "KXNHLGAME",
	"ncaab": "KXNCAAMBGAME",
	"ncaaw": "KXNCAAWBGAME",
}

const pageLimit = 200

// FetchGameWinnerListings pages through the open markets of each sport's
// game-winner series. Unknown sports are ignored and a sport whose fetch
// fails is logged and skipped, so one bad series does not hide the others.
// Rejected credentials fail every series and are returned.
func (c *Client) FetchGameWinnerListings(ctx context.Context, sports []string) ([]domain.RawListing, error) {
	var out []domain.RawListing
	for _, sport := range sports {
		sport = strings.ToLower(sport)
		series, ok := GameSeries[sport]
		if !ok {
			c.logger.Debug("no game series for sport", slog.String("sport", sport))
			continue
		}

		listings, err := c.fetchSeries(ctx, sport, series)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			if errors.Is(err, domain.ErrUnauthorized) {
				return nil, err
			}
			c.logger.WarnContext(ctx, "fetch series failed",
				slog.String("sport", sport),
				slog.String("series", series),
				slog.String("error", err.Error()),
			)
			continue
		}
		c.logger.InfoContext(ctx, "fetched listings",
			slog.String("sport", sport),
			slog.Int("count", len(listings)),
		)
		out = append(out, listings...)
	}
	return out, nil
}

func (c *Client) fetchSeries(ctx context.Context, sport, series string) ([]domain.RawListing, error) {
	var out []domain.RawListing
	cursor := ""
	for page := 0; page < c.maxPages; page++ {
		resp, err := c.GetMarkets(ctx, MarketsQuery{
			Status:       "open",
			SeriesTicker: series,
			Cursor:       cursor,
			Limit:        pageLimit,
		})
		if err != nil {
			return nil, err
		}
		for _, m := range resp.Markets {
			out = append(out, toListing(sport, m))
		}
		if resp.Cursor == "" || len(resp.Markets) == 0 {
			break
		}
		cursor = resp.Cursor
	}
	return out, nil
}

// toListing converts the DTO. Game id and team code come from the ticker;
// a malformed ticker leaves them empty and the matcher drops the listing.
func toListing(sport string, m KalshiMarket) domain.RawListing {
	l := domain.RawListing{
		Ticker:      m.Ticker,
		EventTicker: m.EventTicker,
		Title:       m.Title,
		Sport:       sport,
		YesAsk:      cents(m.YesAsk),
		YesBid:      cents(m.YesBid),
		Volume:      m.Volume,
	}
	if _, gameID, side, ok := domain.ParseTicker(m.Ticker); ok {
		l.GameID = gameID
		l.TeamCode = side
	}
	return l
}
