package domain

import "context"

// EventSource fetches head-to-head sportsbook events for one sport key.
type EventSource interface {
	FetchH2H(ctx context.Context, sportKey string) ([]RawEvent, error)
}

// ListingSource fetches open game-winner listings for the given sports.
type ListingSource interface {
	FetchGameWinnerListings(ctx context.Context, sports []string) ([]RawListing, error)
}
