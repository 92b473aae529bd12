package client

import (
	"context"
	"sync"

	"github.com/fcreyes/gingereasy/models"
)

// Browser keeps a listing collection in sync with a changing filter set.
// Every refresh is tagged with a monotonic sequence number and cancels the
// previous in-flight request; a response is applied only if no newer refresh
// has been issued since, so rapid filter changes can never resolve out of
// order into stale results.
type Browser struct {
	client *Client

	// OnChange, when set, is called after every applied result or error.
	OnChange func()

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	listings []models.Listing
	err      error
}

func NewBrowser(c *Client) *Browser {
	return &Browser{client: c}
}

// Refresh starts a fetch for the given filters. It returns immediately; the
// result lands via Listings/Err and the OnChange callback.
func (b *Browser) Refresh(ctx context.Context, filters Filters) {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	if b.cancel != nil {
		b.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.mu.Unlock()

	go func() {
		defer cancel()
		listings, err := b.client.ListListings(fetchCtx, filters)
		b.apply(seq, listings, err)
	}()
}

func (b *Browser) apply(seq uint64, listings []models.Listing, err error) {
	b.mu.Lock()
	if seq != b.seq {
		// A newer refresh superseded this one; drop the response.
		b.mu.Unlock()
		return
	}
	if err != nil {
		// Keep the last good collection; the error is surfaced separately.
		b.err = err
	} else {
		b.listings = listings
		b.err = nil
	}
	onChange := b.OnChange
	b.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// Listings returns the most recent successfully fetched collection.
func (b *Browser) Listings() []models.Listing {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listings
}

// Err returns the failure of the latest refresh, or nil if it succeeded.
func (b *Browser) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}
