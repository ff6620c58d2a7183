package notices

import "context"

// Notice is one ranked announcement from an external source.
type Notice struct {
	Title  string `json:"title"`
	LinkID string `json:"linkId"`
	Date   string `json:"date"`
}

// Provider is the boundary to the external notices source. Scraping lives
// outside this service; callers inject whatever implementation they run.
type Provider interface {
	Latest(ctx context.Context) ([]Notice, error)
}

// StaticProvider serves a fixed notice list. Used when no live source is
// wired in and by tests.
type StaticProvider struct {
	notices []Notice
}

// NewStaticProvider creates a StaticProvider over the given notices.
func NewStaticProvider(notices []Notice) *StaticProvider {
	return &StaticProvider{notices: notices}
}

func (p *StaticProvider) Latest(ctx context.Context) ([]Notice, error) {
	_ = ctx
	return p.notices, nil
}
