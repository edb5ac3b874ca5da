package source

import "context"

// Source is one external provider of raw log lines for a named
// service. FetchTail is the historical pull and may fail per source.
// Subscribe is the live push; delivery of newly produced lines is
// at-least-once after subscription time, and duplicates across the
// fetch/subscribe boundary are tolerated (the stream layer dedups
// them). The returned unsubscribe must be called before the consumer
// is discarded and must not return while the feed can still call
// onLine.
type Source interface {
	Name() string
	FetchTail(ctx context.Context, maxLines int) ([]string, error)
	Subscribe(ctx context.Context, onLine func(line string)) (unsubscribe func(), err error)
}
