package store

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// LinkStatus is the reachability verdict for one cited source URL. Link
// health is provenance bookkeeping, kept apart from parameter values: a
// broken link queues re-verification and never changes or deletes the
// records citing it.
type LinkStatus string

const (
	LinkUnverified LinkStatus = "unverified"
	LinkReachable  LinkStatus = "reachable"
	LinkBroken     LinkStatus = "broken"
)

// ParseLinkStatus parses a user-supplied verdict.
func ParseLinkStatus(s string) (LinkStatus, error) {
	switch st := LinkStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case LinkUnverified, LinkReachable, LinkBroken:
		return st, nil
	}
	return "", eris.Errorf("unknown link status %q", s)
}

// SourceLink is one tracked source URL with its verification state.
type SourceLink struct {
	URL         string     `json:"url"`
	Status      LinkStatus `json:"status"`
	LastChecked time.Time  `json:"last_checked,omitempty"`
}

// Newly cited links enter as unverified; known links keep their state.
// The upsert syntax below is shared by SQLite and Postgres.
const (
	registerSourceQuery = "INSERT INTO source_links (url) VALUES (?) ON CONFLICT (url) DO NOTHING"
	markSourceQuery     = "INSERT INTO source_links (url, status, last_checked) VALUES (?, ?, ?) " +
		"ON CONFLICT (url) DO UPDATE SET status = excluded.status, last_checked = excluded.last_checked"
	pendingSourcesQuery = "SELECT url, status, last_checked FROM source_links " +
		"WHERE status != 'reachable' ORDER BY url"
)

func scanSourceLink(sc scannable) (SourceLink, error) {
	var (
		link            SourceLink
		status, checked string
	)
	if err := sc.Scan(&link.URL, &status, &checked); err != nil {
		return SourceLink{}, eris.Wrap(err, "scanning source link row")
	}
	link.Status = LinkStatus(status)
	var err error
	if link.LastChecked, err = decodeTime(checked); err != nil {
		return SourceLink{}, err
	}
	return link, nil
}
