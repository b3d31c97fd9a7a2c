package service

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	perr "stashbox/internal/platform/errors"
	"stashbox/internal/platform/logger"
	"stashbox/internal/services/filters/domain"

	"github.com/google/uuid"
)

// MatchURL returns the first active rule of owner that extracts a non-empty value from rawURL
//
// Candidates are the active rules whose domain covers the url host, tried in
// priority desc, created_at asc, id asc order. A rule wins when its regex matches and
// the configured capture group exists, participated and is not empty.
// An unparseable url or one without a host never matches. Surrounding whitespace is
// trimmed once and the trimmed url is what both the host check and the regex see.
func (s *Svc) MatchURL(ctx context.Context, owner uuid.UUID, rawURL string) (domain.Match, bool, error) {
	rawURL = strings.TrimSpace(rawURL)
	host, ok := hostOf(rawURL)
	if !ok {
		return domain.Match{}, false, nil
	}
	rules, err := s.Repo.Active(ctx, owner)
	if err != nil {
		return domain.Match{}, false, internal(err, "filters.match")
	}
	for _, f := range rules {
		if !DomainCovers(f.Domain, host) {
			continue
		}
		v, ok := extract(ctx, f, rawURL)
		if ok {
			return domain.Match{FilterID: f.ID, Value: v}, true, nil
		}
	}
	return domain.Match{}, false, nil
}

// RecordMatch counts one match of the rule in a single conditional update
// concurrent calls never lose increments; a missing or foreign id is NotFound with no write
func (s *Svc) RecordMatch(ctx context.Context, owner, id uuid.UUID) error {
	at := s.clock.Now()
	ok, err := s.Repo.IncrementMatch(ctx, owner, id, at)
	if err != nil {
		return internal(err, "filters.record_match")
	}
	if !ok {
		return notFound(id)
	}
	s.emit(ctx, domain.MatchEvent{OwnerID: owner, FilterID: id, At: at})
	return nil
}

// MatchAndRecord runs MatchURL and records the winner
func (s *Svc) MatchAndRecord(ctx context.Context, owner uuid.UUID, rawURL string) (domain.Match, bool, error) {
	m, ok, err := s.MatchURL(ctx, owner, rawURL)
	if err != nil || !ok {
		return m, ok, err
	}
	if err := s.RecordMatch(ctx, owner, m.FilterID); err != nil {
		// the rule can vanish between match and record
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Match{}, false, nil
		}
		return domain.Match{}, false, err
	}
	return m, true, nil
}

// emit hands the event to the sink; the match is already committed so failures are only logged
func (s *Svc) emit(ctx context.Context, ev domain.MatchEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.MatchRecorded(ctx, ev); err != nil {
		logger.C(ctx).Warn().Err(err).Str("filter_id", ev.FilterID.String()).Msg("match event not recorded")
	}
}

// hostOf returns the lowercased host of rawURL without port or trailing dot
func hostOf(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	h := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	return h, h != ""
}

// DomainCovers reports whether rule domain d covers host
// d matches host itself and any subdomain on a label boundary; a leading "*." or "." is ignored
func DomainCovers(d, host string) bool {
	d = strings.ToLower(strings.TrimSpace(d))
	d = strings.TrimPrefix(d, "*")
	d = strings.Trim(d, ".")
	if d == "" || host == "" {
		return false
	}
	return host == d || strings.HasSuffix(host, "."+d)
}

// extract applies the rule regex to rawURL
func extract(ctx context.Context, f domain.Filter, rawURL string) (string, bool) {
	re, err := regexp.Compile(f.ExtractionRegex)
	if err != nil {
		// rules are validated on write; a bad row only loses its turn
		logger.C(ctx).Warn().Err(err).Str("filter_id", f.ID.String()).Msg("stored regex does not compile")
		return "", false
	}
	g := f.CaptureGroupIndex
	if g < 0 || g > re.NumSubexp() {
		return "", false
	}
	loc := re.FindStringSubmatchIndex(rawURL)
	if loc == nil || loc[2*g] < 0 {
		return "", false
	}
	v := rawURL[loc[2*g]:loc[2*g+1]]
	return v, v != ""
}
