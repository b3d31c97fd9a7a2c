package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	perr "stashbox/internal/platform/errors"
	"stashbox/internal/services/filters/domain"

	"github.com/google/uuid"
)

func TestDomainCovers(t *testing.T) {
	tests := []struct {
		rule, host string
		want       bool
	}{
		{"x.com", "x.com", true},
		{"X.COM", "x.com", true},
		{"x.com", "shop.x.com", true},
		{"*.x.com", "a.b.x.com", true},
		{".x.com", "x.com", true},
		{"x.com.", "x.com", true},
		{"x.com", "notx.com", false},
		{"x.com", "x.com.evil.io", false},
		{"shop.x.com", "x.com", false},
		{"", "x.com", false},
		{"*", "x.com", false},
	}
	for _, tc := range tests {
		if got := DomainCovers(tc.rule, tc.host); got != tc.want {
			t.Fatalf("DomainCovers(%q, %q) = %v want %v", tc.rule, tc.host, got, tc.want)
		}
	}
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		in   string
		host string
		ok   bool
	}{
		{"https://Shop.Example.com:8443/p/1", "shop.example.com", true},
		{"http://x.com./a", "x.com", true},
		{"  https://x.com", "", false},
		{"x.com/p/1", "", false},
		{"://bad", "", false},
		{"", "", false},
		{"mailto:someone@x.com", "", false},
	}
	for _, tc := range tests {
		h, ok := hostOf(tc.in)
		if h != tc.host || ok != tc.ok {
			t.Fatalf("hostOf(%q) = %q, %v", tc.in, h, ok)
		}
	}
}

func TestMatchURL_HigherPriorityWins(t *testing.T) {
	s, clock := newSvc(newFakeRepo())
	owner := uuid.New()
	mustCreate(t, s, owner, createInput("A", "a", "x.com", `/(path)`, 1, 1))
	clock.Advance(time.Second)
	b := mustCreate(t, s, owner, createInput("B", "b", "x.com", `/(pa)th`, 1, 5))

	m, ok, err := s.MatchURL(context.Background(), owner, "https://x.com/path")
	if err != nil || !ok {
		t.Fatalf("MatchURL = %v, %v, %v", m, ok, err)
	}
	if m.FilterID != b.ID || m.Value != "pa" {
		t.Fatalf("winner = %+v", m)
	}
}

func TestMatchURL_TieBrokenByCreation(t *testing.T) {
	s, clock := newSvc(newFakeRepo())
	owner := uuid.New()
	first := mustCreate(t, s, owner, createInput("first", "1", "x.com", `/p/(\d+)`, 1, 3))
	clock.Advance(time.Second)
	mustCreate(t, s, owner, createInput("second", "2", "x.com", `/p/(\d)`, 1, 3))

	for i := 0; i < 3; i++ {
		m, ok, _ := s.MatchURL(context.Background(), owner, "https://x.com/p/42")
		if !ok || m.FilterID != first.ID || m.Value != "42" {
			t.Fatalf("winner = %+v", m)
		}
	}
}

func TestMatchURL_CandidateRules(t *testing.T) {
	r := newFakeRepo()
	s, clock := newSvc(r)
	owner := uuid.New()
	add := func(name, dom, re string, group, prio int) domain.Filter {
		clock.Advance(time.Second)
		return mustCreate(t, s, owner, createInput(name, "pattern "+name, dom, re, group, prio))
	}

	inactive := add("inactive", "x.com", `/p/(\d+)`, 1, 100)
	if _, err := s.Update(context.Background(), owner, inactive.ID, domain.UpdateInput{Active: ptr(false)}); err != nil {
		t.Fatal(err)
	}
	add("other domain", "y.com", `/p/(\d+)`, 1, 90)
	add("group missing", "x.com", `/p/\d+`, 3, 80)
	add("group not participating", "x.com", `/p/(\d+)|/q/(\w+)`, 2, 70)
	add("empty capture", "x.com", `/p/(x*)\d+`, 1, 60)
	add("no regex match", "x.com", `/nothing/(\d+)`, 1, 50)
	winner := add("subdomain rule", "*.x.com", `/p/(\d+)`, 1, 10)
	add("lower", "x.com", `/p/(\d+)`, 0, 1)

	m, ok, err := s.MatchURL(context.Background(), owner, "https://shop.x.com/p/77")
	if err != nil || !ok {
		t.Fatalf("MatchURL = %v, %v, %v", m, ok, err)
	}
	if m.FilterID != winner.ID || m.Value != "77" {
		t.Fatalf("winner = %+v", m)
	}
}

func TestMatchURL_TrimsBeforeHostAndRegex(t *testing.T) {
	s, _ := newSvc(newFakeRepo())
	owner := uuid.New()
	f := mustCreate(t, s, owner, createInput("anchored", "a", "x.com", `^https://x\.com/p/(\d+)$`, 1, 0))

	for _, in := range []string{"https://x.com/p/9", "  https://x.com/p/9\t\n", "\thttps://x.com/p/9 "} {
		m, ok, err := s.MatchURL(context.Background(), owner, in)
		if err != nil || !ok || m.FilterID != f.ID || m.Value != "9" {
			t.Fatalf("MatchURL(%q) = %+v, %v, %v", in, m, ok, err)
		}
	}
}

func TestMatchURL_GroupZeroIsWholeMatch(t *testing.T) {
	s, _ := newSvc(newFakeRepo())
	owner := uuid.New()
	mustCreate(t, s, owner, createInput("whole", "w", "x.com", `p/\d+`, 0, 0))
	m, ok, _ := s.MatchURL(context.Background(), owner, "https://x.com/p/5?q")
	if !ok || m.Value != "p/5" {
		t.Fatalf("got %+v %v", m, ok)
	}
}

func TestMatchURL_NoMatch(t *testing.T) {
	r := newFakeRepo()
	s, _ := newSvc(r)
	owner := uuid.New()
	mustCreate(t, s, owner, createInput("a", "a", "x.com", `/p/(\d+)`, 1, 0))

	before := r.calls.Load()
	for _, u := range []string{"not a url", "x.com/p/1", "%zz"} {
		if _, ok, err := s.MatchURL(context.Background(), owner, u); ok || err != nil {
			t.Fatalf("MatchURL(%q) = %v, %v", u, ok, err)
		}
	}
	if r.calls.Load() != before {
		t.Fatalf("unparseable urls must not reach storage")
	}
	if _, ok, _ := s.MatchURL(context.Background(), owner, "https://x.com/q/1"); ok {
		t.Fatalf("expected no match")
	}
	if _, ok, _ := s.MatchURL(context.Background(), uuid.New(), "https://x.com/p/1"); ok {
		t.Fatalf("other owner must not see rules")
	}
}

func TestMatchURL_StorageErrorIsInternal(t *testing.T) {
	r := newFakeRepo()
	r.err = errors.New("boom")
	s, _ := newSvc(r)
	_, _, err := s.MatchURL(context.Background(), uuid.New(), "https://x.com/")
	wantCode(t, err, perr.ErrorCodeUnknown)
}

func TestRecordMatch_ConcurrentIncrements(t *testing.T) {
	r := newFakeRepo()
	sink := &recSink{}
	s, _ := newSvc(r, WithEvents(sink))
	owner := uuid.New()
	f := mustCreate(t, s, owner, createInput("a", "a", "x.com", `(x)`, 1, 0))

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.RecordMatch(context.Background(), owner, f.ID); err != nil {
				t.Errorf("RecordMatch: %v", err)
			}
		}()
	}
	wg.Wait()

	got := r.rule(f.ID)
	if got.MatchCount != n || got.LastMatchedAt == nil || !got.LastMatchedAt.Equal(epoch) {
		t.Fatalf("count=%d last=%v", got.MatchCount, got.LastMatchedAt)
	}
	if len(sink.events) != n || sink.events[0].FilterID != f.ID || sink.events[0].OwnerID != owner {
		t.Fatalf("events = %d", len(sink.events))
	}
}

func TestRecordMatch_ForeignOrMissingIsNotFound(t *testing.T) {
	r := newFakeRepo()
	sink := &recSink{}
	s, _ := newSvc(r, WithEvents(sink))
	owner := uuid.New()
	f := mustCreate(t, s, owner, createInput("a", "a", "x.com", `(x)`, 1, 0))

	wantCode(t, s.RecordMatch(context.Background(), uuid.New(), f.ID), perr.ErrorCodeNotFound)
	wantCode(t, s.RecordMatch(context.Background(), owner, uuid.New()), perr.ErrorCodeNotFound)
	if r.rule(f.ID).MatchCount != 0 || len(sink.events) != 0 {
		t.Fatalf("mutation on not found")
	}
}

func TestRecordMatch_SinkFailureIsNotFatal(t *testing.T) {
	r := newFakeRepo()
	s, _ := newSvc(r, WithEvents(&recSink{err: errors.New("clickhouse down")}))
	owner := uuid.New()
	f := mustCreate(t, s, owner, createInput("a", "a", "x.com", `(x)`, 1, 0))
	if err := s.RecordMatch(context.Background(), owner, f.ID); err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}
	if r.rule(f.ID).MatchCount != 1 {
		t.Fatalf("count not committed")
	}
}

func TestMatchAndRecord(t *testing.T) {
	r := newFakeRepo()
	s, _ := newSvc(r)
	owner := uuid.New()
	f := mustCreate(t, s, owner, createInput("a", "a", "x.com", `/p/(\d+)`, 1, 0))

	m, ok, err := s.MatchAndRecord(context.Background(), owner, "https://x.com/p/9")
	if err != nil || !ok || m.FilterID != f.ID || m.Value != "9" {
		t.Fatalf("MatchAndRecord = %+v, %v, %v", m, ok, err)
	}
	if r.rule(f.ID).MatchCount != 1 {
		t.Fatalf("not recorded")
	}
	if _, ok, err := s.MatchAndRecord(context.Background(), owner, "https://x.com/none"); ok || err != nil {
		t.Fatalf("no match = %v, %v", ok, err)
	}
	if r.rule(f.ID).MatchCount != 1 {
		t.Fatalf("no match must not record")
	}
}
