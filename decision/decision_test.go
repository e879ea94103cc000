package decision

import (
	"testing"

	"github.com/elum-utils/cleen/models"
)

func TestDecideAllRemoveAndMosaic(t *testing.T) {
	items := []models.Item{{ID: 1}, {ID: 2}, {ID: 3}}
	res := models.ClassificationResult{MatchedIDs: []int64{1, 2}}

	cases := map[models.Mode]models.Action{
		models.ModeRemove: models.ActionDrop,
		models.ModeMosaic: models.ActionObscure,
	}
	for mode, want := range cases {
		out := DecideAll(items, res, mode)
		if len(out) != 3 {
			t.Fatalf("mode=%s: expected 3 decisions, got %d", mode, len(out))
		}
		if out[0].Action != want || out[1].Action != want {
			t.Fatalf("mode=%s: unexpected matched actions: %+v", mode, out)
		}
		if out[2].Action != models.ActionShow || out[2].Flagged {
			t.Fatalf("mode=%s: unmatched item must be shown: %+v", mode, out[2])
		}
	}
}

func TestDecidePurify(t *testing.T) {
	d := Decide(1, true, models.ModePurify, []string{"ㅅㅂ"})
	if d.Action != models.ActionPurify || !d.Flagged || len(d.Spans) != 1 {
		t.Fatalf("unexpected decision: %+v", d)
	}

	d = Decide(1, true, models.ModePurify, nil)
	if d.Action != models.ActionShow || !d.Flagged {
		t.Fatalf("purify without spans must show with badge: %+v", d)
	}

	d = Decide(1, false, models.ModePurify, []string{"x"})
	if d.Action != models.ActionShow || d.Flagged || d.Spans != nil {
		t.Fatalf("unmatched item must be plain show: %+v", d)
	}
}

func TestDecideAllIgnoresSpansOutsidePurify(t *testing.T) {
	items := []models.Item{{ID: 1}}
	res := models.ClassificationResult{MatchedIDs: []int64{1}, Spans: map[int64][]string{1: {"x"}}}
	out := DecideAll(items, res, models.ModeMosaic)
	if out[0].Action != models.ActionObscure || out[0].Spans != nil {
		t.Fatalf("unexpected decision: %+v", out[0])
	}
}

func TestDecideAllIgnoresUnknownIDs(t *testing.T) {
	out := DecideAll([]models.Item{{ID: 1}}, models.ClassificationResult{MatchedIDs: []int64{99}}, models.ModeRemove)
	if len(out) != 1 || out[0].Action != models.ActionShow {
		t.Fatalf("unexpected decisions: %+v", out)
	}
}

func TestPurifyMasksKorean(t *testing.T) {
	got := Purify("ㅅㅂ 테스트", []string{"ㅅㅂ"})
	if got != "██ 테스트" {
		t.Fatalf("unexpected purify: %q", got)
	}
}

func TestPurifyCaseInsensitiveAndEscaped(t *testing.T) {
	if got := Purify("Spam SPAM spam", []string{"spam"}); got != "████ ████ ████" {
		t.Fatalf("unexpected purify: %q", got)
	}
	if got := Purify("a.b axb", []string{"a.b"}); got != "███ axb" {
		t.Fatalf("metacharacters must be literal: %q", got)
	}
}

func TestPurifySequentialOverlap(t *testing.T) {
	// The first span masks "abc", so "cd" no longer matches.
	got := Purify("abcd", []string{"abc", "cd"})
	if got != "███d" {
		t.Fatalf("unexpected purify: %q", got)
	}
}

func TestApplyToItem(t *testing.T) {
	item := models.Item{ID: 1, Title: "ㅅㅂ 테스트", Content: "진짜 ㅅㅂ", Author: "a"}
	out := ApplyToItem(item, models.Decision{ItemID: 1, Action: models.ActionPurify, Spans: []string{"ㅅㅂ"}})
	if out.Title != "██ 테스트" || out.Content != "진짜 ██" || out.Author != "a" {
		t.Fatalf("unexpected item: %+v", out)
	}
	if item.Title != "ㅅㅂ 테스트" {
		t.Fatalf("input must not be modified")
	}
	if same := ApplyToItem(item, models.Decision{Action: models.ActionObscure}); same != item {
		t.Fatalf("non-purify decisions must not alter text")
	}
}

func TestCount(t *testing.T) {
	ds := []models.Decision{
		{Action: models.ActionShow},
		{Action: models.ActionShow, Flagged: true},
		{Action: models.ActionDrop},
	}
	if Count(ds) != 2 {
		t.Fatalf("unexpected count: %d", Count(ds))
	}
}
