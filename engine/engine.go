// Package engine is the local keyword matcher used when the remote classifier
// is absent or unusable. It only performs exact substring matching; the
// sensitivity level has no effect here.
package engine

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/elum-utils/cleen/models"
)

// FindKeywords returns the keywords contained in text, compared after Unicode case folding.
// Keywords are returned in input order; blank keywords never match.
func FindKeywords(text string, keywords []string) []string {
	return findKeywords(cases.Fold(), text, keywords)
}

func findKeywords(fold cases.Caser, text string, keywords []string) []string {
	if text == "" || len(keywords) == 0 {
		return nil
	}
	folded := fold.String(text)
	var found []string
	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		if strings.Contains(folded, fold.String(kw)) {
			found = append(found, kw)
		}
	}
	return found
}

// Spans returns every case-insensitive literal occurrence of keyword in title and then in content,
// preserving the original casing.
func Spans(keyword, title, content string) []string {
	if keyword == "" {
		return nil
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(keyword))
	if err != nil {
		return nil
	}
	var out []string
	out = append(out, re.FindAllString(title, -1)...)
	out = append(out, re.FindAllString(content, -1)...)
	return out
}

// Match classifies items against keywords. An item matches when its title and content,
// joined by a space, contain any keyword. With withSpans set, matched literal substrings
// are collected per item; an item whose keyword only occurs across the title/content
// boundary gets no spans entry.
func Match(items []models.Item, keywords []string, withSpans bool) models.ClassificationResult {
	res := models.EmptyResult()
	res.Source = models.SourceHeuristic
	keywords = models.CleanKeywords(keywords)
	if len(keywords) == 0 || len(items) == 0 {
		return res
	}

	fold := cases.Fold()
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		found := findKeywords(fold, item.Title+" "+item.Content, keywords)
		if len(found) == 0 {
			continue
		}
		if _, dup := seen[item.ID]; !dup {
			seen[item.ID] = struct{}{}
			res.MatchedIDs = append(res.MatchedIDs, item.ID)
		}
		if !withSpans {
			continue
		}
		var spans []string
		for _, kw := range found {
			spans = append(spans, Spans(kw, item.Title, item.Content)...)
		}
		if len(spans) > 0 {
			res.Spans[item.ID] = append(res.Spans[item.ID], spans...)
		}
	}
	return res
}
