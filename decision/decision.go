// Package decision maps classification results to per-item presentation decisions.
package decision

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/elum-utils/cleen/models"
)

// MaskRune replaces every character of a purified span.
const MaskRune = '█'

// Decide returns the decision for one item id.
func Decide(id int64, matched bool, mode models.Mode, spans []string) models.Decision {
	d := models.Decision{ItemID: id, Action: models.ActionShow}
	if !matched {
		return d
	}
	switch mode {
	case models.ModeRemove:
		d.Action = models.ActionDrop
	case models.ModeMosaic:
		d.Action = models.ActionObscure
	case models.ModePurify:
		d.Flagged = true
		if len(spans) > 0 {
			d.Action = models.ActionPurify
			d.Spans = append([]string(nil), spans...)
		}
	}
	return d
}

// DecideAll returns one decision per item, in item order.
// Ids not in the batch are ignored.
func DecideAll(items []models.Item, res models.ClassificationResult, mode models.Mode) []models.Decision {
	matched := res.MatchedSet()
	out := make([]models.Decision, 0, len(items))
	for _, item := range items {
		_, ok := matched[item.ID]
		var spans []string
		if mode == models.ModePurify {
			spans = res.Spans[item.ID]
		}
		out = append(out, Decide(item.ID, ok, mode, spans))
	}
	return out
}

// Purify masks, in list order, every case-insensitive occurrence of each span in text
// with MaskRune repeated to the match's character length. Each span scans the text as
// already masked by earlier spans, so a later span overlapping an earlier one may no
// longer match.
func Purify(text string, spans []string) string {
	for _, s := range spans {
		if s == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(s))
		if err != nil {
			continue
		}
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			return strings.Repeat(string(MaskRune), utf8.RuneCountInString(m))
		})
	}
	return text
}

// ApplyToItem returns a copy of item with title and content masked when d is a purify decision.
func ApplyToItem(item models.Item, d models.Decision) models.Item {
	if d.Action != models.ActionPurify {
		return item
	}
	item.Title = Purify(item.Title, d.Spans)
	item.Content = Purify(item.Content, d.Spans)
	return item
}

// Count returns how many decisions hide or alter an item or flag it.
func Count(decisions []models.Decision) int {
	n := 0
	for _, d := range decisions {
		if d.Action != models.ActionShow || d.Flagged {
			n++
		}
	}
	return n
}
