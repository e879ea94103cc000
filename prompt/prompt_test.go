package prompt

import (
	"strings"
	"testing"

	"github.com/elum-utils/cleen/models"
)

func TestBuildEmbedsItemsAndKeywords(t *testing.T) {
	got := Build(Request{
		Items: []models.Item{
			{ID: 7, Title: "hello", Content: "world", Author: "anon"},
			{ID: 9, Title: "second", Content: "body", Author: "me"},
		},
		Keywords:         []string{"욕설", "논란"},
		SensitivityLevel: models.SensitivityRelated,
	})
	for _, want := range []string{
		"키워드: 욕설, 논란",
		"민감도 레벨: 3 (관련 내용 포함)",
		"ID: 7\n제목: hello\n내용: world\n작성자: anon\n---",
		"ID: 9\n제목: second",
		"분석 기준 (민감도 레벨 3):\n- 키워드와 직접적으로 일치하는 단어",
		"쉼표로 구분해서",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt misses %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "filteredIds") {
		t.Fatalf("id-only prompt must not carry the JSON contract")
	}
}

func TestBuildPurifyContract(t *testing.T) {
	got := Build(Request{Keywords: []string{"x"}, SensitivityLevel: 1, Purify: true})
	if !strings.Contains(got, `"filteredIds"`) || !strings.Contains(got, `"purifyData"`) {
		t.Fatalf("purify prompt misses JSON contract:\n%s", got)
	}
	if strings.Contains(got, "쉼표로 구분해서") {
		t.Fatalf("purify prompt must not carry the id-only contract")
	}
}

func TestCriteriaWidensWithLevel(t *testing.T) {
	if got := Criteria(models.SensitivityExact); got != "- 키워드와 완전히 일치하는 단어만 검출" {
		t.Fatalf("unexpected level 1 criteria: %q", got)
	}
	for level := models.SensitivityVariants; level <= models.SensitivityAssociated; level++ {
		lines := strings.Split(Criteria(level), "\n")
		if len(lines) != int(level) {
			t.Fatalf("level %d: expected %d criteria, got %d", level, level, len(lines))
		}
		if lines[0] != "- 키워드와 직접적으로 일치하는 단어" {
			t.Fatalf("level %d must start with the direct match criterion: %q", level, lines[0])
		}
	}
	if !strings.Contains(Criteria(models.SensitivityVariants), `"욕설" → "ㅅㅂ"`) {
		t.Fatalf("level 2 must carry the slang example")
	}
}

func TestOutOfRangeLevelUsesDefault(t *testing.T) {
	if Description(0) != Description(models.DefaultSensitivity) {
		t.Fatalf("unexpected description for level 0")
	}
	if Criteria(9) != Criteria(models.DefaultSensitivity) {
		t.Fatalf("unexpected criteria for level 9")
	}
	got := Build(Request{Keywords: []string{"x"}, SensitivityLevel: 7})
	if !strings.Contains(got, "민감도 레벨: 2 (유사한 표현 포함)") {
		t.Fatalf("expected default level in prompt:\n%s", got)
	}
}

func TestBuildIsPure(t *testing.T) {
	req := Request{Items: []models.Item{{ID: 1, Title: "a"}}, Keywords: []string{"a"}, SensitivityLevel: 4}
	if Build(req) != Build(req) {
		t.Fatalf("build must be deterministic")
	}
}
