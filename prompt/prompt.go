// Package prompt renders classification requests for the remote classifier.
package prompt

import (
	"strconv"
	"strings"

	"github.com/elum-utils/cleen/models"
)

// Request is everything the prompt embeds.
type Request struct {
	Items            []models.Item
	Keywords         []string
	SensitivityLevel models.SensitivityLevel
	// Purify selects the JSON span contract instead of the id list contract.
	Purify bool
}

const (
	criterionExact    = "- 키워드와 완전히 일치하는 단어만 검출"
	criterionDirect   = "- 키워드와 직접적으로 일치하는 단어"
	criterionVariants = "- 키워드의 변형이나 은어, 줄임말"
	criterionRelated  = "- 키워드와 의미적으로 관련된 내용"
	criterionAny      = "- 키워드와 조금이라도 연관성이 있는 모든 내용"
)

// criteria is indexed by level-1.
var criteria = [...][]string{
	{criterionExact},
	{criterionDirect, criterionVariants + ` (예: "욕설" → "ㅅㅂ", "시발")`},
	{criterionDirect, criterionVariants, criterionRelated + ` (예: "욕설" → 실제 욕설 표현)`},
	{criterionDirect, criterionVariants, criterionRelated, criterionAny},
}

const idOnlyContract = `중요: 해당하는 게시물 ID들만 쉼표로 구분해서 반환하세요. 다른 설명이나 텍스트는 절대 포함하지 마세요.
예시: 1,3,5
해당하는 게시물이 없으면 빈 문자열 반환`

const purifyContract = `중요: 다음 JSON 형식으로만 응답하세요. 다른 설명이나 텍스트는 절대 포함하지 마세요.
{
  "filteredIds": [1, 3, 5],
  "purifyData": {
    "1": ["ㅅㅂ", "시발"],
    "3": ["논란적인"],
    "5": ["19금"]
  }
}

해당하는 게시물이 없으면:
{
  "filteredIds": [],
  "purifyData": {}
}`

// Description returns the short label for a sensitivity level.
// Out-of-range levels get the default level's label.
func Description(level models.SensitivityLevel) string {
	switch level {
	case models.SensitivityExact:
		return "정확한 키워드 일치만 검출"
	case models.SensitivityVariants:
		return "유사한 표현 포함"
	case models.SensitivityRelated:
		return "관련 내용 포함"
	case models.SensitivityAssociated:
		return "연관성 있는 모든 내용"
	default:
		return Description(models.DefaultSensitivity)
	}
}

// Criteria returns the matching criteria for a level, one bullet per line.
// Every level above the first widens the previous one.
func Criteria(level models.SensitivityLevel) string {
	if !level.Valid() {
		level = models.DefaultSensitivity
	}
	return strings.Join(criteria[level-1], "\n")
}

// Build renders the instruction text. It is a pure function of req.
func Build(req Request) string {
	level := req.SensitivityLevel
	if !level.Valid() {
		level = models.DefaultSensitivity
	}
	lv := strconv.Itoa(int(level))

	var b strings.Builder
	if req.Purify {
		b.WriteString("다음 게시물들을 분석해서 키워드와 관련된 내용이 포함된 게시물의 ID와 해당 부분의 텍스트를 반환해주세요.\n\n")
	} else {
		b.WriteString("다음 게시물들을 분석해서 키워드와 관련된 내용이 포함된 게시물의 ID만 반환해주세요.\n\n")
	}
	b.WriteString("키워드: ")
	b.WriteString(strings.Join(req.Keywords, ", "))
	b.WriteString("\n민감도 레벨: ")
	b.WriteString(lv)
	b.WriteString(" (")
	b.WriteString(Description(level))
	b.WriteString(")\n\n게시물들:\n")
	for _, item := range req.Items {
		writeItem(&b, item)
	}
	b.WriteString("\n분석 기준 (민감도 레벨 ")
	b.WriteString(lv)
	b.WriteString("):\n")
	b.WriteString(Criteria(level))
	b.WriteString("\n\n")
	if req.Purify {
		b.WriteString(purifyContract)
	} else {
		b.WriteString(idOnlyContract)
	}
	b.WriteByte('\n')
	return b.String()
}

func writeItem(b *strings.Builder, item models.Item) {
	b.WriteString("ID: ")
	b.WriteString(strconv.FormatInt(item.ID, 10))
	b.WriteString("\n제목: ")
	b.WriteString(item.Title)
	b.WriteString("\n내용: ")
	b.WriteString(item.Content)
	b.WriteString("\n작성자: ")
	b.WriteString(item.Author)
	b.WriteString("\n---\n")
}
