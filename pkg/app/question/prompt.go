package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	domainQuestion "github.com/memorylane/dailyquestion/pkg/domain/question"
	"github.com/memorylane/dailyquestion/pkg/infra/providers"
	"github.com/memorylane/dailyquestion/pkg/infra/services/rag"
	"github.com/memorylane/dailyquestion/pkg/infra/services/stories"
)

const systemPrompt = "당신은 어르신의 하루와 추억을 따뜻하게 되짚어 보도록 돕는 대화 도우미입니다. " +
	"반드시 JSON 객체 하나만 출력하세요."

var promptInstructions = []string{
	`출력 형식: {"question": "질문", "expected_answers": ["예상 답변", ...]}`,
	"질문은 한 문장으로, 존댓말로 짧고 쉽게 작성하세요.",
	"expected_answers에는 서로 다른 감정과 상황을 담은 자연스러운 답변을 3~5개 작성하세요.",
	"사용자의 이야기가 주어지면 그 내용과 자연스럽게 이어지는 질문을 만드세요.",
}

var ErrMalformedGeneration = errors.New("malformed generated question")

type generated struct {
	Question        string   `json:"question"`
	ExpectedAnswers []string `json:"expected_answers"`
}

func buildPrompt(userStories []stories.Story, passages []rag.Passage) string {
	var b strings.Builder
	b.WriteString(providers.FormatInstructions(promptInstructions))

	if len(userStories) > 0 {
		b.WriteString("\n[최근 이야기]\n")
		for _, s := range userStories {
			b.WriteString("- ")
			if s.Title != "" {
				b.WriteString(s.Title)
				b.WriteString(": ")
			}
			b.WriteString(truncate(s.Content, 400))
			b.WriteByte('\n')
		}
	}
	if len(passages) > 0 {
		b.WriteString("\n[관련 기억]\n")
		for _, p := range passages {
			b.WriteString("- ")
			b.WriteString(truncate(p.Text, 300))
			b.WriteByte('\n')
		}
	}

	b.WriteString("\n오늘 하루를 돌아볼 수 있는 질문 하나를 추천해 주세요.")
	return b.String()
}

// parseGenerated turns the model output into a question with at least one
// usable exemplar.
func parseGenerated(raw string) (*domainQuestion.Question, error) {
	var g generated
	if err := json.Unmarshal([]byte(providers.StripCodeFence(raw)), &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeneration, err)
	}
	content := strings.TrimSpace(g.Question)
	if content == "" {
		return nil, fmt.Errorf("%w: empty question", ErrMalformedGeneration)
	}

	answers := make([]string, 0, len(g.ExpectedAnswers))
	for _, a := range g.ExpectedAnswers {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		answers = append(answers, a)
		if len(answers) == domainQuestion.MaxExpected {
			break
		}
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: no expected answers", ErrMalformedGeneration)
	}

	q := &domainQuestion.Question{
		Content:         content,
		ExpectedAnswers: answers,
		Source:          domainQuestion.SourceGenerated,
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeneration, err)
	}
	return q, nil
}

func truncate(s string, max int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max]) + "…"
}
