package question

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/memorylane/dailyquestion/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeforeCreate_Defaults(t *testing.T) {
	q := &Question{Content: "  오늘 기분 어떠세요?  "}

	require.NoError(t, q.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, q.ID)
	assert.Equal(t, SourceManual, q.Source)
	assert.Equal(t, "오늘 기분 어떠세요?", q.Content)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		q     Question
		field string
	}{
		{"empty content", Question{Content: " ", Source: SourceManual}, "content"},
		{"too long", Question{Content: strings.Repeat("가", MaxContentLength+1), Source: SourceManual}, "content"},
		{"bad source", Question{Content: "q", Source: "imported"}, "source"},
		{"too many exemplars", Question{Content: "q", Source: SourceManual, ExpectedAnswers: make([]string, MaxExpected+1)}, "expected_answers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			require.Error(t, err)
			var v *domain.ValidationError
			require.ErrorAs(t, err, &v)
			assert.Equal(t, tt.field, v.Field)
		})
	}
}

func TestExemplars_SkipsBlank(t *testing.T) {
	q := Question{ExpectedAnswers: []string{"기뻐요", " ", "", "슬퍼요"}}
	assert.Equal(t, []string{"기뻐요", "슬퍼요"}, q.Exemplars())
}
