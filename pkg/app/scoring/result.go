package scoring

type Status string

const (
	StatusScored   Status = "scored"
	StatusUnscored Status = "unscored"
)

const (
	ReasonEmptyAnswer      = "empty_answer"
	ReasonEmptyQuestion    = "empty_question"
	ReasonNoExemplars      = "no_exemplars"
	ReasonEmbeddingFailed  = "embedding_failed"
	ReasonInvalidEmbedding = "invalid_embedding"
	ReasonNoSimilarities   = "no_similarities"
	ReasonCancelled        = "cancelled"
)

// Result is the outcome of scoring one answer. Value is set only when Status
// is StatusScored, Reason only when it is StatusUnscored.
type Result struct {
	Status Status   `json:"status"`
	Value  *float64 `json:"value,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

func Scored(value float64) Result {
	return Result{Status: StatusScored, Value: &value}
}

func Unscored(reason string) Result {
	return Result{Status: StatusUnscored, Reason: reason}
}

func (r Result) IsScored() bool {
	return r.Status == StatusScored && r.Value != nil
}

// Score returns the value, or nil when the answer was not scored.
func (r Result) Score() *float64 {
	if !r.IsScored() {
		return nil
	}
	v := *r.Value
	return &v
}
