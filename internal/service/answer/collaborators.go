package answer

import "context"

// GrammarResult is the external grammar checker's assessment of one
// piece of free text.
type GrammarResult struct {
	Score      int `json:"score"`       // 0-100, derived from issue count
	IssueCount int `json:"issue_count"` // number of grammar issues found
}

// GrammarChecker is the external grammar collaborator. A (nil, nil)
// return means the check was indeterminate (timeout, transport failure,
// unparseable response); callers must omit the grammar signal in that
// case, never treat it as zero. Implementations apply their own bounded
// timeout and never propagate transport errors.
type GrammarChecker interface {
	CheckGrammar(ctx context.Context, text, languageCode string) (*GrammarResult, error)
}

// GrammarScoreFromIssues derives the 0-100 grammatical-correctness
// score from an issue count: each issue costs 15 points, floored at 0.
func GrammarScoreFromIssues(issueCount int) int {
	penalty := issueCount * 15
	if penalty > 100 {
		penalty = 100
	}
	return 100 - penalty
}

// maxGrammarCheckChars bounds the cost of a grammar check. Longer text
// is treated as automatically perfect rather than sent to the external
// service.
const maxGrammarCheckChars = 20000

// PronunciationRequest carries one pronunciation assessment: the
// user's audio, the text they were asked to read, and the locale to
// recognize in.
type PronunciationRequest struct {
	AudioBase64   string
	AudioFormat   string
	ReferenceText string
	Locale        string
}

// WordScore is the assessor's verdict for a single word.
type WordScore struct {
	Word      string  `json:"word"`
	Accuracy  float64 `json:"accuracy"` // 0-100
	ErrorType string  `json:"error_type,omitempty"`
}

// PronunciationAssessment is the external assessor's full result.
type PronunciationAssessment struct {
	RecognizedText     string      `json:"recognized_text"`
	PronunciationScore float64     `json:"pronunciation_score"` // 0-100
	Words              []WordScore `json:"words"`
}

// PronunciationAssessor is the external pronunciation collaborator.
type PronunciationAssessor interface {
	Assess(ctx context.Context, req PronunciationRequest) (*PronunciationAssessment, error)
}
