package answer

import (
	"fmt"
	"strings"

	"github.com/parlato/parlato-api/internal/domain"
)

// Feedback verbosity bands. Depth below the hint threshold yields no
// feedback text at all; the full band adds teaching context.
const (
	feedbackDepthHint = 0.45
	feedbackDepthFull = 0.75

	// DefaultFeedbackDepth applies when the user has no stored
	// preference.
	DefaultFeedbackDepth = 0.6

	correctAffirmation = "Correct! Well done."
)

// Feedback is the rendered pedagogical response for one validation.
type Feedback struct {
	Text             string
	Why              string
	NaturalPhrasing  string
	AcceptedVariants []string
}

// RenderFeedback maps the user's feedback verbosity and the verdict to
// the feedback surfaced with the validation result.
//
// A meaning-correct-but-inexact verdict bypasses the verbosity bands
// entirely: the user was understood but not idiomatic, so the first
// canonical form is suggested as the more natural phrasing and the
// remaining forms are listed as accepted variants. An exact match
// against a multi-form answer also surfaces the non-matched forms as
// accepted variants, even though no correction is needed.
func RenderFeedback(
	depth float64,
	verdict Verdict,
	method domain.DeliveryMethod,
	variant *domain.QuestionVariant,
	teaching *domain.Teaching,
) Feedback {
	correct := verdict.IsCorrect(method)

	if verdict.MeaningCorrect && !verdict.Exact && method.AllowsMeaningMatch() {
		fb := Feedback{}
		if len(verdict.Forms) > 0 {
			fb.NaturalPhrasing = verdict.Forms[0]
			fb.Text = "More natural phrasing: " + verdict.Forms[0]
			fb.AcceptedVariants = verdict.Forms[1:]
		}
		return fb
	}

	fb := Feedback{}

	if verdict.Exact && len(verdict.Forms) > 1 {
		variants := make([]string, 0, len(verdict.Forms)-1)
		for i, form := range verdict.Forms {
			if i != verdict.MatchedForm {
				variants = append(variants, form)
			}
		}
		fb.AcceptedVariants = variants
	}

	if depth < feedbackDepthHint {
		return fb
	}

	if !correct && variant != nil && variant.Why != "" {
		fb.Why = variant.Why
	}

	if depth < feedbackDepthFull {
		if !correct && variant != nil {
			fb.Text = variant.Hint
		}
		return fb
	}

	if correct {
		fb.Text = correctAffirmation
		return fb
	}

	var parts []string
	if variant != nil && variant.Hint != "" {
		parts = append(parts, variant.Hint)
	}
	if teaching != nil {
		if teaching.Tip != "" {
			parts = append(parts, teaching.Tip)
		}
		if teaching.LearningLanguageString != "" && teaching.UserLanguageString != "" {
			parts = append(parts, fmt.Sprintf("%s means %s",
				teaching.LearningLanguageString, teaching.UserLanguageString))
		}
	}
	fb.Text = strings.Join(parts, " ")

	return fb
}
