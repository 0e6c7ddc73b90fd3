package answer

import (
	"fmt"

	"github.com/parlato/parlato-api/internal/domain"
)

// Verdict is the outcome of comparing a submitted answer against its
// canonical forms. Exact and MeaningCorrect are independent: exact
// means the answer matched one of the primary canonical forms,
// meaning-correct means it matched a listed acceptable alternative
// instead.
type Verdict struct {
	Exact          bool
	MeaningCorrect bool

	// Forms holds the canonical answer forms (split on "/"), in
	// authored order and original casing, for feedback rendering.
	Forms []string

	// MatchedForm is the index into Forms of the form the answer
	// matched exactly, or -1.
	MatchedForm int
}

// IsCorrect resolves the verdict for one delivery method. Only
// translation-style methods accept a meaning-correct match as correct.
func (v Verdict) IsCorrect(method domain.DeliveryMethod) bool {
	if v.Exact {
		return true
	}
	return v.MeaningCorrect && method.AllowsMeaningMatch()
}

// Validate compares a raw submitted answer against the variant for one
// delivery method. The canonical answer source, comparison policy, and
// meaning-correct fallback all depend on the method:
//
//   - multiple choice compares the submitted option identifier against
//     the variant's correct option id, with no text normalization;
//   - translation and flashcard answers normalize and match any
//     /-delimited segment of the variant answer (falling back to the
//     teaching's user-language phrase), with the acceptable-alternatives
//     list as a meaning-correct fallback;
//   - fill-blank and dictation match against the variant answer or the
//     teaching's learning-language phrase, with no fallback.
//
// Pronunciation prompts are scored externally and never reach this
// function. Returns ErrMethodNotSupported when the variant cannot
// support the requested method.
func Validate(
	method domain.DeliveryMethod,
	variant *domain.QuestionVariant,
	teaching *domain.Teaching,
	rawAnswer string,
) (Verdict, error) {
	switch method {
	case domain.DeliveryMethodMultipleChoice:
		return validateMultipleChoice(variant, rawAnswer)

	case domain.DeliveryMethodTextTranslation, domain.DeliveryMethodFlashcard:
		canonical := variant.Answer
		if canonical == "" && teaching != nil {
			canonical = teaching.UserLanguageString
		}
		return validateText(canonical, variant.Alternatives, rawAnswer)

	case domain.DeliveryMethodFillBlank, domain.DeliveryMethodDictation:
		canonical := variant.Answer
		if canonical == "" && teaching != nil {
			canonical = teaching.LearningLanguageString
		}
		return validateText(canonical, "", rawAnswer)

	default:
		return Verdict{MatchedForm: -1}, fmt.Errorf(
			"%w: %s", ErrMethodNotSupported, method)
	}
}

// validateMultipleChoice checks strict identifier equality against the
// variant's correct option. Normalization never applies here.
func validateMultipleChoice(variant *domain.QuestionVariant, rawAnswer string) (Verdict, error) {
	if variant.CorrectOptionID == "" {
		return Verdict{MatchedForm: -1}, fmt.Errorf(
			"%w: multiple choice variant has no correct option", ErrMethodNotSupported)
	}

	verdict := Verdict{MatchedForm: -1}
	if rawAnswer == variant.CorrectOptionID {
		verdict.Exact = true
		verdict.MatchedForm = 0
	}
	return verdict, nil
}

// validateText normalizes the answer and matches it against every
// /-delimited segment of the canonical string, then against the
// alternatives list when no primary form matched.
func validateText(canonical, alternatives, rawAnswer string) (Verdict, error) {
	verdict := Verdict{
		Forms:       domain.SplitAnswerForms(canonical),
		MatchedForm: -1,
	}

	normalized := Normalize(rawAnswer)
	if normalized == "" {
		return verdict, nil
	}

	for i, form := range verdict.Forms {
		if Normalize(form) == normalized {
			verdict.Exact = true
			verdict.MatchedForm = i
			return verdict, nil
		}
	}

	for _, alt := range domain.SplitAnswerForms(alternatives) {
		if Normalize(alt) == normalized {
			verdict.MeaningCorrect = true
			return verdict, nil
		}
	}

	return verdict, nil
}
