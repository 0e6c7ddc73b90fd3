package domain

// DeliveryMethod identifies the presentation format of an exercise.
type DeliveryMethod string

// Supported delivery methods.
const (
	DeliveryMethodMultipleChoice  DeliveryMethod = "multiple_choice"
	DeliveryMethodTextTranslation DeliveryMethod = "text_translation"
	DeliveryMethodFlashcard       DeliveryMethod = "flashcard"
	DeliveryMethodFillBlank       DeliveryMethod = "fill_blank"
	DeliveryMethodDictation       DeliveryMethod = "dictation"
	DeliveryMethodPronunciation   DeliveryMethod = "pronunciation"
)

// Valid reports whether m is one of the supported delivery methods.
func (m DeliveryMethod) Valid() bool {
	switch m {
	case DeliveryMethodMultipleChoice,
		DeliveryMethodTextTranslation,
		DeliveryMethodFlashcard,
		DeliveryMethodFillBlank,
		DeliveryMethodDictation,
		DeliveryMethodPronunciation:
		return true
	default:
		return false
	}
}

// FreeText reports whether answers for this method are free-form text,
// which makes them eligible for grammar checking.
func (m DeliveryMethod) FreeText() bool {
	switch m {
	case DeliveryMethodTextTranslation,
		DeliveryMethodFlashcard,
		DeliveryMethodFillBlank,
		DeliveryMethodDictation:
		return true
	default:
		return false
	}
}

// AllowsMeaningMatch reports whether a match against the
// acceptable-alternatives list may count as correct. Translation-style
// answers legitimately vary in phrasing; every other method has a fixed
// expected token and must not silently accept paraphrase.
func (m DeliveryMethod) AllowsMeaningMatch() bool {
	return m == DeliveryMethodTextTranslation || m == DeliveryMethodFlashcard
}
