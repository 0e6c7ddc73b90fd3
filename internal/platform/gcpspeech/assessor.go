// Package gcpspeech adapts Google Cloud Speech-to-Text to the
// pronunciation-assessment collaborator interface. The learner's audio
// is recognized with per-word confidence enabled; the recognized words
// are then aligned against the reference text, and word confidences
// become per-word accuracy scores.
package gcpspeech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/parlato/parlato-api/internal/config"
	"github.com/parlato/parlato-api/internal/service/answer"
)

const recognizeTimeout = 30 * time.Second

// Assessor implements answer.PronunciationAssessor against the Cloud
// Speech API.
type Assessor struct {
	logger *slog.Logger
	client *speech.Client
}

// Verify interface compliance at compile time
var _ answer.PronunciationAssessor = (*Assessor)(nil)

// NewAssessor creates an Assessor. With an empty credentials file the
// client falls back to application default credentials.
func NewAssessor(ctx context.Context, logger *slog.Logger, cfg config.SpeechConfig) (*Assessor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	return &Assessor{
		logger: logger.With(slog.String("component", "gcpspeech_assessor")),
		client: client,
	}, nil
}

// Close releases the underlying gRPC connection.
func (a *Assessor) Close() error {
	if a == nil || a.client == nil {
		return nil
	}
	return a.client.Close()
}

// Assess implements answer.PronunciationAssessor.
func (a *Assessor) Assess(
	ctx context.Context,
	req answer.PronunciationRequest,
) (*answer.PronunciationAssessment, error) {
	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("audio cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, recognizeTimeout)
	defer cancel()

	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:         req.Locale,
			Encoding:             inferEncoding(req.AudioFormat),
			EnableWordConfidence: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("speech recognize: %w", err)
	}

	recognized, confidences := collectWords(resp)
	assessment := scoreAgainstReference(req.ReferenceText, recognized, confidences)

	a.logger.DebugContext(ctx, "pronunciation assessed",
		slog.String("locale", req.Locale),
		slog.Float64("score", assessment.PronunciationScore),
		slog.Int("word_count", len(assessment.Words)))

	return assessment, nil
}

func inferEncoding(format string) speechpb.RecognitionConfig_AudioEncoding {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "wav", "linear16":
		return speechpb.RecognitionConfig_LINEAR16
	case "flac":
		return speechpb.RecognitionConfig_FLAC
	case "mp3":
		return speechpb.RecognitionConfig_MP3
	case "ogg", "opus", "ogg_opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

// collectWords flattens the response into recognized words with their
// confidences. Alternatives without word detail fall back to the
// result-level confidence for every word of the transcript.
func collectWords(resp *speechpb.RecognizeResponse) ([]string, []float64) {
	var words []string
	var confidences []float64

	if resp == nil {
		return words, confidences
	}

	for _, result := range resp.Results {
		if result == nil || len(result.Alternatives) == 0 || result.Alternatives[0] == nil {
			continue
		}
		alt := result.Alternatives[0]

		if len(alt.Words) > 0 {
			for _, w := range alt.Words {
				if w == nil || w.Word == "" {
					continue
				}
				words = append(words, w.Word)
				confidences = append(confidences, float64(w.Confidence))
			}
			continue
		}

		for _, w := range strings.Fields(alt.Transcript) {
			words = append(words, w)
			confidences = append(confidences, float64(alt.Confidence))
		}
	}

	return words, confidences
}

// scoreAgainstReference aligns recognized words to the reference text
// in order. A reference word matched by recognition scores the
// recognizer's confidence; an unmatched one scores zero with an
// omission marker. The overall score is the mean word accuracy.
func scoreAgainstReference(
	reference string,
	recognized []string,
	confidences []float64,
) *answer.PronunciationAssessment {
	refWords := strings.Fields(reference)
	assessment := &answer.PronunciationAssessment{
		RecognizedText: strings.Join(recognized, " "),
		Words:          make([]answer.WordScore, 0, len(refWords)),
	}

	next := 0
	var total float64
	for _, refWord := range refWords {
		matched := -1
		for i := next; i < len(recognized); i++ {
			if wordsEqual(refWord, recognized[i]) {
				matched = i
				break
			}
		}

		score := answer.WordScore{Word: refWord}
		if matched >= 0 {
			conf := confidences[matched]
			if conf <= 0 {
				// The API omits confidence for some models
				conf = 1
			}
			score.Accuracy = conf * 100
			next = matched + 1
		} else {
			score.ErrorType = "omission"
		}

		total += score.Accuracy
		assessment.Words = append(assessment.Words, score)
	}

	if len(assessment.Words) > 0 {
		assessment.PronunciationScore = total / float64(len(assessment.Words))
	}

	return assessment
}

// wordsEqual compares words ignoring case and surrounding punctuation.
func wordsEqual(a, b string) bool {
	trim := func(s string) string {
		return strings.ToLower(strings.Trim(s, ".,;:!?¿¡\"'()"))
	}
	ta, tb := trim(a), trim(b)
	return ta != "" && ta == tb
}
