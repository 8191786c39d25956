package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const (
	generatedQuestionCount = 5
	distractorCount        = 3
	stemPreviewRunes       = 80
	choicePreviewRunes     = 100
	// distractors are drawn from sentences [5, 15)
	distractorPoolStart = 5
	distractorPoolEnd   = 15
)

type GeneratedChoice struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type GeneratedQuestion struct {
	Text         string            `json:"text"`
	QuestionType string            `json:"question_type"`
	Choices      []GeneratedChoice `json:"choices"`
}

type GeneratorService interface {
	// Generate builds multiple-choice drafts from text, or from the PDF in file
	// when text is empty. Nothing is persisted.
	Generate(dbc dbctx.Context, text string, file *FileUpload) ([]GeneratedQuestion, error)
}

type generatorService struct {
	log       *logger.Logger
	files     FileService
	extractor Extractor
}

func NewGeneratorService(baseLog *logger.Logger, files FileService, extractor Extractor) GeneratorService {
	return &generatorService{
		log:       baseLog.With("service", "GeneratorService"),
		files:     files,
		extractor: extractor,
	}
}

func (gs *generatorService) Generate(dbc dbctx.Context, text string, file *FileUpload) ([]GeneratedQuestion, error) {
	if text == "" && file != nil && file.Reader != nil {
		data, mime, err := gs.files.Read(file)
		if err != nil {
			return nil, err
		}
		if gs.extractor != nil && (IsPDFMime(mime) || isPDF(data)) {
			extracted, err := gs.extractor.Extract(dbc.Ctx, data)
			if err != nil {
				gs.log.Warn("Generator extraction failed", "error", err)
			} else {
				text = extracted
			}
		}
	}
	if text == "" {
		return nil, apierr.BadRequest("text_or_pdf_required", fmt.Errorf("provide text or a PDF file"))
	}
	return GenerateQuestions(text), nil
}

// GenerateQuestions turns the first sentences of text into multiple-choice
// questions. The sentence itself is the correct choice; later sentences, or
// "Option N" placeholders, are the distractors.
func GenerateQuestions(text string) []GeneratedQuestion {
	sentences := splitSentences(text)
	out := []GeneratedQuestion{}
	for i, s := range sentences {
		if i == generatedQuestionCount {
			break
		}
		distractors := make([]string, 0, distractorCount)
		for j := distractorPoolStart; j < len(sentences) && j < distractorPoolEnd; j++ {
			if sentences[j] == s {
				continue
			}
			distractors = append(distractors, truncateRunes(sentences[j], choicePreviewRunes))
			if len(distractors) == distractorCount {
				break
			}
		}
		for len(distractors) < distractorCount {
			distractors = append(distractors, fmt.Sprintf("Option %d", len(distractors)+1))
		}
		choices := []GeneratedChoice{{Text: truncateRunes(s, choicePreviewRunes), IsCorrect: true}}
		for _, d := range distractors {
			choices = append(choices, GeneratedChoice{Text: d})
		}
		out = append(out, GeneratedQuestion{
			Text:         fmt.Sprintf("Which statement best matches: '%s...' ?", truncateRunes(s, stemPreviewRunes)),
			QuestionType: "mcq",
			Choices:      choices,
		})
	}
	return out
}

func splitSentences(text string) []string {
	parts := strings.Split(strings.ReplaceAll(text, "\n", " "), ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
