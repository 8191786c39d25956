package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const (
	snippetRadius    = 200
	chatNoMatch      = "I couldn't find anything relevant in your materials."
	chatEmptySnippet = "I found a related resource but couldn't extract a preview."
)

type ChatInput struct {
	Question  string     `json:"question"`
	SubjectID *uuid.UUID `json:"subject"`
	TopicID   *uuid.UUID `json:"topic"`
	ChapterID *uuid.UUID `json:"chapter"`
}

type ChatAnswer struct {
	Answer        string     `json:"answer"`
	ResourceID    *uuid.UUID `json:"resource_id"`
	ResourceTitle *string    `json:"resource_title"`
}

type ChatService interface {
	// Ask answers with a snippet from the newest resource matching the question.
	Ask(dbc dbctx.Context, in ChatInput) (*ChatAnswer, error)
}

type chatService struct {
	log       *logger.Logger
	resources repos.ResourceRepo
}

func NewChatService(baseLog *logger.Logger, resourceRepo repos.ResourceRepo) ChatService {
	return &chatService{
		log:       baseLog.With("service", "ChatService"),
		resources: resourceRepo,
	}
}

func (cs *chatService) Ask(dbc dbctx.Context, in ChatInput) (*ChatAnswer, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, apierr.BadRequest("question_required", fmt.Errorf("question is required"))
	}
	found, err := cs.resources.List(dbc, repos.ResourceFilter{
		SubjectID: in.SubjectID,
		TopicID:   in.TopicID,
		ChapterID: in.ChapterID,
		Query:     question,
		Limit:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("find resource: %w", err)
	}
	if len(found) == 0 {
		return &ChatAnswer{Answer: chatNoMatch}, nil
	}
	best := found[0]
	answer := Snippet(resourceText(best), question)
	if answer == "" {
		answer = chatEmptySnippet
	}
	id, title := best.ID, best.Title
	return &ChatAnswer{Answer: answer, ResourceID: &id, ResourceTitle: &title}, nil
}

// resourceText prefers the newest version with extracted text, then the description.
func resourceText(r *types.Resource) string {
	for _, v := range r.Versions {
		if v.ExtractedText != "" {
			return v.ExtractedText
		}
	}
	return r.Description
}

// Snippet returns up to snippetRadius runes either side of the first
// case-insensitive match of q in text (or of the start of text when q is
// absent), marking truncated ends with "...".
func Snippet(text, q string) string {
	runes := []rune(text)
	idx := runeIndexFold(runes, []rune(q))
	if idx < 0 {
		idx = 0
	}
	start := idx - snippetRadius
	if start < 0 {
		start = 0
	}
	end := idx + snippetRadius
	if end > len(runes) {
		end = len(runes)
	}
	snippet := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		snippet = "... " + snippet
	}
	if end < len(runes) {
		snippet = snippet + " ..."
	}
	return snippet
}

// runeIndexFold finds needle in haystack ignoring case, returning a rune offset.
func runeIndexFold(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if unicode.ToLower(haystack[i+j]) != unicode.ToLower(needle[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
