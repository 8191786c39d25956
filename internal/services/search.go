package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const SearchLimit = 50

type SearchResult struct {
	Resources []*types.Resource `json:"resources"`
	Quizzes   []*types.Quiz     `json:"quizzes"`
}

type SearchService interface {
	// Search matches resources on title, description, tags and extracted text,
	// and quizzes on title and question text. An empty query lists everything.
	Search(dbc dbctx.Context, q string) (*SearchResult, error)
}

type searchService struct {
	log       *logger.Logger
	resources repos.ResourceRepo
	quizzes   repos.QuizRepo
}

func NewSearchService(baseLog *logger.Logger, resourceRepo repos.ResourceRepo, quizRepo repos.QuizRepo) SearchService {
	return &searchService{
		log:       baseLog.With("service", "SearchService"),
		resources: resourceRepo,
		quizzes:   quizRepo,
	}
}

func (ss *searchService) Search(dbc dbctx.Context, q string) (*SearchResult, error) {
	q = strings.TrimSpace(q)
	resources, err := ss.resources.List(dbc, repos.ResourceFilter{Query: q, Limit: SearchLimit})
	if err != nil {
		return nil, fmt.Errorf("search resources: %w", err)
	}
	quizzes, err := ss.quizzes.List(dbc, repos.QuizFilter{Query: q, Limit: SearchLimit})
	if err != nil {
		return nil, fmt.Errorf("search quizzes: %w", err)
	}
	if resources == nil {
		resources = []*types.Resource{}
	}
	if quizzes == nil {
		quizzes = []*types.Quiz{}
	}
	return &SearchResult{Resources: resources, Quizzes: quizzes}, nil
}
