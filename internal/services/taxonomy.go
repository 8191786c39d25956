package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type SubjectInput struct {
	Name string `json:"name" validate:"required,max=200"`
}

type TopicInput struct {
	SubjectID uuid.UUID `json:"subject"`
	Name      string    `json:"name" validate:"required,max=200"`
}

type ChapterInput struct {
	TopicID uuid.UUID `json:"topic"`
	Title   string    `json:"title" validate:"required,max=200"`
}

// TaxonomyDocument is the YAML import format:
//
//	subjects:
//	  - name: Math
//	    topics:
//	      - name: Algebra
//	        chapters: [Linear equations, Quadratics]
type TaxonomyDocument struct {
	Subjects []struct {
		Name   string `yaml:"name"`
		Topics []struct {
			Name     string   `yaml:"name"`
			Chapters []string `yaml:"chapters"`
		} `yaml:"topics"`
	} `yaml:"subjects"`
}

type ImportResult struct {
	Subjects int `json:"subjects"`
	Topics   int `json:"topics"`
	Chapters int `json:"chapters"`
}

type TaxonomyService interface {
	CreateSubject(dbc dbctx.Context, in SubjectInput) (*types.Subject, error)
	GetSubject(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error)
	ListSubjects(dbc dbctx.Context) ([]*types.Subject, error)
	UpdateSubject(dbc dbctx.Context, id uuid.UUID, in SubjectInput) (*types.Subject, error)
	DeleteSubject(dbc dbctx.Context, id uuid.UUID) error

	CreateTopic(dbc dbctx.Context, in TopicInput) (*types.Topic, error)
	GetTopic(dbc dbctx.Context, id uuid.UUID) (*types.Topic, error)
	ListTopics(dbc dbctx.Context, subjectID *uuid.UUID) ([]*types.Topic, error)
	UpdateTopic(dbc dbctx.Context, id uuid.UUID, in TopicInput) (*types.Topic, error)
	DeleteTopic(dbc dbctx.Context, id uuid.UUID) error

	CreateChapter(dbc dbctx.Context, in ChapterInput) (*types.Chapter, error)
	GetChapter(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error)
	ListChapters(dbc dbctx.Context, topicID *uuid.UUID) ([]*types.Chapter, error)
	UpdateChapter(dbc dbctx.Context, id uuid.UUID, in ChapterInput) (*types.Chapter, error)
	DeleteChapter(dbc dbctx.Context, id uuid.UUID) error

	// Import creates whatever part of the document is missing. Existing rows are kept.
	Import(dbc dbctx.Context, r io.Reader) (*ImportResult, error)
}

type taxonomyService struct {
	db          *gorm.DB
	log         *logger.Logger
	subjectRepo repos.SubjectRepo
	topicRepo   repos.TopicRepo
	chapterRepo repos.ChapterRepo
}

func NewTaxonomyService(
	db *gorm.DB,
	log *logger.Logger,
	subjectRepo repos.SubjectRepo,
	topicRepo repos.TopicRepo,
	chapterRepo repos.ChapterRepo,
) TaxonomyService {
	return &taxonomyService{
		db:          db,
		log:         log.With("service", "TaxonomyService"),
		subjectRepo: subjectRepo,
		topicRepo:   topicRepo,
		chapterRepo: chapterRepo,
	}
}

func errAlreadyExists(what, name string) error {
	return apierr.Conflict("already_exists", fmt.Errorf("%s %q already exists", what, name))
}

func (ts *taxonomyService) CreateSubject(dbc dbctx.Context, in SubjectInput) (*types.Subject, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput("invalid_subject", in); err != nil {
		return nil, err
	}
	s := &types.Subject{Name: in.Name}
	err := dbc.Transaction(ts.db, func(inner dbctx.Context) error {
		existing, err := ts.subjectRepo.GetByName(inner, in.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return errAlreadyExists("subject", in.Name)
		}
		_, err = ts.subjectRepo.Create(inner, []*types.Subject{s})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (ts *taxonomyService) GetSubject(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error) {
	s, err := ts.subjectRepo.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apierr.NotFound("subject_not_found")
	}
	return s, nil
}

func (ts *taxonomyService) ListSubjects(dbc dbctx.Context) ([]*types.Subject, error) {
	return ts.subjectRepo.List(dbc)
}

func (ts *taxonomyService) UpdateSubject(dbc dbctx.Context, id uuid.UUID, in SubjectInput) (*types.Subject, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput("invalid_subject", in); err != nil {
		return nil, err
	}
	var out *types.Subject
	err := dbc.Transaction(ts.db, func(inner dbctx.Context) error {
		s, err := ts.GetSubject(inner, id)
		if err != nil {
			return err
		}
		existing, err := ts.subjectRepo.GetByName(inner, in.Name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != id {
			return errAlreadyExists("subject", in.Name)
		}
		s.Name = in.Name
		if err := ts.subjectRepo.Update(inner, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	return out, err
}

func (ts *taxonomyService) DeleteSubject(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Transaction(ts.db, func(inner dbctx.Context) error {
		if _, err := ts.GetSubject(inner, id); err != nil {
			return err
		}
		return ts.subjectRepo.Delete(inner, id)
	})
}

func (ts *taxonomyService) CreateTopic(dbc dbctx.Context, in TopicInput) (*types.Topic, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.SubjectID == uuid.Nil {
		return nil, apierr.BadRequest("subject_required", fmt.Errorf("subject is required"))
	}
	if err := validateInput("invalid_topic", in); err != nil {
		return nil, err
	}
	t := &types.Topic{SubjectID: in.SubjectID, Name: in.Name}
	err := dbc.Transaction(ts.db, func(inner dbctx.Context) error {
		if err := ts.requireSubject(inner, in.SubjectID); err != nil {
			return err
		}
		existing, err := ts.topicRepo.GetBySubjectAndName(inner, in.SubjectID, in.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return errAlreadyExists("topic", in.Name)
		}
		_, err = ts.topicRepo.Create(inner, []*types.Topic{t})
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (ts *taxonomyService) GetTopic(dbc dbctx.Context, id uuid.UUID) (*types.Topic, error) {
	t, err := ts.topicRepo.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apierr.NotFound("topic_not_found")
	}
	return t, nil
}

func (ts *taxonomyService) ListTopics(dbc dbctx.Context, subjectID *uuid.UUID) ([]*types.Topic, error) {
	return ts.topicRepo.List(dbc, subjectID)
}

func (ts *taxonomyService) UpdateTopic(dbc dbctx.Context, id uuid.UUID, in TopicInput) (*types.Topic, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput("invalid_topic", in); err != nil {
		return nil, err
	}
	var out *types.Topic
	err := dbc.Transaction(ts.db, func(inner dbctx.Context) error {
		t, err := ts.GetTopic(inner, id)
		if err != nil {
			return err
		}
		if in.SubjectID != uuid.Nil && in.SubjectID != t.SubjectID {
			if err := ts.requireSubject(inner, in.SubjectID); err != nil {
				return err
			}
			t.SubjectID = in.SubjectID
		}
		existing, err := ts.topicRepo.GetBySubjectAndName(inner, t.SubjectID, in.Name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != id {
			return errAlreadyExists("topic", in.Name)
		}
		t.Name = in.Name
		if err := ts.topicRepo.Update(inner, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

func (ts *taxonomyService) DeleteTopic(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Transaction(ts.db, func(inner dbctx.Context) error {
		if _, err := ts.GetTopic(inner, id); err != nil {
			return err
		}
		return ts.topicRepo.Delete(inner, id)
	})
}

func (ts *taxonomyService) CreateChapter(dbc dbctx.Context, in ChapterInput) (*types.Chapter, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.TopicID == uuid.Nil {
		return nil, apierr.BadRequest("topic_required", fmt.Errorf("topic is required"))
	}
	if err := validateInput("invalid_chapter", in); err != nil {
		return nil, err
	}
	c := &types.Chapter{TopicID: in.TopicID, Title: in.Title}
	err := dbc.Transaction(ts.db, func(inner dbctx.Context) error {
		if err := ts.requireTopic(inner, in.TopicID); err != nil {
			return err
		}
		existing, err := ts.chapterRepo.GetByTopicAndTitle(inner, in.TopicID, in.Title)
		if err != nil {
			return err
		}
		if existing != nil {
			return errAlreadyExists("chapter", in.Title)
		}
		_, err = ts.chapterRepo.Create(inner, []*types.Chapter{c})
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (ts *taxonomyService) GetChapter(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error) {
	c, err := ts.chapterRepo.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apierr.NotFound("chapter_not_found")
	}
	return c, nil
}

func (ts *taxonomyService) ListChapters(dbc dbctx.Context, topicID *uuid.UUID) ([]*types.Chapter, error) {
	return ts.chapterRepo.List(dbc, topicID)
}

func (ts *taxonomyService) UpdateChapter(dbc dbctx.Context, id uuid.UUID, in ChapterInput) (*types.Chapter, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateInput("invalid_chapter", in); err != nil {
		return nil, err
	}
	var out *types.Chapter
	err := dbc.Transaction(ts.db, func(inner dbctx.Context) error {
		c, err := ts.GetChapter(inner, id)
		if err != nil {
			return err
		}
		if in.TopicID != uuid.Nil && in.TopicID != c.TopicID {
			if err := ts.requireTopic(inner, in.TopicID); err != nil {
				return err
			}
			c.TopicID = in.TopicID
		}
		existing, err := ts.chapterRepo.GetByTopicAndTitle(inner, c.TopicID, in.Title)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != id {
			return errAlreadyExists("chapter", in.Title)
		}
		c.Title = in.Title
		if err := ts.chapterRepo.Update(inner, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (ts *taxonomyService) DeleteChapter(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Transaction(ts.db, func(inner dbctx.Context) error {
		if _, err := ts.GetChapter(inner, id); err != nil {
			return err
		}
		return ts.chapterRepo.Delete(inner, id)
	})
}

func (ts *taxonomyService) requireSubject(dbc dbctx.Context, id uuid.UUID) error {
	s, err := ts.subjectRepo.GetByID(dbc, id)
	if err != nil {
		return err
	}
	if s == nil {
		return apierr.BadRequest("subject_not_found", fmt.Errorf("subject %s does not exist", id))
	}
	return nil
}

func (ts *taxonomyService) requireTopic(dbc dbctx.Context, id uuid.UUID) error {
	t, err := ts.topicRepo.GetByID(dbc, id)
	if err != nil {
		return err
	}
	if t == nil {
		return apierr.BadRequest("topic_not_found", fmt.Errorf("topic %s does not exist", id))
	}
	return nil
}

func (ts *taxonomyService) Import(dbc dbctx.Context, r io.Reader) (*ImportResult, error) {
	var doc TaxonomyDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, apierr.BadRequest("invalid_taxonomy_document", fmt.Errorf("decode yaml: %w", err))
	}
	res := &ImportResult{}
	err := dbc.Transaction(ts.db, func(inner dbctx.Context) error {
		for _, sd := range doc.Subjects {
			name := strings.TrimSpace(sd.Name)
			if name == "" {
				continue
			}
			subject, err := ts.subjectRepo.GetByName(inner, name)
			if err != nil {
				return err
			}
			if subject == nil {
				subject = &types.Subject{Name: name}
				if _, err := ts.subjectRepo.Create(inner, []*types.Subject{subject}); err != nil {
					return fmt.Errorf("create subject %q: %w", name, err)
				}
				res.Subjects++
			}
			for _, td := range sd.Topics {
				tname := strings.TrimSpace(td.Name)
				if tname == "" {
					continue
				}
				topic, err := ts.topicRepo.GetBySubjectAndName(inner, subject.ID, tname)
				if err != nil {
					return err
				}
				if topic == nil {
					topic = &types.Topic{SubjectID: subject.ID, Name: tname}
					if _, err := ts.topicRepo.Create(inner, []*types.Topic{topic}); err != nil {
						return fmt.Errorf("create topic %q: %w", tname, err)
					}
					res.Topics++
				}
				for _, title := range td.Chapters {
					title = strings.TrimSpace(title)
					if title == "" {
						continue
					}
					ch, err := ts.chapterRepo.GetByTopicAndTitle(inner, topic.ID, title)
					if err != nil {
						return err
					}
					if ch != nil {
						continue
					}
					if _, err := ts.chapterRepo.Create(inner, []*types.Chapter{{TopicID: topic.ID, Title: title}}); err != nil {
						return fmt.Errorf("create chapter %q: %w", title, err)
					}
					res.Chapters++
				}
			}
		}
		return nil
	})
	if err != nil {
		ts.log.Warn("Taxonomy import failed", "error", err)
		return nil, err
	}
	ts.log.Info("Taxonomy imported", "subjects", res.Subjects, "topics", res.Topics, "chapters", res.Chapters)
	return res, nil
}

// taxonomyRefs checks that optional subject/topic/chapter references point at existing rows.
type taxonomyRefs struct {
	subjects repos.SubjectRepo
	topics   repos.TopicRepo
	chapters repos.ChapterRepo
}

func (t taxonomyRefs) check(dbc dbctx.Context, subjectID, topicID, chapterID *uuid.UUID) error {
	if subjectID != nil {
		s, err := t.subjects.GetByID(dbc, *subjectID)
		if err != nil {
			return err
		}
		if s == nil {
			return apierr.BadRequest("subject_not_found", fmt.Errorf("subject %s does not exist", *subjectID))
		}
	}
	if topicID != nil {
		tp, err := t.topics.GetByID(dbc, *topicID)
		if err != nil {
			return err
		}
		if tp == nil {
			return apierr.BadRequest("topic_not_found", fmt.Errorf("topic %s does not exist", *topicID))
		}
	}
	if chapterID != nil {
		c, err := t.chapters.GetByID(dbc, *chapterID)
		if err != nil {
			return err
		}
		if c == nil {
			return apierr.BadRequest("chapter_not_found", fmt.Errorf("chapter %s does not exist", *chapterID))
		}
	}
	return nil
}
