package services

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/observability"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type ChoiceInput struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionInput struct {
	// QuizID is only read by the standalone question endpoints.
	QuizID       uuid.UUID     `json:"quiz"`
	Text         string        `json:"text" validate:"required"`
	QuestionType string        `json:"question_type"`
	Difficulty   string        `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Explanation  string        `json:"explanation"`
	Choices      []ChoiceInput `json:"choices" validate:"dive"`
}

type QuizInput struct {
	SubjectID        *uuid.UUID      `json:"subject"`
	TopicID          *uuid.UUID      `json:"topic"`
	ChapterID        *uuid.UUID      `json:"chapter"`
	Title            string          `json:"title" validate:"required,max=255"`
	IsTimed          bool            `json:"is_timed"`
	TimeLimitSeconds int             `json:"time_limit_seconds" validate:"min=0"`
	RandomizeOrder   bool            `json:"randomize_order"`
	Questions        []QuestionInput `json:"questions" validate:"dive"`
}

type AnswerInput struct {
	QuestionID       uuid.UUID  `json:"question"`
	SelectedChoiceID *uuid.UUID `json:"selected_choice"`
	TextAnswer       string     `json:"text_answer"`
}

type GradeInput struct {
	StudentID        *uuid.UUID    `json:"student"`
	Answers          []AnswerInput `json:"answers"`
	TimeTakenSeconds int           `json:"time_taken_seconds"`
}

// DashboardInvalidator drops cached per-user aggregates after a new attempt.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type QuizService interface {
	CreateQuiz(dbc dbctx.Context, creatorID uuid.UUID, in QuizInput) (*types.Quiz, error)
	GetQuiz(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error)
	ListQuizzes(dbc dbctx.Context, f repos.QuizFilter) ([]*types.Quiz, error)
	// UpdateQuiz writes scalar fields only; questions go through the question methods.
	UpdateQuiz(dbc dbctx.Context, actorID, id uuid.UUID, in QuizInput) (*types.Quiz, error)
	DeleteQuiz(dbc dbctx.Context, actorID, id uuid.UUID) error

	CreateQuestion(dbc dbctx.Context, actorID uuid.UUID, in QuestionInput) (*types.Question, error)
	GetQuestion(dbc dbctx.Context, id uuid.UUID) (*types.Question, error)
	ListQuestions(dbc dbctx.Context, quizID *uuid.UUID) ([]*types.Question, error)
	// UpdateQuestion replaces the choices only when in.Choices is non-nil.
	UpdateQuestion(dbc dbctx.Context, actorID, id uuid.UUID, in QuestionInput) (*types.Question, error)
	DeleteQuestion(dbc dbctx.Context, actorID, id uuid.UUID) error

	// Take returns the quiz questions, shuffled when the quiz asks for it.
	// A non-nil seed makes the order reproducible.
	Take(dbc dbctx.Context, quizID uuid.UUID, seed *int64) ([]types.Question, error)
	// Grade scores one submission and stores it as a new attempt. Nothing is
	// written unless every answer resolves.
	Grade(dbc dbctx.Context, quizID uuid.UUID, in GradeInput) (*types.QuizAttempt, error)

	ListAttempts(dbc dbctx.Context, studentID uuid.UUID, quizID *uuid.UUID) ([]*types.QuizAttempt, error)
	GetAttempt(dbc dbctx.Context, actorID, id uuid.UUID) (*types.QuizAttempt, error)
	DeleteAttempt(dbc dbctx.Context, actorID, id uuid.UUID) error
}

type quizService struct {
	db        *gorm.DB
	log       *logger.Logger
	quizzes   repos.QuizRepo
	questions repos.QuestionRepo
	attempts  repos.QuizAttemptRepo
	users     repos.UserRepo
	refs      taxonomyRefs
	dashboard DashboardInvalidator
	metrics   *observability.Metrics
}

func NewQuizService(
	db *gorm.DB,
	baseLog *logger.Logger,
	quizRepo repos.QuizRepo,
	questionRepo repos.QuestionRepo,
	attemptRepo repos.QuizAttemptRepo,
	userRepo repos.UserRepo,
	subjectRepo repos.SubjectRepo,
	topicRepo repos.TopicRepo,
	chapterRepo repos.ChapterRepo,
	dashboard DashboardInvalidator,
	metrics *observability.Metrics,
) QuizService {
	return &quizService{
		db:        db,
		log:       baseLog.With("service", "QuizService"),
		quizzes:   quizRepo,
		questions: questionRepo,
		attempts:  attemptRepo,
		users:     userRepo,
		refs:      taxonomyRefs{subjects: subjectRepo, topics: topicRepo, chapters: chapterRepo},
		dashboard: dashboard,
		metrics:   metrics,
	}
}

func normalizeQuestionInput(in *QuestionInput) {
	in.Text = strings.TrimSpace(in.Text)
	in.QuestionType = strings.ToLower(strings.TrimSpace(in.QuestionType))
	in.Difficulty = strings.ToLower(strings.TrimSpace(in.Difficulty))
	if in.Difficulty == "" {
		in.Difficulty = types.DifficultyMedium
	}
	in.Explanation = strings.TrimSpace(in.Explanation)
	for i := range in.Choices {
		in.Choices[i].Text = strings.TrimSpace(in.Choices[i].Text)
	}
}

func checkQuestionInput(in QuestionInput) error {
	if !types.ValidQuestionType(in.QuestionType) {
		return apierr.BadRequest("invalid_question_type", fmt.Errorf("question_type must be one of: mcq, tf, short"))
	}
	if err := validateInput("invalid_question", in); err != nil {
		return err
	}
	if in.Choices != nil && types.RequiresCorrectChoice(in.QuestionType) && !hasCorrectChoice(in.Choices) {
		return errMissingCorrectChoice(in.Text)
	}
	return nil
}

func errMissingCorrectChoice(text string) error {
	return apierr.BadRequest("missing_correct_choice", fmt.Errorf("question %q needs at least one correct choice", text))
}

func hasCorrectChoice(choices []ChoiceInput) bool {
	for _, c := range choices {
		if c.IsCorrect {
			return true
		}
	}
	return false
}

func buildChoices(in []ChoiceInput) []types.Choice {
	out := make([]types.Choice, 0, len(in))
	for i, c := range in {
		out = append(out, types.Choice{Position: i, Text: c.Text, IsCorrect: c.IsCorrect})
	}
	return out
}

func (qs *quizService) CreateQuiz(dbc dbctx.Context, creatorID uuid.UUID, in QuizInput) (*types.Quiz, error) {
	in.Title = strings.TrimSpace(in.Title)
	for i := range in.Questions {
		normalizeQuestionInput(&in.Questions[i])
		if err := checkQuestionInput(in.Questions[i]); err != nil {
			return nil, err
		}
		// nested questions are created with their choices, so an absent list is an empty one
		if types.RequiresCorrectChoice(in.Questions[i].QuestionType) && !hasCorrectChoice(in.Questions[i].Choices) {
			return nil, errMissingCorrectChoice(in.Questions[i].Text)
		}
	}
	if err := validateInput("invalid_quiz", in); err != nil {
		return nil, err
	}
	quiz := &types.Quiz{
		CreatorID:        creatorID,
		SubjectID:        in.SubjectID,
		TopicID:          in.TopicID,
		ChapterID:        in.ChapterID,
		Title:            in.Title,
		IsTimed:          in.IsTimed,
		TimeLimitSeconds: in.TimeLimitSeconds,
		RandomizeOrder:   in.RandomizeOrder,
	}
	for i, q := range in.Questions {
		quiz.Questions = append(quiz.Questions, types.Question{
			Position:     i,
			Text:         q.Text,
			QuestionType: q.QuestionType,
			Difficulty:   q.Difficulty,
			Explanation:  q.Explanation,
			Choices:      buildChoices(q.Choices),
		})
	}
	var out *types.Quiz
	err := dbc.Transaction(qs.db, func(inner dbctx.Context) error {
		if err := qs.refs.check(inner, in.SubjectID, in.TopicID, in.ChapterID); err != nil {
			return err
		}
		if _, err := qs.quizzes.Create(inner, quiz); err != nil {
			return fmt.Errorf("create quiz: %w", err)
		}
		var err error
		out, err = qs.quizzes.GetByID(inner, quiz.ID)
		return err
	})
	if err != nil {
		qs.log.Warn("Create quiz failed", "error", err)
		return nil, err
	}
	return out, nil
}

func (qs *quizService) GetQuiz(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error) {
	q, err := qs.quizzes.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apierr.NotFound("quiz_not_found")
	}
	return q, nil
}

func (qs *quizService) ListQuizzes(dbc dbctx.Context, f repos.QuizFilter) ([]*types.Quiz, error) {
	f.Query = strings.TrimSpace(f.Query)
	return qs.quizzes.List(dbc, f)
}

func (qs *quizService) ownedQuiz(dbc dbctx.Context, actorID, id uuid.UUID) (*types.Quiz, error) {
	q, err := qs.GetQuiz(dbc, id)
	if err != nil {
		return nil, err
	}
	if q.CreatorID != actorID {
		return nil, apierr.Forbidden("not_quiz_creator")
	}
	return q, nil
}

func (qs *quizService) UpdateQuiz(dbc dbctx.Context, actorID, id uuid.UUID, in QuizInput) (*types.Quiz, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Questions = nil
	if err := validateInput("invalid_quiz", in); err != nil {
		return nil, err
	}
	var out *types.Quiz
	err := dbc.Transaction(qs.db, func(inner dbctx.Context) error {
		q, err := qs.ownedQuiz(inner, actorID, id)
		if err != nil {
			return err
		}
		if err := qs.refs.check(inner, in.SubjectID, in.TopicID, in.ChapterID); err != nil {
			return err
		}
		q.SubjectID, q.TopicID, q.ChapterID = in.SubjectID, in.TopicID, in.ChapterID
		q.Title = in.Title
		q.IsTimed = in.IsTimed
		q.TimeLimitSeconds = in.TimeLimitSeconds
		q.RandomizeOrder = in.RandomizeOrder
		if err := qs.quizzes.Update(inner, q); err != nil {
			return fmt.Errorf("update quiz: %w", err)
		}
		out, err = qs.GetQuiz(inner, id)
		return err
	})
	return out, err
}

func (qs *quizService) DeleteQuiz(dbc dbctx.Context, actorID, id uuid.UUID) error {
	return dbc.Transaction(qs.db, func(inner dbctx.Context) error {
		if _, err := qs.ownedQuiz(inner, actorID, id); err != nil {
			return err
		}
		return qs.quizzes.Delete(inner, id)
	})
}

func (qs *quizService) CreateQuestion(dbc dbctx.Context, actorID uuid.UUID, in QuestionInput) (*types.Question, error) {
	if in.QuizID == uuid.Nil {
		return nil, apierr.BadRequest("quiz_required", fmt.Errorf("quiz is required"))
	}
	normalizeQuestionInput(&in)
	if err := checkQuestionInput(in); err != nil {
		return nil, err
	}
	if types.RequiresCorrectChoice(in.QuestionType) && !hasCorrectChoice(in.Choices) {
		return nil, errMissingCorrectChoice(in.Text)
	}
	var out *types.Question
	err := dbc.Transaction(qs.db, func(inner dbctx.Context) error {
		if _, err := qs.ownedQuiz(inner, actorID, in.QuizID); err != nil {
			return err
		}
		pos, err := qs.questions.NextPosition(inner, in.QuizID)
		if err != nil {
			return err
		}
		q := &types.Question{
			QuizID:       in.QuizID,
			Position:     pos,
			Text:         in.Text,
			QuestionType: in.QuestionType,
			Difficulty:   in.Difficulty,
			Explanation:  in.Explanation,
			Choices:      buildChoices(in.Choices),
		}
		if _, err := qs.questions.Create(inner, q); err != nil {
			return fmt.Errorf("create question: %w", err)
		}
		out, err = qs.GetQuestion(inner, q.ID)
		return err
	})
	return out, err
}

func (qs *quizService) GetQuestion(dbc dbctx.Context, id uuid.UUID) (*types.Question, error) {
	q, err := qs.questions.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apierr.NotFound("question_not_found")
	}
	return q, nil
}

func (qs *quizService) ListQuestions(dbc dbctx.Context, quizID *uuid.UUID) ([]*types.Question, error) {
	return qs.questions.List(dbc, quizID)
}

func (qs *quizService) UpdateQuestion(dbc dbctx.Context, actorID, id uuid.UUID, in QuestionInput) (*types.Question, error) {
	normalizeQuestionInput(&in)
	if err := checkQuestionInput(in); err != nil {
		return nil, err
	}
	var out *types.Question
	err := dbc.Transaction(qs.db, func(inner dbctx.Context) error {
		q, err := qs.GetQuestion(inner, id)
		if err != nil {
			return err
		}
		if _, err := qs.ownedQuiz(inner, actorID, q.QuizID); err != nil {
			return err
		}
		if in.Choices == nil && types.RequiresCorrectChoice(in.QuestionType) {
			kept := make([]ChoiceInput, 0, len(q.Choices))
			for _, c := range q.Choices {
				kept = append(kept, ChoiceInput{Text: c.Text, IsCorrect: c.IsCorrect})
			}
			if !hasCorrectChoice(kept) {
				return errMissingCorrectChoice(in.Text)
			}
		}
		q.Text = in.Text
		q.QuestionType = in.QuestionType
		q.Difficulty = in.Difficulty
		q.Explanation = in.Explanation
		var choices []types.Choice
		if in.Choices != nil {
			choices = buildChoices(in.Choices)
		}
		if err := qs.questions.Update(inner, q, choices); err != nil {
			return fmt.Errorf("update question: %w", err)
		}
		out, err = qs.GetQuestion(inner, id)
		return err
	})
	return out, err
}

func (qs *quizService) DeleteQuestion(dbc dbctx.Context, actorID, id uuid.UUID) error {
	return dbc.Transaction(qs.db, func(inner dbctx.Context) error {
		q, err := qs.GetQuestion(inner, id)
		if err != nil {
			return err
		}
		if _, err := qs.ownedQuiz(inner, actorID, q.QuizID); err != nil {
			return err
		}
		return qs.questions.Delete(inner, id)
	})
}

func (qs *quizService) Take(dbc dbctx.Context, quizID uuid.UUID, seed *int64) ([]types.Question, error) {
	quiz, err := qs.GetQuiz(dbc, quizID)
	if err != nil {
		return nil, err
	}
	questions := quiz.Questions
	if questions == nil {
		questions = []types.Question{}
	}
	if quiz.RandomizeOrder && len(questions) > 1 {
		src := time.Now().UnixNano()
		if seed != nil {
			src = *seed
		}
		rng := rand.New(rand.NewSource(src))
		rng.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}
	return questions, nil
}

func (qs *quizService) Grade(dbc dbctx.Context, quizID uuid.UUID, in GradeInput) (*types.QuizAttempt, error) {
	ctx, span := observability.StartSpan(dbc.Ctx, "quizzes.grade", attribute.String("quiz.id", quizID.String()))
	defer span.End()
	dbc.Ctx = ctx

	if in.StudentID == nil || *in.StudentID == uuid.Nil || in.Answers == nil {
		return nil, apierr.BadRequest("student_and_answers_required", fmt.Errorf("student and answers[] required"))
	}
	if in.TimeTakenSeconds < 0 {
		in.TimeTakenSeconds = 0
	}
	var attempt *types.QuizAttempt
	err := dbc.Transaction(qs.db, func(inner dbctx.Context) error {
		quiz, err := qs.GetQuiz(inner, quizID)
		if err != nil {
			return err
		}
		student, err := qs.users.GetByID(inner, *in.StudentID)
		if err != nil {
			return fmt.Errorf("load student: %w", err)
		}
		if student == nil {
			return apierr.NotFound("student_not_found")
		}

		answers, correct, err := resolveAnswers(quiz, in.Answers)
		if err != nil {
			return err
		}
		attempt = &types.QuizAttempt{
			QuizID:           quiz.ID,
			StudentID:        student.ID,
			Score:            scorePercent(correct, len(quiz.Questions)),
			TimeTakenSeconds: in.TimeTakenSeconds,
			Answers:          answers,
		}
		if _, err := qs.attempts.Create(inner, attempt); err != nil {
			return fmt.Errorf("create attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		qs.metrics.ObserveGrade("rejected", 0)
		span.RecordError(err)
		qs.log.Warn("Grade failed", "quiz_id", quizID, "error", err)
		return nil, err
	}
	qs.metrics.ObserveGrade("ok", attempt.Score)
	if qs.dashboard != nil {
		qs.dashboard.Invalidate(dbc.Ctx, attempt.StudentID)
	}
	return attempt, nil
}

// resolveAnswers checks every answer against the quiz before anything is stored
// and reports how many are correct.
func resolveAnswers(quiz *types.Quiz, in []AnswerInput) ([]types.AttemptAnswer, int, error) {
	byID := make(map[uuid.UUID]*types.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		byID[quiz.Questions[i].ID] = &quiz.Questions[i]
	}
	out := make([]types.AttemptAnswer, 0, len(in))
	correct := 0
	for _, a := range in {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, 0, apierr.New(http.StatusNotFound, "question_not_found", fmt.Errorf("question %s is not part of this quiz", a.QuestionID))
		}
		ans := types.AttemptAnswer{QuestionID: q.ID, TextAnswer: a.TextAnswer}
		if types.RequiresCorrectChoice(q.QuestionType) {
			if a.SelectedChoiceID != nil && *a.SelectedChoiceID != uuid.Nil {
				choice := findChoice(q, *a.SelectedChoiceID)
				if choice == nil {
					return nil, 0, apierr.New(http.StatusNotFound, "choice_not_found", fmt.Errorf("choice %s is not part of question %s", *a.SelectedChoiceID, q.ID))
				}
				id := choice.ID
				ans.SelectedChoiceID = &id
				ans.IsCorrect = choice.IsCorrect
			}
		} else {
			ans.IsCorrect = strings.TrimSpace(a.TextAnswer) != ""
		}
		if ans.IsCorrect {
			correct++
		}
		out = append(out, ans)
	}
	return out, correct, nil
}

func findChoice(q *types.Question, id uuid.UUID) *types.Choice {
	for i := range q.Choices {
		if q.Choices[i].ID == id {
			return &q.Choices[i]
		}
	}
	return nil
}

// scorePercent is correct/total*100, or 0 for a quiz without questions.
func scorePercent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

func (qs *quizService) ListAttempts(dbc dbctx.Context, studentID uuid.UUID, quizID *uuid.UUID) ([]*types.QuizAttempt, error) {
	return qs.attempts.List(dbc, studentID, quizID)
}

// GetAttempt hides other students' attempts behind a 404.
func (qs *quizService) GetAttempt(dbc dbctx.Context, actorID, id uuid.UUID) (*types.QuizAttempt, error) {
	a, err := qs.attempts.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if a == nil || a.StudentID != actorID {
		return nil, apierr.NotFound("attempt_not_found")
	}
	return a, nil
}

func (qs *quizService) DeleteAttempt(dbc dbctx.Context, actorID, id uuid.UUID) error {
	err := dbc.Transaction(qs.db, func(inner dbctx.Context) error {
		if _, err := qs.GetAttempt(inner, actorID, id); err != nil {
			return err
		}
		return qs.attempts.Delete(inner, id)
	})
	if err != nil {
		return err
	}
	if qs.dashboard != nil {
		qs.dashboard.Invalidate(dbc.Ctx, actorID)
	}
	return nil
}
