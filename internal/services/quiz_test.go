package services

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnhub-backend/internal/domain"
)

func mcq(text string, correct int) QuestionInput {
	q := QuestionInput{Text: text, QuestionType: types.QuestionTypeMCQ}
	for i := 0; i < 3; i++ {
		q.Choices = append(q.Choices, ChoiceInput{Text: text + " choice", IsCorrect: i == correct})
	}
	return q
}

func TestQuizGradeScoresAndStoresAnswers(t *testing.T) {
	h := newHarness(t)
	teacher := testutil.SeedUser(t, h.ctx, h.db, "teacher")
	student := testutil.SeedUser(t, h.ctx, h.db, "student")
	quiz := testutil.SeedQuiz(t, h.ctx, h.db, teacher.ID, nil, "Cells", 0, 1)

	q1, q2 := quiz.Questions[0], quiz.Questions[1]
	attempt, err := h.quizzes.Grade(h.dbc(), quiz.ID, GradeInput{
		StudentID: &student.ID,
		Answers: []AnswerInput{
			{QuestionID: q1.ID, SelectedChoiceID: &q1.Choices[0].ID},
			{QuestionID: q2.ID, SelectedChoiceID: &q2.Choices[0].ID},
		},
		TimeTakenSeconds: 42,
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if attempt.Score != 50 {
		t.Fatalf("score: want=50 got=%v", attempt.Score)
	}
	if attempt.TimeTakenSeconds != 42 {
		t.Fatalf("time taken: want=42 got=%d", attempt.TimeTakenSeconds)
	}
	if n := h.count(t, &types.AttemptAnswer{}); n != 2 {
		t.Fatalf("answer rows: want=2 got=%d", n)
	}

	stored, err := h.quizzes.GetAttempt(h.dbc(), student.ID, attempt.ID)
	if err != nil {
		t.Fatalf("GetAttempt: %v", err)
	}
	correct := 0
	for _, a := range stored.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		t.Fatalf("correct answers: want=1 got=%d", correct)
	}

	_, err = h.quizzes.GetAttempt(h.dbc(), teacher.ID, attempt.ID)
	requireStatus(t, err, http.StatusNotFound, "attempt_not_found")
}

func TestQuizGradeRejectsForeignQuestionWithoutWriting(t *testing.T) {
	h := newHarness(t)
	teacher := testutil.SeedUser(t, h.ctx, h.db, "teacher")
	student := testutil.SeedUser(t, h.ctx, h.db, "student")
	quiz := testutil.SeedQuiz(t, h.ctx, h.db, teacher.ID, nil, "Cells", 0)
	other := testutil.SeedQuiz(t, h.ctx, h.db, teacher.ID, nil, "Atoms", 0)

	_, err := h.quizzes.Grade(h.dbc(), quiz.ID, GradeInput{
		StudentID: &student.ID,
		Answers: []AnswerInput{
			{QuestionID: quiz.Questions[0].ID, SelectedChoiceID: &quiz.Questions[0].Choices[0].ID},
			{QuestionID: other.Questions[0].ID, SelectedChoiceID: &other.Questions[0].Choices[0].ID},
		},
	})
	requireStatus(t, err, http.StatusNotFound, "question_not_found")
	if n := h.count(t, &types.QuizAttempt{}); n != 0 {
		t.Fatalf("attempt rows: want=0 got=%d", n)
	}
	if n := h.count(t, &types.AttemptAnswer{}); n != 0 {
		t.Fatalf("answer rows: want=0 got=%d", n)
	}
}

func TestQuizGradeRejectsChoiceFromOtherQuestion(t *testing.T) {
	h := newHarness(t)
	teacher := testutil.SeedUser(t, h.ctx, h.db, "teacher")
	quiz := testutil.SeedQuiz(t, h.ctx, h.db, teacher.ID, nil, "Cells", 0, 0)

	_, err := h.quizzes.Grade(h.dbc(), quiz.ID, GradeInput{
		StudentID: &teacher.ID,
		Answers: []AnswerInput{
			{QuestionID: quiz.Questions[0].ID, SelectedChoiceID: &quiz.Questions[1].Choices[0].ID},
		},
	})
	requireStatus(t, err, http.StatusNotFound, "choice_not_found")
}

func TestQuizGradeInputErrors(t *testing.T) {
	h := newHarness(t)
	teacher := testutil.SeedUser(t, h.ctx, h.db, "teacher")
	quiz := testutil.SeedQuiz(t, h.ctx, h.db, teacher.ID, nil, "Cells", 0)
	missing := uuid.New()

	cases := []struct {
		name   string
		quizID uuid.UUID
		in     GradeInput
		status int
		code   string
	}{
		{"no student", quiz.ID, GradeInput{Answers: []AnswerInput{}}, http.StatusBadRequest, "student_and_answers_required"},
		{"no answers", quiz.ID, GradeInput{StudentID: &teacher.ID}, http.StatusBadRequest, "student_and_answers_required"},
		{"unknown student", quiz.ID, GradeInput{StudentID: &missing, Answers: []AnswerInput{}}, http.StatusNotFound, "student_not_found"},
		{"unknown quiz", missing, GradeInput{StudentID: &teacher.ID, Answers: []AnswerInput{}}, http.StatusNotFound, "quiz_not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.quizzes.Grade(h.dbc(), tc.quizID, tc.in)
			requireStatus(t, err, tc.status, tc.code)
		})
	}
}

func TestQuizGradeShortAnswersAndEmptyQuiz(t *testing.T) {
	h := newHarness(t)
	teacher := testutil.SeedUser(t, h.ctx, h.db, "teacher")

	quiz, err := h.quizzes.CreateQuiz(h.dbc(), teacher.ID, QuizInput{
		Title: "Essay",
		Questions: []QuestionInput{
			{Text: "Explain osmosis", QuestionType: types.QuestionTypeShort},
			{Text: "Explain diffusion", QuestionType: types.QuestionTypeShort},
		},
	})
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	attempt, err := h.quizzes.Grade(h.dbc(), quiz.ID, GradeInput{
		StudentID: &teacher.ID,
		Answers: []AnswerInput{
			{QuestionID: quiz.Questions[0].ID, TextAnswer: "water moves"},
			{QuestionID: quiz.Questions[1].ID, TextAnswer: "   "},
		},
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if attempt.Score != 50 {
		t.Fatalf("short answer score: want=50 got=%v", attempt.Score)
	}

	empty, err := h.quizzes.CreateQuiz(h.dbc(), teacher.ID, QuizInput{Title: "Empty"})
	if err != nil {
		t.Fatalf("CreateQuiz empty: %v", err)
	}
	attempt, err = h.quizzes.Grade(h.dbc(), empty.ID, GradeInput{StudentID: &teacher.ID, Answers: []AnswerInput{}})
	if err != nil {
		t.Fatalf("Grade empty: %v", err)
	}
	if attempt.Score != 0 {
		t.Fatalf("empty quiz score: want=0 got=%v", attempt.Score)
	}
}

func TestQuizGradeInvalidatesDashboard(t *testing.T) {
	h := newHarness(t)
	teacher := testutil.SeedUser(t, h.ctx, h.db, "teacher")
	quiz := testutil.SeedQuiz(t, h.ctx, h.db, teacher.ID, nil, "Cells", 0)

	before, err := h.dashboard.Get(h.dbc(), teacher.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if before.NumAttempts != 0 {
		t.Fatalf("attempts before: want=0 got=%d", before.NumAttempts)
	}
	q := quiz.Questions[0]
	if _, err := h.quizzes.Grade(h.dbc(), quiz.ID, GradeInput{
		StudentID: &teacher.ID,
		Answers:   []AnswerInput{{QuestionID: q.ID, SelectedChoiceID: &q.Choices[0].ID}},
	}); err != nil {
		t.Fatalf("Grade: %v", err)
	}
	after, err := h.dashboard.Get(h.dbc(), teacher.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if after.NumAttempts != 1 || after.AvgScore != 100 {
		t.Fatalf("dashboard after grade: want=1/100 got=%d/%v", after.NumAttempts, after.AvgScore)
	}
}

func TestQuizCreateValidation(t *testing.T) {
	h := newHarness(t)
	teacher := testutil.SeedUser(t, h.ctx, h.db, "teacher")

	_, err := h.quizzes.CreateQuiz(h.dbc(), teacher.ID, QuizInput{
		Title:     "Bad",
		Questions: []QuestionInput{{Text: "Pick", QuestionType: "essay"}},
	})
	requireStatus(t, err, http.StatusBadRequest, "invalid_question_type")

	_, err = h.quizzes.CreateQuiz(h.dbc(), teacher.ID, QuizInput{
		Title:     "Bad",
		Questions: []QuestionInput{mcq("Pick", -1)},
	})
	requireStatus(t, err, http.StatusBadRequest, "missing_correct_choice")

	missing := uuid.New()
	_, err = h.quizzes.CreateQuiz(h.dbc(), teacher.ID, QuizInput{Title: "Orphan", SubjectID: &missing})
	requireStatus(t, err, http.StatusBadRequest, "subject_not_found")

	if n := h.count(t, &types.Quiz{}); n != 0 {
		t.Fatalf("quiz rows: want=0 got=%d", n)
	}
}

func TestQuizTakeSeededOrderIsStable(t *testing.T) {
	h := newHarness(t)
	teacher := testutil.SeedUser(t, h.ctx, h.db, "teacher")
	in := QuizInput{Title: "Shuffle", RandomizeOrder: true}
	for i := 0; i < 8; i++ {
		in.Questions = append(in.Questions, mcq(strings.Repeat("q", i+1), 0))
	}
	quiz, err := h.quizzes.CreateQuiz(h.dbc(), teacher.ID, in)
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}

	seed := int64(7)
	first, err := h.quizzes.Take(h.dbc(), quiz.ID, &seed)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	second, err := h.quizzes.Take(h.dbc(), quiz.ID, &seed)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if len(first) != 8 || len(second) != 8 {
		t.Fatalf("question count: want=8 got=%d/%d", len(first), len(second))
	}
	seen := map[uuid.UUID]bool{}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("position %d: want=%s got=%s", i, first[i].ID, second[i].ID)
		}
		seen[first[i].ID] = true
	}
	if len(seen) != 8 {
		t.Fatalf("distinct questions: want=8 got=%d", len(seen))
	}
}

func TestQuizTakeHidesCorrectFlag(t *testing.T) {
	h := newHarness(t)
	teacher := testutil.SeedUser(t, h.ctx, h.db, "teacher")
	quiz := testutil.SeedQuiz(t, h.ctx, h.db, teacher.ID, nil, "Cells", 2)

	questions, err := h.quizzes.Take(h.dbc(), quiz.ID, nil)
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	raw, err := json.Marshal(map[string]any{"questions": questions})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "is_correct") {
		t.Fatalf("take payload leaks is_correct: %s", raw)
	}
	if len(questions[0].Choices) != 4 {
		t.Fatalf("choices: want=4 got=%d", len(questions[0].Choices))
	}
}

func TestQuizUpdateQuestionKeepsChoicesWhenOmitted(t *testing.T) {
	h := newHarness(t)
	teacher := testutil.SeedUser(t, h.ctx, h.db, "teacher")
	stranger := testutil.SeedUser(t, h.ctx, h.db, "stranger")
	quiz := testutil.SeedQuiz(t, h.ctx, h.db, teacher.ID, nil, "Cells", 1)
	qid := quiz.Questions[0].ID

	updated, err := h.quizzes.UpdateQuestion(h.dbc(), teacher.ID, qid, QuestionInput{Text: "Renamed", QuestionType: types.QuestionTypeMCQ})
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if updated.Text != "Renamed" || len(updated.Choices) != 4 {
		t.Fatalf("update: want text=Renamed choices=4 got %q/%d", updated.Text, len(updated.Choices))
	}

	_, err = h.quizzes.UpdateQuestion(h.dbc(), teacher.ID, qid, QuestionInput{
		Text:         "Renamed",
		QuestionType: types.QuestionTypeMCQ,
		Choices:      []ChoiceInput{{Text: "a"}, {Text: "b"}},
	})
	requireStatus(t, err, http.StatusBadRequest, "missing_correct_choice")

	_, err = h.quizzes.UpdateQuestion(h.dbc(), stranger.ID, qid, QuestionInput{Text: "Hijack", QuestionType: types.QuestionTypeMCQ})
	requireStatus(t, err, http.StatusForbidden, "not_quiz_creator")
}
