package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/services"
)

// QuizHandler serves quizzes, their questions and attempts.
type QuizHandler struct {
	quizzes services.QuizService
}

func NewQuizHandler(quizzes services.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

// GET /quizzes/?subject=&topic=&chapter=&creator=&q=
func (qh *QuizHandler) List(c *gin.Context) {
	var f repos.QuizFilter
	var ok bool
	if f.SubjectID, ok = queryID(c, "subject"); !ok {
		return
	}
	if f.TopicID, ok = queryID(c, "topic"); !ok {
		return
	}
	if f.ChapterID, ok = queryID(c, "chapter"); !ok {
		return
	}
	if f.CreatorID, ok = queryID(c, "creator"); !ok {
		return
	}
	f.Query = c.Query("q")
	f.Limit = queryInt(c, "limit")

	out, err := qh.quizzes.ListQuizzes(dbc(c), f)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quizzes": out})
}

// POST /quizzes/
// body: quiz fields plus nested "questions" each with nested "choices".
func (qh *QuizHandler) Create(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req services.QuizInput
	if !bindJSON(c, &req) {
		return
	}
	q, err := qh.quizzes.CreateQuiz(dbc(c), userID, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"quiz": q})
}

// GET /quizzes/:id/
func (qh *QuizHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, err := qh.quizzes.GetQuiz(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quiz": q})
}

// PUT|PATCH /quizzes/:id/
func (qh *QuizHandler) Update(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	cur, err := qh.quizzes.GetQuiz(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	req := services.QuizInput{
		SubjectID:        cur.SubjectID,
		TopicID:          cur.TopicID,
		ChapterID:        cur.ChapterID,
		Title:            cur.Title,
		IsTimed:          cur.IsTimed,
		TimeLimitSeconds: cur.TimeLimitSeconds,
		RandomizeOrder:   cur.RandomizeOrder,
	}
	if !bindJSON(c, &req) {
		return
	}
	q, err := qh.quizzes.UpdateQuiz(dbc(c), userID, id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quiz": q})
}

// DELETE /quizzes/:id/
func (qh *QuizHandler) Delete(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := qh.quizzes.DeleteQuiz(dbc(c), userID, id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /quizzes/:id/take/?seed=
func (qh *QuizHandler) Take(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var seed *int64
	if raw := strings.TrimSpace(c.Query("seed")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_seed", err)
			return
		}
		seed = &v
	}
	questions, err := qh.quizzes.Take(dbc(c), id, seed)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

// POST /quizzes/:id/grade/
// body: { "student": "<uuid>", "answers": [{question, selected_choice, text_answer}], "time_taken_seconds": n }
func (qh *QuizHandler) Grade(c *gin.Context) {
	if _, ok := actor(c); !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.GradeInput
	if !bindJSON(c, &req) {
		return
	}
	attempt, err := qh.quizzes.Grade(dbc(c), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attempt": attempt})
}

// GET /questions/?quiz=
func (qh *QuizHandler) ListQuestions(c *gin.Context) {
	quizID, ok := queryID(c, "quiz")
	if !ok {
		return
	}
	out, err := qh.quizzes.ListQuestions(dbc(c), quizID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": out})
}

// POST /questions/
func (qh *QuizHandler) CreateQuestion(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req services.QuestionInput
	if !bindJSON(c, &req) {
		return
	}
	q, err := qh.quizzes.CreateQuestion(dbc(c), userID, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"question": q})
}

// GET /questions/:id/
func (qh *QuizHandler) GetQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, err := qh.quizzes.GetQuestion(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"question": q})
}

// PUT|PATCH /questions/:id/
// Choices are replaced only when the body carries "choices".
func (qh *QuizHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	cur, err := qh.quizzes.GetQuestion(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	req := services.QuestionInput{
		QuizID:       cur.QuizID,
		Text:         cur.Text,
		QuestionType: cur.QuestionType,
		Difficulty:   cur.Difficulty,
		Explanation:  cur.Explanation,
	}
	if !bindJSON(c, &req) {
		return
	}
	q, err := qh.quizzes.UpdateQuestion(dbc(c), userID, id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"question": q})
}

// DELETE /questions/:id/
func (qh *QuizHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := qh.quizzes.DeleteQuestion(dbc(c), userID, id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /attempts/?quiz=
func (qh *QuizHandler) ListAttempts(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	quizID, ok := queryID(c, "quiz")
	if !ok {
		return
	}
	out, err := qh.quizzes.ListAttempts(dbc(c), userID, quizID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attempts": out})
}

// GET /attempts/:id/
func (qh *QuizHandler) GetAttempt(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	a, err := qh.quizzes.GetAttempt(dbc(c), userID, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attempt": a})
}

// DELETE /attempts/:id/
func (qh *QuizHandler) DeleteAttempt(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := qh.quizzes.DeleteAttempt(dbc(c), userID, id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}
