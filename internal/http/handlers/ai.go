package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/services"
)

// AIHandler serves the heuristic question generator and chat responder.
type AIHandler struct {
	generator services.GeneratorService
	chat      services.ChatService
}

func NewAIHandler(generator services.GeneratorService, chat services.ChatService) *AIHandler {
	return &AIHandler{generator: generator, chat: chat}
}

// POST /ai/generate-questions/
// JSON { "text": "..." } or multipart with a PDF "file".
func (ah *AIHandler) GenerateQuestions(c *gin.Context) {
	var text string
	var file *services.FileUpload
	if isMultipart(c) {
		text = c.PostForm("text")
		var closeFile func()
		var ok bool
		if file, closeFile, ok = formFile(c, "file"); !ok {
			return
		}
		defer closeFile()
	} else {
		var req struct {
			Text string `json:"text"`
		}
		if !bindJSON(c, &req) {
			return
		}
		text = req.Text
	}
	questions, err := ah.generator.Generate(dbc(c), text, file)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

// POST /ai/chat/
// body: { "question": "...", "subject"?, "topic"?, "chapter"? }
func (ah *AIHandler) Chat(c *gin.Context) {
	var req services.ChatInput
	if !bindJSON(c, &req) {
		return
	}
	ans, err := ah.chat.Ask(dbc(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, ans)
}
