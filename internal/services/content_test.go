package services

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
)

func TestGenerateQuestions(t *testing.T) {
	cases := []struct {
		name      string
		text      string
		wantCount int
		check     func(t *testing.T, got []GeneratedQuestion)
	}{
		{
			name:      "blank",
			text:      " . . ",
			wantCount: 0,
		},
		{
			name:      "two sentences pad distractors",
			text:      "Cells divide. Mitochondria make energy.",
			wantCount: 2,
			check: func(t *testing.T, got []GeneratedQuestion) {
				q := got[0]
				assert.Equal(t, "Which statement best matches: 'Cells divide...' ?", q.Text)
				assert.Equal(t, "mcq", q.QuestionType)
				require.Len(t, q.Choices, 4)
				assert.Equal(t, GeneratedChoice{Text: "Cells divide", IsCorrect: true}, q.Choices[0])
				assert.Equal(t, "Option 1", q.Choices[1].Text)
				assert.Equal(t, "Option 3", q.Choices[3].Text)
			},
		},
		{
			name:      "later sentences become distractors",
			text:      "S0. S1. S2. S3. S4. S5. S6. S7. S8.",
			wantCount: 5,
			check: func(t *testing.T, got []GeneratedQuestion) {
				for _, q := range got {
					require.Len(t, q.Choices, 4)
					assert.Equal(t, []string{"S5", "S6", "S7"}, []string{q.Choices[1].Text, q.Choices[2].Text, q.Choices[3].Text})
				}
			},
		},
		{
			name:      "long sentence truncated",
			text:      strings.Repeat("a", 150) + ".",
			wantCount: 1,
			check: func(t *testing.T, got []GeneratedQuestion) {
				assert.Equal(t, fmt.Sprintf("Which statement best matches: '%s...' ?", strings.Repeat("a", 80)), got[0].Text)
				assert.Len(t, []rune(got[0].Choices[0].Text), 100)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GenerateQuestions(tc.text)
			require.NotNil(t, got)
			require.Len(t, got, tc.wantCount)
			if tc.check != nil {
				tc.check(t, got)
			}
		})
	}
}

func TestGeneratorServiceInputs(t *testing.T) {
	h := newHarness(t)

	_, err := h.generator.Generate(h.dbc(), "", nil)
	requireStatus(t, err, http.StatusBadRequest, "text_or_pdf_required")

	blank, err := h.generator.Generate(h.dbc(), "   ", nil)
	require.NoError(t, err)
	assert.NotNil(t, blank)
	assert.Empty(t, blank)

	h.extractor.text = "Extracted one. Extracted two."
	got, err := h.generator.Generate(h.dbc(), "", pdfUpload("notes.pdf"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[1].Choices[0].IsCorrect)
}

func TestSnippet(t *testing.T) {
	long := strings.Repeat("x", 300) + "NEEDLE" + strings.Repeat("y", 300)
	cases := []struct {
		name string
		text string
		q    string
		want string
	}{
		{"short text", "Photosynthesis uses light.", "light", "Photosynthesis uses light."},
		{"case insensitive", "Alpha BETA gamma", "beta", "Alpha BETA gamma"},
		{"empty text", "", "anything", ""},
		{
			"window with markers",
			long,
			"needle",
			"... " + strings.Repeat("x", 200) + "NEEDLE" + strings.Repeat("y", 194) + " ...",
		},
		{
			"absent query uses start",
			long,
			"missing",
			strings.Repeat("x", 200) + " ...",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Snippet(tc.text, tc.q))
		})
	}
}

func TestChatAsk(t *testing.T) {
	h := newHarness(t)
	owner := testutil.SeedUser(t, h.ctx, h.db, "owner")

	_, err := h.chat.Ask(h.dbc(), ChatInput{Question: "  "})
	requireStatus(t, err, http.StatusBadRequest, "question_required")

	ans, err := h.chat.Ask(h.dbc(), ChatInput{Question: "ribosome"})
	require.NoError(t, err)
	assert.Equal(t, chatNoMatch, ans.Answer)
	assert.Nil(t, ans.ResourceID)

	res := testutil.SeedResource(t, h.ctx, h.db, owner.ID, "Cell biology")
	testutil.SeedResourceVersion(t, h.ctx, h.db, res.ID, 1, "Proteins are built by the ribosome in the cytoplasm.")

	ans, err = h.chat.Ask(h.dbc(), ChatInput{Question: "ribosome"})
	require.NoError(t, err)
	require.NotNil(t, ans.ResourceID)
	assert.Equal(t, res.ID, *ans.ResourceID)
	assert.Equal(t, "Cell biology", *ans.ResourceTitle)
	assert.Contains(t, ans.Answer, "ribosome")

	bare := testutil.SeedResource(t, h.ctx, h.db, owner.ID, "Empty osmosis notes")
	ans, err = h.chat.Ask(h.dbc(), ChatInput{Question: "osmosis"})
	require.NoError(t, err)
	assert.Equal(t, bare.ID, *ans.ResourceID)
	assert.Equal(t, chatEmptySnippet, ans.Answer)
}

func TestSearchCapsAndMatchesText(t *testing.T) {
	h := newHarness(t)
	owner := testutil.SeedUser(t, h.ctx, h.db, "owner")
	for i := 0; i < SearchLimit+5; i++ {
		testutil.SeedResource(t, h.ctx, h.db, owner.ID, fmt.Sprintf("Algebra notes %d", i))
	}
	res := testutil.SeedResource(t, h.ctx, h.db, owner.ID, "Untitled")
	// two matching versions must still yield the resource once
	testutil.SeedResourceVersion(t, h.ctx, h.db, res.ID, 1, "the quadratic formula")
	testutil.SeedResourceVersion(t, h.ctx, h.db, res.ID, 2, "quadratic again")
	testutil.SeedQuiz(t, h.ctx, h.db, owner.ID, nil, "Quadratic drill", 0)

	out, err := h.search.Search(h.dbc(), "algebra")
	require.NoError(t, err)
	assert.Len(t, out.Resources, SearchLimit)
	assert.NotNil(t, out.Quizzes)
	assert.Empty(t, out.Quizzes)

	out, err = h.search.Search(h.dbc(), "QUADRATIC")
	require.NoError(t, err)
	require.Len(t, out.Resources, 1)
	assert.Equal(t, res.ID, out.Resources[0].ID)
	assert.Len(t, out.Quizzes, 1)
}

func TestDashboardCachesUntilInvalidated(t *testing.T) {
	h := newHarness(t)
	student := testutil.SeedUser(t, h.ctx, h.db, "student")
	subject := testutil.SeedSubject(t, h.ctx, h.db, "Math")
	quiz := testutil.SeedQuiz(t, h.ctx, h.db, student.ID, &subject.ID, "Fractions", 0)

	empty, err := h.dashboard.Get(h.dbc(), student.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.NumAttempts)
	assert.NotNil(t, empty.Subjects)

	// bypass the service so the cached value goes stale
	require.NoError(t, h.db.Exec(
		"INSERT INTO quiz_attempt (id, quiz_id, student_id, score, time_taken_seconds, created_at, updated_at) VALUES (?, ?, ?, 100, 0, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
		uuid.New(), quiz.ID, student.ID,
	).Error)
	stale, err := h.dashboard.Get(h.dbc(), student.ID)
	require.NoError(t, err)
	assert.Zero(t, stale.NumAttempts)

	h.dashboard.Invalidate(h.ctx, student.ID)
	fresh, err := h.dashboard.Get(h.dbc(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.NumAttempts)
	assert.InDelta(t, 100, fresh.AvgScore, 0.001)
	require.Len(t, fresh.Subjects, 1)
	require.NotNil(t, fresh.Subjects[0].SubjectName)
	assert.Equal(t, "Math", *fresh.Subjects[0].SubjectName)
}
