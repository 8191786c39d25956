package services

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/learnhub-backend/internal/domain"
)

func TestTaxonomyDuplicatesConflict(t *testing.T) {
	h := newHarness(t)

	math, err := h.taxonomy.CreateSubject(h.dbc(), SubjectInput{Name: "Math"})
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	_, err = h.taxonomy.CreateSubject(h.dbc(), SubjectInput{Name: " Math "})
	requireStatus(t, err, http.StatusConflict, "already_exists")

	algebra, err := h.taxonomy.CreateTopic(h.dbc(), TopicInput{SubjectID: math.ID, Name: "Algebra"})
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	_, err = h.taxonomy.CreateTopic(h.dbc(), TopicInput{SubjectID: math.ID, Name: "Algebra"})
	requireStatus(t, err, http.StatusConflict, "already_exists")

	physics, err := h.taxonomy.CreateSubject(h.dbc(), SubjectInput{Name: "Physics"})
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	if _, err := h.taxonomy.CreateTopic(h.dbc(), TopicInput{SubjectID: physics.ID, Name: "Algebra"}); err != nil {
		t.Fatalf("same topic name under another subject: %v", err)
	}

	if _, err := h.taxonomy.CreateChapter(h.dbc(), ChapterInput{TopicID: algebra.ID, Title: "Linear"}); err != nil {
		t.Fatalf("CreateChapter: %v", err)
	}
	_, err = h.taxonomy.CreateChapter(h.dbc(), ChapterInput{TopicID: algebra.ID, Title: "Linear"})
	requireStatus(t, err, http.StatusConflict, "already_exists")
}

func TestTaxonomyParentChecks(t *testing.T) {
	h := newHarness(t)

	_, err := h.taxonomy.CreateTopic(h.dbc(), TopicInput{Name: "Loose"})
	requireStatus(t, err, http.StatusBadRequest, "subject_required")
	_, err = h.taxonomy.CreateTopic(h.dbc(), TopicInput{SubjectID: uuid.New(), Name: "Loose"})
	requireStatus(t, err, http.StatusBadRequest, "subject_not_found")
	_, err = h.taxonomy.CreateChapter(h.dbc(), ChapterInput{Title: "Loose"})
	requireStatus(t, err, http.StatusBadRequest, "topic_required")
	_, err = h.taxonomy.GetSubject(h.dbc(), uuid.New())
	requireStatus(t, err, http.StatusNotFound, "subject_not_found")
	_, err = h.taxonomy.CreateSubject(h.dbc(), SubjectInput{Name: "  "})
	requireStatus(t, err, http.StatusBadRequest, "")
}

func TestTaxonomyDeleteSubjectCascades(t *testing.T) {
	h := newHarness(t)
	math, err := h.taxonomy.CreateSubject(h.dbc(), SubjectInput{Name: "Math"})
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	topic, err := h.taxonomy.CreateTopic(h.dbc(), TopicInput{SubjectID: math.ID, Name: "Algebra"})
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	if _, err := h.taxonomy.CreateChapter(h.dbc(), ChapterInput{TopicID: topic.ID, Title: "Linear"}); err != nil {
		t.Fatalf("CreateChapter: %v", err)
	}
	if err := h.taxonomy.DeleteSubject(h.dbc(), math.ID); err != nil {
		t.Fatalf("DeleteSubject: %v", err)
	}
	if n := h.count(t, &types.Topic{}); n != 0 {
		t.Fatalf("topics after delete: want=0 got=%d", n)
	}
	if n := h.count(t, &types.Chapter{}); n != 0 {
		t.Fatalf("chapters after delete: want=0 got=%d", n)
	}
}

const taxonomyYAML = `
subjects:
  - name: Math
    topics:
      - name: Algebra
        chapters: [Linear equations, Quadratics]
      - name: Geometry
  - name: Biology
    topics:
      - name: Cells
        chapters:
          - Membranes
`

func TestTaxonomyImportIsIdempotent(t *testing.T) {
	h := newHarness(t)

	res, err := h.taxonomy.Import(h.dbc(), strings.NewReader(taxonomyYAML))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Subjects != 2 || res.Topics != 3 || res.Chapters != 3 {
		t.Fatalf("first import: want=2/3/3 got=%d/%d/%d", res.Subjects, res.Topics, res.Chapters)
	}

	res, err = h.taxonomy.Import(h.dbc(), strings.NewReader(taxonomyYAML))
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if res.Subjects != 0 || res.Topics != 0 || res.Chapters != 0 {
		t.Fatalf("second import: want=0/0/0 got=%d/%d/%d", res.Subjects, res.Topics, res.Chapters)
	}
	if n := h.count(t, &types.Chapter{}); n != 3 {
		t.Fatalf("chapters: want=3 got=%d", n)
	}

	_, err = h.taxonomy.Import(h.dbc(), strings.NewReader("subjects:\n  - nme: typo\n"))
	requireStatus(t, err, http.StatusBadRequest, "invalid_taxonomy_document")
}
