package extract

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/syllascope/syllascope/pkg/course"
)

const sampleText = `
SEMESTER S3

DATA STRUCTURES AND ALGORITHMS
Course Code PCCST301
CIE Marks 40
ESE Marks 60
Credits 4

1
Introduction to data structures
Arrays and linked lists
2
Stacks and queues
Course Outcomes
CO1 Implement linear data structures K3
CO2 Analyze algorithm complexity K4

SEMESTER S4

OPERATING SYSTEMS
Course Code PCCST401
Credits 4
`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleText))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(doc.Courses))
	}

	c := doc.Courses[0]
	if c.Code != "PCCST301" || c.Semester != "S3" {
		t.Fatalf("course identity = %+v", c)
	}
	if c.Title != "DATA STRUCTURES AND ALGORITHMS" {
		t.Fatalf("title = %q", c.Title)
	}
	if c.CIEMarks != 40 || c.ESEMarks != 60 || c.Credits != 4 {
		t.Fatalf("marks = %d/%d credits = %d", c.CIEMarks, c.ESEMarks, c.Credits)
	}
	if len(c.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(c.Modules))
	}
	if c.Modules[0].Number != 1 || len(c.Modules[0].Content) != 2 {
		t.Fatalf("module 1 = %+v", c.Modules[0])
	}
	if len(c.Outcomes) != 2 || c.Outcomes[1].KnowledgeLevel != "K4" {
		t.Fatalf("outcomes = %+v", c.Outcomes)
	}

	second := doc.Courses[1]
	if second.Code != "PCCST401" || second.Semester != "S4" {
		t.Fatalf("second course = %+v", second)
	}
}

func TestParseEmptyInput(t *testing.T) {
	doc, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Courses) != 0 {
		t.Fatalf("expected no courses, got %d", len(doc.Courses))
	}
}

// The extractor's output must round-trip through the normalizer.
func TestExtractedDocumentFeedsNormalizer(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleText))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	courses, err := course.ParseDataset(string(raw))
	if err != nil {
		t.Fatalf("normalize extracted document: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("expected 2 normalized courses, got %d", len(courses))
	}
	if courses[0].Code != "PCCST301" || courses[0].Credits != 4 {
		t.Fatalf("normalized course = %+v", courses[0])
	}
	if len(courses[0].Modules) != 2 || courses[0].Modules[0].Number != 1 {
		t.Fatalf("normalized modules = %+v", courses[0].Modules)
	}
	if !strings.Contains(courses[0].ModuleSearchText, "linked lists") {
		t.Fatalf("module search text = %q", courses[0].ModuleSearchText)
	}
}
