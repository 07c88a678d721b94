// Package extract turns raw curriculum text (the copy-pasted syllabus
// handbook) into the {courses: [...]} JSON document the loader serves.
package extract

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Module is one numbered syllabus block.
type Module struct {
	Number  int      `json:"module_no"`
	Content []string `json:"content"`
}

// Outcome is a "COn <description> Kn" line.
type Outcome struct {
	Code           string `json:"co_no"`
	Description    string `json:"description"`
	KnowledgeLevel string `json:"bloom_kl"`
}

// RawCourse matches the loose shape the normalizer expects.
type RawCourse struct {
	Code     string    `json:"course_code"`
	Title    string    `json:"title,omitempty"`
	Semester string    `json:"semester,omitempty"`
	CIEMarks int       `json:"cie_marks,omitempty"`
	ESEMarks int       `json:"ese_marks,omitempty"`
	Credits  int       `json:"credits,omitempty"`
	Modules  []Module  `json:"syllabus_modules"`
	Outcomes []Outcome `json:"course_outcomes"`
}

// Document is the extracted dataset.
type Document struct {
	Courses []RawCourse `json:"courses"`
}

var (
	semesterRe = regexp.MustCompile(`SEMESTER\s+(S?\d+)`)
	codeRe     = regexp.MustCompile(`Course Code\s+([A-Z]+\d+)`)
	titleRe    = regexp.MustCompile(`^[A-Z][A-Z\s]{9,}$`)
	cieRe      = regexp.MustCompile(`CIE Marks\s+(\d+)`)
	eseRe      = regexp.MustCompile(`ESE Marks\s+(\d+)`)
	creditsRe  = regexp.MustCompile(`Credits\s+(\d+)`)
	moduleRe   = regexp.MustCompile(`^\d+$`)
	outcomeRe  = regexp.MustCompile(`^(CO\d+)\s+(.+?)\s+([KL]\d+)$`)
	sectionRe  = regexp.MustCompile(`^(Course Assessment|Course Outcomes|Text Books)`)
)

// Parse scans curriculum text line by line: SEMESTER headers set the
// current semester, "Course Code" lines open a new course, and the
// marks/credits/module/outcome patterns fill it in. Unrecognized lines
// are skipped, so messy input degrades to fewer fields, not an error.
func Parse(r io.Reader) (*Document, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{Courses: []RawCourse{}}
	var current *RawCourse
	semester := ""
	pendingTitle := ""

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if m := semesterRe.FindStringSubmatch(line); m != nil {
			semester = m[1]
			continue
		}

		// Course titles are all-caps header lines preceding the code.
		if titleRe.MatchString(line) && !strings.Contains(line, "SEMESTER") {
			pendingTitle = line
			continue
		}

		if m := codeRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				doc.Courses = append(doc.Courses, *current)
			}
			current = &RawCourse{
				Code:     m[1],
				Title:    pendingTitle,
				Semester: semester,
				Modules:  []Module{},
				Outcomes: []Outcome{},
			}
			pendingTitle = ""
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case cieRe.MatchString(line):
			current.CIEMarks = firstInt(cieRe, line)
		case eseRe.MatchString(line):
			current.ESEMarks = firstInt(eseRe, line)
		case creditsRe.MatchString(line):
			current.Credits = firstInt(creditsRe, line)
		case moduleRe.MatchString(line):
			num, _ := strconv.Atoi(line)
			content, next := collectModule(lines, i+1)
			if len(content) > 0 {
				current.Modules = append(current.Modules, Module{Number: num, Content: content})
			}
			i = next - 1
		case outcomeRe.MatchString(line):
			m := outcomeRe.FindStringSubmatch(line)
			current.Outcomes = append(current.Outcomes, Outcome{
				Code:           m[1],
				Description:    m[2],
				KnowledgeLevel: m[3],
			})
		}
	}
	if current != nil {
		doc.Courses = append(doc.Courses, *current)
	}
	return doc, nil
}

// collectModule gathers content lines until the next bare module number
// or section header. Returns the content and the index to resume at.
func collectModule(lines []string, start int) ([]string, int) {
	var content []string
	i := start
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if moduleRe.MatchString(line) || sectionRe.MatchString(line) {
			break
		}
		if line != "" {
			content = append(content, line)
		}
	}
	return content, i
}

func firstInt(re *regexp.Regexp, line string) int {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
