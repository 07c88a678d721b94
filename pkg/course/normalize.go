package course

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Normalize converts one raw course object into a canonical Course.
// Field lookups follow an ordered fallback chain (primary name, then
// legacy extraction name, then a default), so any input shape produces
// a usable record.
func Normalize(raw gjson.Result) Course {
	c := Course{
		Code:           firstString(raw, "course_code", "code"),
		Title:          firstString(raw, "title"),
		Semester:       firstString(raw, "semester"),
		Credits:        firstNumber(raw, "credits"),
		CourseType:     firstString(raw, "course_type", "type"),
		Group:          firstString(raw, "group"),
		Prerequisites:  stringList(raw, "prerequisites"),
		ExamHours:      firstString(raw, "exam_hours"),
		CIEMarks:       optNumber(raw, "cie_marks", "assessment.cie.total"),
		ESEMarks:       optNumber(raw, "ese_marks", "assessment.ese.total"),
		Objectives:     stringList(raw, "objectives"),
		Modules:        normalizeModules(raw),
		Outcomes:       normalizeOutcomes(raw),
		Textbooks:      bookList(raw, "textbooks"),
		ReferenceBooks: bookList(raw, "reference_books", "referenceBooks"),
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Semester == "" {
		c.Semester = DefaultSemester
	}
	if a := raw.Get("assessment"); a.IsObject() {
		c.Assessment = []byte(a.Raw)
	}
	attachCourseVideoLinks(raw, c.Modules)
	c.ModuleSearchText = moduleSearchText(c.Modules)
	c.SearchableText = searchableText(&c)
	return c
}

// ParseDataset parses a {courses: [...]} document and normalizes every
// record. The error covers invalid JSON or a missing courses array;
// individual malformed records never fail.
func ParseDataset(raw string) ([]Course, error) {
	if !gjson.Valid(raw) {
		return nil, errors.New("dataset is not valid JSON")
	}
	arr := gjson.Parse(raw).Get("courses")
	if !arr.IsArray() {
		return nil, errors.New(`dataset has no top-level "courses" array`)
	}
	items := arr.Array()
	out := make([]Course, 0, len(items))
	for _, item := range items {
		out = append(out, Normalize(item))
	}
	return out, nil
}

func firstString(raw gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := raw.Get(p)
		if !v.Exists() {
			continue
		}
		if s := strings.TrimSpace(v.String()); s != "" {
			return s
		}
	}
	return ""
}

// firstNumber coerces the first present field to a number: finite JSON
// numbers pass through, numeric strings are parsed, everything else is 0.
func firstNumber(raw gjson.Result, paths ...string) float64 {
	if n := optNumber(raw, paths...); n != nil {
		return *n
	}
	return 0
}

func optNumber(raw gjson.Result, paths ...string) *float64 {
	for _, p := range paths {
		v := raw.Get(p)
		if !v.Exists() {
			continue
		}
		switch v.Type {
		case gjson.Number:
			f := v.Float()
			return &f
		case gjson.String:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// stringList accepts an array, a single scalar (wrapped as one element),
// or absence (empty list).
func stringList(raw gjson.Result, path string) []string {
	v := raw.Get(path)
	switch {
	case v.IsArray():
		items := v.Array()
		out := make([]string, 0, len(items))
		for _, it := range items {
			if s := strings.TrimSpace(it.String()); s != "" {
				out = append(out, s)
			}
		}
		return out
	case v.Exists() && v.Type != gjson.Null:
		if s := strings.TrimSpace(v.String()); s != "" {
			return []string{s}
		}
	}
	return []string{}
}

func normalizeModules(raw gjson.Result) []Module {
	src := raw.Get("syllabus_modules")
	if !src.IsArray() {
		src = raw.Get("modules")
	}
	if !src.IsArray() {
		return []Module{}
	}
	items := src.Array()
	out := make([]Module, 0, len(items))
	for i, m := range items {
		mod := Module{
			Number:       int(firstNumber(m, "module_no", "module_number")),
			ContentLines: moduleContent(m),
			ContactHours: optNumber(m, "contact_hours"),
			VideoLinks:   videoLinks(m.Get("video_links")),
		}
		if mod.Number == 0 {
			mod.Number = i + 1
		}
		out = append(out, mod)
	}
	return out
}

func moduleContent(m gjson.Result) []string {
	if v := m.Get("content"); v.Exists() {
		return stringList(m, "content")
	}
	return stringList(m, "description")
}

func videoLinks(v gjson.Result) []VideoLink {
	if !v.IsArray() {
		return nil
	}
	var out []VideoLink
	for _, it := range v.Array() {
		url := firstString(it, "url", "link")
		if url == "" && it.Type == gjson.String {
			url = strings.TrimSpace(it.Str)
		}
		if url == "" {
			continue
		}
		out = append(out, VideoLink{URL: url, Title: firstString(it, "title")})
	}
	return out
}

// attachCourseVideoLinks folds a course-level video_links array (entries
// tagged with module_no) into the matching modules.
func attachCourseVideoLinks(raw gjson.Result, mods []Module) {
	v := raw.Get("video_links")
	if !v.IsArray() {
		return
	}
	for _, it := range v.Array() {
		url := firstString(it, "link", "url")
		if url == "" {
			continue
		}
		num := int(firstNumber(it, "module_no", "module_number"))
		for i := range mods {
			if mods[i].Number == num {
				mods[i].VideoLinks = append(mods[i].VideoLinks, VideoLink{URL: url, Title: firstString(it, "title")})
				break
			}
		}
	}
}

func normalizeOutcomes(raw gjson.Result) []Outcome {
	src := raw.Get("course_outcomes")
	if !src.IsArray() {
		src = raw.Get("outcomes")
	}
	if !src.IsArray() {
		return []Outcome{}
	}
	items := src.Array()
	out := make([]Outcome, 0, len(items))
	for _, o := range items {
		oc := Outcome{
			Code:           firstString(o, "co_no", "code"),
			Description:    firstString(o, "description"),
			KnowledgeLevel: strings.ToUpper(firstString(o, "bloom_kl", "knowledge_level")),
		}
		if oc.Code == "" {
			oc.Code = DefaultOutcome
		}
		out = append(out, oc)
	}
	return out
}

func bookList(raw gjson.Result, paths ...string) []BookRef {
	var v gjson.Result
	for _, p := range paths {
		v = raw.Get(p)
		if v.IsArray() {
			break
		}
	}
	if !v.IsArray() {
		return []BookRef{}
	}
	items := v.Array()
	out := make([]BookRef, 0, len(items))
	for _, it := range items {
		if it.IsObject() {
			out = append(out, BookRef{
				Title:     firstString(it, "title"),
				Author:    firstString(it, "author"),
				Publisher: firstString(it, "publisher"),
				Edition:   firstString(it, "edition"),
				Year:      int(firstNumber(it, "year")),
			})
			continue
		}
		if s := strings.TrimSpace(it.String()); s != "" {
			out = append(out, BookRef{Text: s})
		}
	}
	return out
}

// searchableText concatenates the text-bearing fields in a fixed order:
// code, title, semester, credits, course type, group, prerequisites,
// objectives, outcome descriptions, module content. The order is not an
// external contract but must stay stable for reproducible search.
func searchableText(c *Course) string {
	var b strings.Builder
	add := func(s string) {
		if s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	add(c.Code)
	add(c.Title)
	add(c.Semester)
	add(formatNumber(c.Credits))
	add(c.CourseType)
	add(c.Group)
	for _, p := range c.Prerequisites {
		add(p)
	}
	for _, o := range c.Objectives {
		add(o)
	}
	for _, o := range c.Outcomes {
		add(o.Description)
	}
	add(c.ModuleSearchText)
	return strings.ToLower(b.String())
}

func moduleSearchText(mods []Module) string {
	var parts []string
	for _, m := range mods {
		parts = append(parts, m.ContentLines...)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
