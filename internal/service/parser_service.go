package service

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/nguyenthenguyen/docx"

	"github.com/hiredeck/hiredeck/internal/apperror"
)

// ParsedResume is the best-effort extraction result for one attachment.
// Structured fields may be empty; they are superseded later by
// classifier-extracted data when present.
type ParsedResume struct {
	Text           string
	CandidateName  string
	CandidateEmail string
	CandidatePhone string
	Skills         []string
	Experience     string
	Education      string
}

// ParserService extracts plain text and contact fields from resume documents.
type ParserService struct{}

func NewParserService() *ParserService {
	return &ParserService{}
}

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s\-().]{7,}\d`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// Parse extracts text from the attachment bytes based on the file extension.
// Unsupported types, corrupt content and empty documents fail with a
// ParseError; these are per-item failures, never fatal to a run.
func (s *ParserService) Parse(data []byte, filename string) (*ParsedResume, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var text string
	var err error
	switch ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx", ".doc":
		text, err = extractDocx(data)
	case ".txt":
		text = string(data)
	default:
		return nil, &apperror.ParseError{Filename: filename, Err: fmt.Errorf("unsupported file type %q", ext)}
	}
	if err != nil {
		return nil, &apperror.ParseError{Filename: filename, Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &apperror.ParseError{Filename: filename, Err: fmt.Errorf("no text extracted")}
	}

	parsed := &ParsedResume{Text: text}
	parsed.CandidateEmail = emailPattern.FindString(text)
	parsed.CandidatePhone = strings.TrimSpace(phonePattern.FindString(text))
	parsed.CandidateName = guessName(text)

	sections := extractSections(text)
	parsed.Skills = splitSkills(sections["skills"])
	parsed.Experience = sections["experience"]
	parsed.Education = sections["education"]
	return parsed, nil
}

func extractPDF(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText bytes.Buffer
	var lastErr error
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: %w", n+1, err)
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText != "" {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if result == "" && lastErr != nil {
		return "", lastErr
	}
	return result, nil
}

func extractDocx(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

// sectionHeaders maps the headings resumes commonly use onto the canonical
// section keys.
var sectionHeaders = map[string]string{
	"skills":                  "skills",
	"technical skills":        "skills",
	"key skills":              "skills",
	"experience":              "experience",
	"work experience":         "experience",
	"professional experience": "experience",
	"employment history":      "experience",
	"education":               "education",
}

// extractSections splits the resume on recognized headings and returns the
// body text under each. A heading is a short line matching sectionHeaders,
// optionally ending with a colon.
func extractSections(text string) map[string]string {
	sections := map[string]string{}
	current := ""
	var body []string

	flush := func() {
		if current != "" && len(body) > 0 {
			joined := strings.TrimSpace(strings.Join(body, "\n"))
			if sections[current] == "" {
				sections[current] = joined
			}
		}
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		key := strings.ToLower(strings.TrimSuffix(trimmed, ":"))
		if canonical, ok := sectionHeaders[key]; ok && len(trimmed) <= 40 {
			flush()
			current = canonical
			continue
		}
		if current != "" && trimmed != "" {
			body = append(body, trimmed)
		}
	}
	flush()
	return sections
}

// splitSkills breaks a skills section into individual entries. Resumes list
// skills comma-separated, bulleted or one per line; all three shapes occur.
func splitSkills(section string) []string {
	if section == "" {
		return nil
	}
	parts := strings.FieldsFunc(section, func(r rune) bool {
		switch r {
		case ',', ';', '\n', '|', '•':
			return true
		}
		return false
	})

	var skills []string
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "-"))
		if p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}

// guessName takes the first short non-empty line that is not a contact
// detail. Resumes usually lead with the candidate's name.
func guessName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "@") || phonePattern.MatchString(line) {
			continue
		}
		if len(line) > 60 {
			return ""
		}
		return line
	}
	return ""
}
