package quiz

import (
	"regexp"
	"strings"

	"github.com/trezcool/bibleschool/core"
)

var (
	questionNumberRegex = regexp.MustCompile(`^\d+[.)]\s*`)
	questionRangeRegex  = regexp.MustCompile(`^Questions\s+\d+-\d+`)
	optionRegex         = regexp.MustCompile(`^[A-Da-d][.)]\s*`)
	answerRegex         = regexp.MustCompile(`(?:Correct Answer|Answer):\s*([A-Da-d])`)
)

// ParserOptions holds the content-specific heuristics of the parser.
type ParserOptions struct {
	// TitleKeywords: the first line containing any of these (case-sensitive) becomes the title.
	TitleKeywords []string
	// HeaderKeywords: numbered lines containing any of these are chapter headers and are skipped.
	HeaderKeywords []string
	TitleMaxLen    int
	DefaultTitle   string
}

func DefaultParserOptions() ParserOptions {
	return ParserOptions{
		TitleKeywords:  []string{"Week", "quiz"},
		HeaderKeywords: []string{"Chapter", "Deep Depression"},
		TitleMaxLen:    100,
		DefaultTitle:   "Quiz",
	}
}

// ParserOptionsFromConfig falls back to the defaults for every unset field.
func ParserOptionsFromConfig(conf core.QuizConfig) ParserOptions {
	opts := DefaultParserOptions()
	if conf.TitleKeywords != nil {
		opts.TitleKeywords = conf.TitleKeywords
	}
	if conf.HeaderKeywords != nil {
		opts.HeaderKeywords = conf.HeaderKeywords
	}
	if conf.TitleMaxLen > 0 {
		opts.TitleMaxLen = conf.TitleMaxLen
	}
	if conf.DefaultTitle != "" {
		opts.DefaultTitle = conf.DefaultTitle
	}
	return opts
}

// Parser turns a semi-structured plain-text exam into question records.
// It never fails: malformed blocks only produce incomplete questions.
type Parser struct {
	opts ParserOptions
}

func NewParser(opts ParserOptions) *Parser {
	return &Parser{opts: opts}
}

// Parse scans `text` top to bottom. A question is opened by a numbered line
// and finalized when the next one opens or the input ends.
//
// OrderIndex is assigned when a question is opened, from the number of questions
// finalized so far, not when it is finalized.
func (p *Parser) Parse(text string) ParsedQuiz {
	lines := splitLines(text)
	pq := ParsedQuiz{
		Title:     p.title(lines),
		Questions: make([]ParsedQuestion, 0),
	}

	var curr *ParsedQuestion
	finalize := func() {
		if curr != nil && curr.Question != "" {
			pq.Questions = append(pq.Questions, *curr)
		}
	}

	for _, line := range lines {
		if isQuestionStart(line) {
			if p.isChapterHeader(line) {
				continue
			}
			finalize()
			curr = &ParsedQuestion{
				Question:   questionNumberRegex.ReplaceAllString(line, ""),
				Options:    make([]string, 0, MinOptions),
				OrderIndex: len(pq.Questions) + 1,
			}
			continue
		}

		if curr == nil {
			continue
		}

		if loc := optionRegex.FindStringIndex(line); loc != nil {
			if opt := strings.TrimSpace(line[loc[1]:]); opt != "" {
				curr.Options = append(curr.Options, opt)
			}
			continue
		}

		if strings.Contains(line, "Correct Answer:") || strings.Contains(line, "Answer:") {
			if m := answerRegex.FindStringSubmatch(line); m != nil {
				curr.CorrectAnswer = strings.ToUpper(m[1])
			}
			continue
		}

		// continuation of the last option
		if n := len(curr.Options); n > 0 && n < MinOptions && curr.Options[n-1] != "" {
			curr.Options[n-1] += " " + line
			continue
		}

		// continuation of the question text
		if !strings.Contains(line, "Correct Answer") && !questionNumberRegex.MatchString(line) && !optionRegex.MatchString(line) {
			curr.Question = joinSpace(curr.Question, line)
		}
	}
	finalize()

	return pq
}

func (p *Parser) title(lines []string) string {
	for _, line := range lines {
		if containsAny(line, p.opts.TitleKeywords) {
			return core.Truncate(line, p.opts.TitleMaxLen)
		}
	}
	return p.opts.DefaultTitle
}

func (p *Parser) isChapterHeader(line string) bool {
	return containsAny(line, p.opts.HeaderKeywords)
}

func isQuestionStart(line string) bool {
	return questionNumberRegex.MatchString(line) || questionRangeRegex.MatchString(line)
}

// splitLines returns the non-empty, trimmed lines of `text`.
func splitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func joinSpace(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}
