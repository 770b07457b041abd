package quiz

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/trezcool/bibleschool/core"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ParsedQuiz
	}{
		{
			name: "empty input",
			text: "",
			want: ParsedQuiz{Title: "Quiz"},
		},
		{
			name: "no question marker",
			text: lines("Some intro text", "A. dangling option", "Answer: B"),
			want: ParsedQuiz{Title: "Quiz"},
		},
		{
			name: "single well-formed question",
			text: lines("3. What city did Jonah flee to?", "A. Nineveh", "B. Tarshish", "C. Joppa", "D. Babylon", "Answer: B"),
			want: ParsedQuiz{
				Title: "Quiz",
				Questions: []ParsedQuestion{{
					Question:      "What city did Jonah flee to?",
					Options:       []string{"Nineveh", "Tarshish", "Joppa", "Babylon"},
					CorrectAnswer: "B",
					OrderIndex:    1,
				}},
			},
		},
		{
			name: "title, blank lines and windows line endings",
			text: "\ufeffWeek 2 quiz: Jonah\r\n\r\n1) Who was sent to Nineveh?\r\n  a) Jonah \r\nb) Elijah\r\nc) Amos\r\nd) Hosea\r\nCorrect Answer: a\r\n",
			want: ParsedQuiz{
				Title: "Week 2 quiz: Jonah",
				Questions: []ParsedQuestion{{
					Question:      "Who was sent to Nineveh?",
					Options:       []string{"Jonah", "Elijah", "Amos", "Hosea"},
					CorrectAnswer: "A",
					OrderIndex:    1,
				}},
			},
		},
		{
			name: "chapter headers do not open questions",
			text: lines(
				"Week 3",
				"1. Chapter 2 review",
				"1. Who swallowed Jonah?",
				"A. A great fish", "B. A whale shark", "C. A bird", "D. A lion",
				"Answer: A",
				"2. Deep Depression questions",
				"2. Where did Jonah pray?",
				"A. In the fish", "B. On the ship", "C. In Nineveh", "D. In Tarshish",
				"Answer: A",
			),
			want: ParsedQuiz{
				Title: "Week 3",
				Questions: []ParsedQuestion{
					{
						Question:      "Who swallowed Jonah?",
						Options:       []string{"A great fish", "A whale shark", "A bird", "A lion"},
						CorrectAnswer: "A",
						OrderIndex:    1,
					},
					{
						Question:      "Where did Jonah pray?",
						Options:       []string{"In the fish", "On the ship", "In Nineveh", "In Tarshish"},
						CorrectAnswer: "A",
						OrderIndex:    2,
					},
				},
			},
		},
		{
			name: "multi-line question text",
			text: lines(
				"1. In the book of Jonah,",
				"what did God provide",
				"to shade Jonah?",
				"A. A vine", "B. A tent", "C. A cloud", "D. A tree",
				"Answer: A",
			),
			want: ParsedQuiz{
				Title: "Quiz",
				Questions: []ParsedQuestion{{
					Question:      "In the book of Jonah, what did God provide to shade Jonah?",
					Options:       []string{"A vine", "A tent", "A cloud", "A tree"},
					CorrectAnswer: "A",
					OrderIndex:    1,
				}},
			},
		},
		{
			name: "multi-line option",
			text: lines(
				"1. How long was Jonah in the fish?",
				"A. Three days", "and three nights",
				"B. One day", "C. A week", "D. Forty days",
				"Answer: A",
			),
			want: ParsedQuiz{
				Title: "Quiz",
				Questions: []ParsedQuestion{{
					Question:      "How long was Jonah in the fish?",
					Options:       []string{"Three days and three nights", "One day", "A week", "Forty days"},
					CorrectAnswer: "A",
					OrderIndex:    1,
				}},
			},
		},
		{
			name: "three options and unknown answer letter",
			text: lines(
				"1. Where did Jonah sleep?",
				"A. In the ship", "B. On deck", "C. In the fish",
				"Answer: E",
			),
			want: ParsedQuiz{
				Title: "Quiz",
				Questions: []ParsedQuestion{{
					Question:   "Where did Jonah sleep?",
					Options:    []string{"In the ship", "On deck", "In the fish"},
					OrderIndex: 1,
				}},
			},
		},
		{
			name: "questions range header",
			text: lines(
				"Questions 1-2",
				"1. Who was thrown overboard?",
				"A. Jonah", "B. The captain", "C. A sailor", "D. Nobody",
				"Answer: A",
			),
			want: ParsedQuiz{
				Title: "Quiz",
				Questions: []ParsedQuestion{
					{Question: "Questions 1-2", OrderIndex: 1},
					{
						Question:      "Who was thrown overboard?",
						Options:       []string{"Jonah", "The captain", "A sailor", "Nobody"},
						CorrectAnswer: "A",
						OrderIndex:    2,
					},
				},
			},
		},
		{
			name: "last answer line wins",
			text: lines(
				"1. Who repented?",
				"A. Nineveh", "B. Tarshish", "C. Joppa", "D. Babylon",
				"Answer: C",
				"Correct Answer: A",
			),
			want: ParsedQuiz{
				Title: "Quiz",
				Questions: []ParsedQuestion{{
					Question:      "Who repented?",
					Options:       []string{"Nineveh", "Tarshish", "Joppa", "Babylon"},
					CorrectAnswer: "A",
					OrderIndex:    1,
				}},
			},
		},
	}

	p := NewParser(DefaultParserOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.text)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParser_title(t *testing.T) {
	long := "Week 1 " + strings.Repeat("é", 150)

	tests := []struct {
		name string
		opts ParserOptions
		text string
		want string
	}{
		{name: "default", opts: DefaultParserOptions(), text: "nothing here", want: "Quiz"},
		{name: "first matching line", opts: DefaultParserOptions(), text: lines("intro", "Final quiz", "Week 9"), want: "Final quiz"},
		{name: "keywords are case-sensitive", opts: DefaultParserOptions(), text: lines("week one", "QUIZ"), want: "Quiz"},
		{name: "truncated to 100 runes", opts: DefaultParserOptions(), text: long, want: core.Truncate(long, 100)},
		{
			name: "from config",
			opts: ParserOptionsFromConfig(core.QuizConfig{TitleKeywords: []string{"Lesson"}, DefaultTitle: "Untitled"}),
			text: lines("Week 1", "Lesson 4"),
			want: "Lesson 4",
		},
		{
			name: "config default title",
			opts: ParserOptionsFromConfig(core.QuizConfig{TitleKeywords: []string{"Lesson"}, DefaultTitle: "Untitled"}),
			text: "Week 1",
			want: "Untitled",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewParser(tt.opts).Parse(tt.text).Title; got != tt.want {
				t.Errorf("Parse().Title = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParser_customHeaderKeywords(t *testing.T) {
	p := NewParser(ParserOptionsFromConfig(core.QuizConfig{HeaderKeywords: []string{"Section"}}))
	got := p.Parse(lines("1. Section A", "1. Chapter one question?", "A. a", "B. b", "C. c", "D. d", "Answer: D"))

	if len(got.Questions) != 1 {
		t.Fatalf("Parse() got %d questions, want 1", len(got.Questions))
	}
	if got.Questions[0].Question != "Chapter one question?" {
		t.Errorf("Parse() question = %q", got.Questions[0].Question)
	}
}

func TestParsedQuestion_IsComplete(t *testing.T) {
	four := []string{"a", "b", "c", "d"}
	tests := []struct {
		name string
		q    ParsedQuestion
		want bool
	}{
		{name: "complete", q: ParsedQuestion{Question: "q", Options: four, CorrectAnswer: "A"}, want: true},
		{name: "five options", q: ParsedQuestion{Question: "q", Options: append(four, "e"), CorrectAnswer: "A"}, want: true},
		{name: "three options", q: ParsedQuestion{Question: "q", Options: four[:3], CorrectAnswer: "A"}, want: false},
		{name: "no answer", q: ParsedQuestion{Question: "q", Options: four}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.IsComplete(); got != tt.want {
				t.Errorf("IsComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}
