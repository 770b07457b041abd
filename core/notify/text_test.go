package notify

import "testing"

func TestContent_Text(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		rcpt    Recipient
		want    string
	}{
		{
			name:    "full event",
			content: Content{Title: "Bible study", Date: "Sunday 10am", Location: "Main hall", Message: "Bring your Bible."},
			rcpt:    Recipient{Identifier: "+243810000000", Name: "Grace"},
			want:    "Hi Grace! Bible study on Sunday 10am at Main hall. Bring your Bible.",
		},
		{
			name:    "no name",
			content: Content{Title: "Prayer night", Date: "Friday"},
			rcpt:    Recipient{Identifier: "grace@test.cd"},
			want:    "Prayer night on Friday.",
		},
		{
			name:    "message only",
			content: Content{Message: "Classes resume on Monday."},
			rcpt:    Recipient{Name: " "},
			want:    "Classes resume on Monday.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.content.Text(tt.rcpt); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContent_SubjectLine(t *testing.T) {
	if got := (Content{Title: "Retreat"}).SubjectLine(); got != "Retreat" {
		t.Errorf("SubjectLine() = %q, want %q", got, "Retreat")
	}
	if got := (Content{Subject: "Reminder", Title: "Retreat"}).SubjectLine(); got != "Reminder" {
		t.Errorf("SubjectLine() = %q, want %q", got, "Reminder")
	}
}
