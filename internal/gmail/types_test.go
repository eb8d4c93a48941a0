package gmail

import "testing"

func TestHeaderFirstMatchWins(t *testing.T) {
	m := Message{Headers: []Header{
		{Name: "Received", Value: "hop-1"},
		{Name: "Received", Value: "hop-2"},
		{Name: "From", Value: "a@b.example"},
	}}
	if got := m.Header("Received"); got != "hop-1" {
		t.Fatalf("Header(Received) = %q, want hop-1", got)
	}
	if got := m.Header("From"); got != "a@b.example" {
		t.Fatalf("Header(From) = %q", got)
	}
	if got := m.Header("Subject"); got != "" {
		t.Fatalf("missing header should be empty, got %q", got)
	}
}
