package exercise

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"wat", WordAssociation, false},
		{"WAT", WordAssociation, false},
		{"word-association", WordAssociation, false},
		{"srt", SituationReaction, false},
		{"situation-reaction", SituationReaction, false},
		{" srt ", SituationReaction, false},
		{"tat", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAcceptsResponse_Timed(t *testing.T) {
	s := DefaultSettings(WordAssociation)

	if s.AcceptsResponse("") {
		t.Error("empty response should be rejected")
	}
	if s.AcceptsResponse("   ") {
		t.Error("whitespace-only response should be rejected")
	}
	if !s.AcceptsResponse("fire truck") {
		t.Error("non-empty response should be accepted")
	}
	if !s.AcceptsResponse("x") {
		t.Error("single character should satisfy the timed constraint")
	}
}

func TestAcceptsResponse_Untimed(t *testing.T) {
	s := DefaultSettings(SituationReaction)

	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"short", false},                       // under word minimum
		{"two words", false},                   // still under word minimum
		{"he calls for help", true},            // 4 words, 17 chars
		{"a b c", false},                       // 3 words but under char minimum
		{"stays calm and acts quickly", true},
	}

	for _, tt := range tests {
		if got := s.AcceptsResponse(tt.text); got != tt.want {
			t.Errorf("AcceptsResponse(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestDefaultSettings(t *testing.T) {
	wat := DefaultSettings(WordAssociation)
	if !wat.Timed || wat.BudgetSec != 15 {
		t.Errorf("word-association settings = %+v, want timed with 15s budget", wat)
	}

	srt := DefaultSettings(SituationReaction)
	if srt.Timed {
		t.Error("situation-reaction should be untimed")
	}
	if srt.MinWords != 3 || srt.MinChars != 10 {
		t.Errorf("situation-reaction constraints = %+v", srt)
	}
}
