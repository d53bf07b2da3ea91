package metadata

import (
	"reflect"
	"testing"
)

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  []string
	}{
		{
			name:  "leading track number",
			parts: []string{"03 - Artist - Song (Extended Mix)"},
			want:  []string{"Artist", "Song", "Extended", "Mix"},
		},
		{
			name:  "dotted track number",
			parts: []string{"07. Artist - Song"},
			want:  []string{"Artist", "Song"},
		},
		{
			name:  "track number after artist",
			parts: []string{"Artist - 05. Song"},
			want:  []string{"Artist", "Song"},
		},
		{
			name:  "ampersand and comma",
			parts: []string{"Artist & Other - Song, Part 2"},
			want:  []string{"Artist", "Other", "Song", "Part", "2"},
		},
		{
			name:  "square brackets",
			parts: []string{"Artist - Song [Label Records]"},
			want:  []string{"Artist", "Song", "Label", "Records"},
		},
		{
			name:  "duplicates keep first occurrence",
			parts: []string{"Song Song song Song"},
			want:  []string{"Song", "song"},
		},
		{
			name:  "curly apostrophe",
			parts: []string{"Don’t Stop"},
			want:  []string{"Don't", "Stop"},
		},
		{
			name:  "multiple parts are joined",
			parts: []string{"A B", "B (Original Mix)"},
			want:  []string{"A", "B", "Original", "Mix"},
		},
		{
			name:  "empty",
			parts: []string{""},
			want:  []string{},
		},
		{
			name:  "only brackets",
			parts: []string{" ( ) "},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitKeywords(tt.parts...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitKeywords(%q) = %q, want %q", tt.parts, got, tt.want)
			}
		})
	}
}

func TestSplitKeywordsHasNoDuplicates(t *testing.T) {
	inputs := []string{
		"01 - Deadmau5 - Strobe (Original Mix)",
		"A - A - A",
		"Artist feat. Other - Song (Other Remix) (Other Remix)",
		"x, x, [x] (x)",
	}
	for _, in := range inputs {
		seen := make(map[string]bool)
		for _, k := range SplitKeywords(in) {
			if seen[k] {
				t.Errorf("SplitKeywords(%q) repeats %q", in, k)
			}
			seen[k] = true
		}
	}
}

func TestReplacePathForbiddenChars(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"AC/DC", "AC-DC"},
		{`a\b*c?d<e>f|g:h"i`, "a-b-c-d-e-f-g-h-i"},
		{"Techno (Peak Time / Driving)", "Techno (Peak Time - Driving)"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := ReplacePathForbiddenChars(tt.in); got != tt.want {
			t.Errorf("ReplacePathForbiddenChars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
