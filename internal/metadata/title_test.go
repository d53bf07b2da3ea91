package metadata

import "testing"

var titleCases = []struct {
	name    string
	rawName string
	mixName string
	want    string
}{
	{"feat without dot", "Song (feat Other)", "Extended Mix", "Song (feat. Other) (Extended Mix)"},
	{"bare feat is wrapped", "Song feat. Other", "Original Mix", "Song (feat. Other) (Original Mix)"},
	{"capital Feat", "Song Feat Other", "", "Song (feat. Other)"},
	{"plain mix", "Strobe", "Original Mix", "Strobe (Original Mix)"},
	{"lowercase mix is capitalized", "Song", "extended mix", "Song (Extended Mix)"},
	{"square brackets", "Song [Extended]", "", "Song (Extended Mix)"},
	{"bare original", "Song (original)", "", "Song (Original Mix)"},
	{"rmx", "Song (Someone RMX)", "", "Song (Someone Remix)"},
	{"duplicate mix group", "Song (Extended Mix)", "Extended Mix", "Song (Extended Mix)"},
	{"remix with original mix", "Bassturbation - Oyaebu Remix", "Original Mix", "Bassturbation (Oyaebu Remix)"},
	{"nested edit note", "It's Our Future (Deadmau5 Remix (Cubrik Re-Edit))", "", "It's Our Future (Deadmau5 Remix) (Cubrik Re-Edit)"},
	{"spaces inside parentheses", "Song ( Dub )", "", "Song (Dub Mix)"},
	{"adjacent groups", "Song (Dub Mix)(Live)", "", "Song (Dub Mix) (Live)"},
	{"curly apostrophe", "Don’t Stop", "Original Mix", "Don't Stop (Original Mix)"},
	{"bare name group with bare mix", "Song (Original)", "Dub", "Song (Original Mix)"},
	{"bracketed name group with bare mix", "Song [Extended]", "Original", "Song (Extended Mix)"},
	{"two bare groups", "Song (Instrumental) (Dub)", "", "Song (Instrumental Mix)"},
	{"ft is left alone", "Song ft. Other", "", "Song ft. Other"},
}

func TestFormatTitle(t *testing.T) {
	for _, tt := range titleCases {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTitle(tt.rawName, tt.mixName); got != tt.want {
				t.Errorf("FormatTitle(%q, %q) = %q, want %q", tt.rawName, tt.mixName, got, tt.want)
			}
		})
	}
}

func TestFormatTitleIsIdempotent(t *testing.T) {
	for _, tt := range titleCases {
		t.Run(tt.name, func(t *testing.T) {
			once := FormatTitle(tt.rawName, tt.mixName)
			if twice := FormatTitle(once, ""); twice != once {
				t.Errorf("FormatTitle(%q) = %q, want unchanged", once, twice)
			}
		})
	}
}

func TestFormatTitleEmpty(t *testing.T) {
	for _, name := range []string{"", "   "} {
		if got := FormatTitle(name, "Original Mix"); got != "" {
			t.Errorf("FormatTitle(%q) = %q, want empty", name, got)
		}
	}
}

func TestForceRadioEdit(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Song (Original Mix)", "Song (Radio Edit)"},
		{"Song (extended mix)", "Song (Radio Edit)"},
		{"Song (Someone Remix)", "Song (Someone Remix) (Radio Edit)"},
		{"Song", "Song (Radio Edit)"},
	}
	for _, tt := range tests {
		if got := ForceRadioEdit(tt.in); got != tt.want {
			t.Errorf("ForceRadioEdit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
