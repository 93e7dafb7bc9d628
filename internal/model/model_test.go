package model

import (
	"reflect"
	"testing"
)

func TestMergeTags(t *testing.T) {
	cases := []struct {
		name     string
		existing []string
		incoming []string
		want     []string
	}{
		{"union", []string{"Rust"}, []string{"Go"}, []string{"Rust", "Go"}},
		{"dedupe", []string{"Rust", "Go"}, []string{"Go", " Rust "}, []string{"Rust", "Go"}},
		{"drops blanks", nil, []string{"", "  ", "Go"}, []string{"Go"}},
		{"nothing incoming", []string{"Rust"}, nil, []string{"Rust"}},
		{"empty", nil, nil, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MergeTags(tc.existing, tc.incoming)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("MergeTags(%v, %v) = %#v, want %#v", tc.existing, tc.incoming, got, tc.want)
			}
		})
	}
}

func TestProjectUpdateApply(t *testing.T) {
	p := Project{Title: "old", Technologies: []string{"Rust"}, Languages: []string{"en"}}
	title := "new"
	deployed := true
	ProjectUpdate{
		Title:          &title,
		Technologies:   []string{"Go", "Rust"},
		Languages:      []string{"de"},
		ClearLanguages: true,
		Deployed:       &deployed,
	}.Apply(&p)

	if p.Title != "new" || !p.Deployed {
		t.Errorf("scalar fields not applied: %+v", p)
	}
	if !reflect.DeepEqual(p.Technologies, []string{"Rust", "Go"}) {
		t.Errorf("technologies = %v", p.Technologies)
	}
	if !reflect.DeepEqual(p.Languages, []string{"de"}) {
		t.Errorf("languages not replaced: %v", p.Languages)
	}
}

func TestNormalizeGender(t *testing.T) {
	cases := map[string]struct {
		want Gender
		ok   bool
	}{
		"":        {GenderOthers, true},
		"MALE":    {GenderMale, true},
		" Female": {GenderFemale, true},
		"others":  {GenderOthers, true},
		"robot":   {"robot", false},
	}
	for in, tc := range cases {
		got, ok := NormalizeGender(in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NormalizeGender(%q) = %q, %v", in, got, ok)
		}
	}
}

func TestNormalizeProficiency(t *testing.T) {
	if p, ok := NormalizeProficiency("advanced"); !ok || p != Advanced {
		t.Errorf("got %q, %v", p, ok)
	}
	if _, ok := NormalizeProficiency("guru"); ok {
		t.Error("unknown level accepted")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Errorf("got %q", got)
	}
}
