package features

import (
	"reflect"
	"testing"
)

func TestAnalyzer_Terms(t *testing.T) {
	a, err := NewAnalyzer(0)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"stop words and case", "The Quick brown fox and a dog", []string{"quick", "brown", "fox", "dog"}},
		{"punctuation", "heist, bank; robbery!", []string{"heist", "bank", "robbery"}},
		{"repeats kept", "space space", []string{"space", "space"}},
		{"genre markup", `[{"id": 28, "name": "Action"}]`, []string{"id", "28", "name", "action"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Terms(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Terms(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnalyzer_MinLength(t *testing.T) {
	a, err := NewAnalyzer(4)
	if err != nil {
		t.Fatal(err)
	}
	got := a.Terms("war film about spies")
	want := []string{"film", "spies"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %v, want %v", got, want)
	}
}
