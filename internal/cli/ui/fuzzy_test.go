package ui

import (
	"reflect"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"user", "usr", 1},
		{"naïve", "naive", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.expected {
				t.Errorf("Distance(%q, %q) = %d; want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	candidates := []string{"User", "Note", "Account", "Counter"}

	tests := []struct {
		name     string
		target   string
		limit    int
		expected []string
	}{
		{"case insensitive", "usr", 3, []string{"User"}},
		{"closest first", "Nte", 3, []string{"Note", "User"}},
		{"limit", "Nte", 1, []string{"Note"}},
		{"nothing close", "Transaction", 3, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.target, candidates, tt.limit)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Suggest(%q) = %v; want %v", tt.target, got, tt.expected)
			}
		})
	}
}
