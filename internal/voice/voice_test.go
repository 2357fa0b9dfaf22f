package voice

import (
	"testing"
)

func TestContains(t *testing.T) {
	c := &Catalog{Voices: []string{"alba", "marius"}}

	tests := []struct {
		name     string
		voice    string
		expected bool
	}{
		{"known voice", "alba", true},
		{"another known voice", "marius", true},
		{"unknown voice", "javert", false},
		{"empty name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Contains(tt.voice); got != tt.expected {
				t.Errorf("Contains(%q) = %v, want %v", tt.voice, got, tt.expected)
			}
		})
	}
}

func TestPick(t *testing.T) {
	tests := []struct {
		name      string
		catalog   Catalog
		requested string
		expected  string
	}{
		{
			name:      "requested voice available",
			catalog:   Catalog{Voices: []string{"alba", "marius"}},
			requested: "marius",
			expected:  "marius",
		},
		{
			name:      "requested voice missing falls back to default",
			catalog:   Catalog{Voices: []string{"alba", "marius"}},
			requested: "nonexistent",
			expected:  DefaultVoice,
		},
		{
			name:      "empty request uses default",
			catalog:   Catalog{Voices: []string{"alba", "marius"}},
			requested: "",
			expected:  DefaultVoice,
		},
		{
			name:      "default missing uses first entry",
			catalog:   Catalog{Voices: []string{"marius", "javert"}},
			requested: "",
			expected:  "marius",
		},
		{
			name:      "empty catalog still returns default",
			catalog:   Catalog{},
			requested: "anything",
			expected:  DefaultVoice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.catalog.Pick(tt.requested); got != tt.expected {
				t.Errorf("Pick(%q) = %q, want %q", tt.requested, got, tt.expected)
			}
		})
	}
}

func TestBuiltinVoicesIncludeDefault(t *testing.T) {
	c := &Catalog{Voices: BuiltinVoices}
	if !c.Contains(DefaultVoice) {
		t.Errorf("Builtin catalog should include the default voice %q", DefaultVoice)
	}
}
