package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimmed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "blank", input: "  \t ", expected: ""},
		{name: "leading and trailing", input: " Rorschach ", expected: "Rorschach"},
		{name: "interior kept", input: " a  b ", expected: "a  b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Trimmed(tt.input))
		})
	}
}

func TestWhitespaceRemoved(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "grouped iban", input: "CH44 3199 9123 0008  89012", expected: "CH4431999123000889012"},
		{name: "control characters", input: "RF18\t5390\n0754\r7034", expected: "RF18539007547034"},
		{name: "nothing to remove", input: "abc", expected: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WhitespaceRemoved(tt.input))
		})
	}
}

func TestSpacesCleaned(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "blank", input: "    ", expected: ""},
		{name: "collapses runs", input: "a   b  c", expected: "a b c"},
		{name: "trims and collapses", input: "  Grosse  Marktgasse ", expected: "Grosse Marktgasse"},
		{name: "keeps non ascii", input: "Zürich  Höngg", expected: "Zürich Höngg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SpacesCleaned(tt.input))
		})
	}
}

func TestClipped(t *testing.T) {
	t.Run("short value unchanged", func(t *testing.T) {
		v, clipped := Clipped("Biel", 35)
		assert.Equal(t, "Biel", v)
		assert.False(t, clipped)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		v, clipped := Clipped("ÄÖÜäöü", 4)
		assert.Equal(t, "ÄÖÜä", v)
		assert.True(t, clipped)
		assert.Equal(t, 4, CountRunes(v))
	})
}
