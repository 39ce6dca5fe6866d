package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"notes.pdf", "notes.pdf"},
		{"my file.pdf", "my-file.pdf"},
		{"week 1 / intro.mp4", "week-1-intro.mp4"},
		{"résumé.doc", "r-sum-.doc"},
		{"---weird---name---", "weird-name"},
		{"", "file"},
		{"///", "file"},
		{"UPPER_case-1.PNG", "UPPER_case-1.PNG"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestHasVideoExtension(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"lecture.mkv", true},
		{"Lecture.MP4", true},
		{"clip.webm", true},
		{"notes.pdf", false},
		{"archive.mp4.zip", false},
		{"noextension", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HasVideoExtension(c.name), c.name)
	}
}
