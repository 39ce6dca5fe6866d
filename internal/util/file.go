package util

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// SanitizeFilename strips everything outside [a-zA-Z0-9.-_], collapses
// repeated hyphens and trims hyphens at the edges. Falls back to "file"
// when nothing survives.
func SanitizeFilename(name string) string {
	s := disallowedChars.ReplaceAllString(name, "-")
	s = repeatedHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" || s == "." {
		return "file"
	}
	return s
}

// ValidateMimeType sniffs the first 512 bytes and checks the detected
// MIME type against allowed prefixes or exact types.
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

func IsVideo(mimeType string) bool {
	return strings.HasPrefix(mimeType, "video/") || mimeType == "application/x-mpegURL"
}

// HasVideoExtension catches video containers whose content sniffs as
// application/octet-stream.
func HasVideoExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedVideoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
