package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNormalizeEncoding(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "utf-8 with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,code")...),
			expected: "name,code",
		},
		{
			name:     "utf-8 without BOM",
			input:    []byte("name,code"),
			expected: "name,code",
		},
		{
			name:     "accented utf-8 untouched",
			input:    []byte("Ñúñez"),
			expected: "Ñúñez",
		},
		{
			name:     "utf-16 little endian with BOM",
			input:    []byte{0xFF, 0xFE, 'n', 0, 'a', 0, 'm', 0, 'e', 0},
			expected: "name",
		},
		{
			name:     "utf-16 big endian with BOM",
			input:    []byte{0xFE, 0xFF, 0, 'c', 0, 'o', 0, 'd', 0, 'e'},
			expected: "code",
		},
		{
			name:     "invalid byte replaced",
			input:    []byte{'a', 0xFF, 'b'},
			expected: "a\uFFFDb",
		},
		{
			name:     "empty",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEncoding(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestReadImport_SizeLimit(t *testing.T) {
	data := strings.Repeat("x", 100)

	if _, err := ReadImport(strings.NewReader(data), 100); err != nil {
		t.Errorf("file at the limit should be accepted: %v", err)
	}

	_, err := ReadImport(strings.NewReader(data), 99)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}

	got, err := ReadImport(bytes.NewReader([]byte(data)), 0)
	if err != nil || len(got) != 100 {
		t.Errorf("no limit: len = %d, err = %v", len(got), err)
	}
}
