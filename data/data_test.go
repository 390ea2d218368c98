package data_test

import (
	"bytes"
	"testing"

	"github.com/palisadoes/pattoo-shared/data"
)

func TestHashstring(t *testing.T) {
	value := "unittest"

	tests := []struct {
		name     string
		sha      int
		expected string
	}{
		{
			name:     "sha256",
			sha:      data.SHA256,
			expected: "df08227309c92f2f3f030b423009e697445371283d89352a26d064d39fb73c36",
		},
		{
			name:     "sha1",
			sha:      data.SHA1,
			expected: "94e060874450b5ea724bb6ce5ca7be4f6a73416b",
		},
		{
			name: "sha384",
			sha:  data.SHA384,
			expected: "99ec86e99be2d6a9d9ad4947cb7a3aa43df85667a5a2839aeb3cedf0baa132a8" +
				"52381f94c70bba8576b7df11a2d3b819",
		},
		{
			name: "sha512",
			sha:  data.SHA512,
			expected: "def51cb07699f90b1613d0f4da13574e415323b2fcb98c1f072218a8ba82a444" +
				"32da79bdf90ebf82581d933dc4128e83bda0c9f9f7b8b32e41b8ee8bb16be531",
		},
		{
			name:     "unknown selector falls back to sha256",
			sha:      999,
			expected: "df08227309c92f2f3f030b423009e697445371283d89352a26d064d39fb73c36",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := data.Hashstring(value, tt.sha)
			if result != tt.expected {
				t.Errorf("Hashstring(%q, %d) = %s, want %s", value, tt.sha, result, tt.expected)
			}
		})
	}
}

func TestHashstringDeterministic(t *testing.T) {
	first := data.Hashstring("pattoo", data.SHA256)
	second := data.Hashstring("pattoo", data.SHA256)
	if first != second {
		t.Errorf("Hashstring not deterministic: %s != %s", first, second)
	}
}

func TestHashstringBytes(t *testing.T) {
	expected := []byte("94e060874450b5ea724bb6ce5ca7be4f6a73416b")
	result := data.HashstringBytes("unittest", data.SHA1)
	if !bytes.Equal(result, expected) {
		t.Errorf("HashstringBytes = %s, want %s", result, expected)
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected bool
	}{
		{"nil", nil, false},
		{"true", true, false},
		{"false", false, false},
		{"bool-like string", "False", false},
		{"integer string", "1", true},
		{"float string", "1.1", true},
		{"float", 1.1, true},
		{"int", 42, true},
		{"int64", int64(42), true},
		{"uint", uint(42), true},
		{"negative string", "-3.5", true},
		{"empty string", "", false},
		{"word", "pattoo", false},
		{"struct", struct{}{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := data.IsNumeric(tt.value); got != tt.expected {
				t.Errorf("IsNumeric(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}
