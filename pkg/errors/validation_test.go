package errors

import (
	"testing"
)

func TestValidateProblemID(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"first", 1, false},
		{"lightning range", 55, false},
		{"full range", 90, false},

		{"zero", 0, true},
		{"negative", -3, true},
		{"too large", MaxProblemID + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProblemID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProblemID(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateProblemID(%d) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://api.icfpcontest.com", false},
		{"http", "http://127.0.0.1:8080", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"no scheme", "api.icfpcontest.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHeaderName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"authorization", "Authorization", false},
		{"custom", "X-Team-Token", false},

		{"empty", "", true},
		{"space", "X Team", true},
		{"colon", "Authorization:", true},
		{"newline", "X-Team\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeaderName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHeaderName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
