package errors

import (
	"strings"
	"testing"
)

func TestValidateImageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "pump.png", false},
		{"with spaces", "valve open.png", false},
		{"empty", "", true},
		{"control character", "pump\x00.png", true},
		{"newline", "pump\n.png", true},
		{"too long", strings.Repeat("a", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDocument) {
				t.Errorf("ValidateImageName(%q) error = %v, want %v", tt.input, err, ErrCodeInvalidDocument)
			}
		})
	}
}

func TestValidateMediaType(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"image/png", false},
		{"image/svg+xml", false},
		{"text/html", true},
		{"image/png;base64", true},
		{"image/png\"", true},
	}

	for _, tt := range tests {
		err := ValidateMediaType(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMediaType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateComponentID(t *testing.T) {
	if err := ValidateComponentID(1); err != nil {
		t.Errorf("ValidateComponentID(1) error = %v, want nil", err)
	}
	if err := ValidateComponentID(0); err == nil {
		t.Error("ValidateComponentID(0) should fail")
	}
	if err := ValidateComponentID(-4); err == nil {
		t.Error("ValidateComponentID(-4) should fail")
	}
}
