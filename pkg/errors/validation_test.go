package errors

import "testing"

func TestValidatePins(t *testing.T) {
	tests := []struct {
		name    string
		top     []int
		bottom  []int
		wantErr bool
	}{
		{"empty", nil, nil, false},
		{"matching", []int{1, 0, 2}, []int{0, 2, 1}, false},
		{"all zero", []int{0, 0}, []int{0, 0}, false},
		{"length mismatch", []int{1, 2}, []int{1}, true},
		{"negative top", []int{-1}, []int{0}, true},
		{"negative bottom", []int{0}, []int{-3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePins(tt.top, tt.bottom)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePins() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidatePins() returned wrong error code: %v", err)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	if err := ValidatePositive("width", 0); err != nil {
		t.Errorf("zero should mean default: %v", err)
	}
	if err := ValidatePositive("width", 3); err != nil {
		t.Errorf("positive should pass: %v", err)
	}
	err := ValidatePositive("width", -1)
	if !Is(err, ErrCodeInvalidConfig) {
		t.Errorf("ValidatePositive(-1) = %v, want %s", err, ErrCodeInvalidConfig)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "pins.json", false},
		{"valid nested", "testdata/pins/dense.toml", false},
		{"absolute", "/tmp/pins.txt", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateRecordID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"3f2b9a52-1c9e-4f6a-9d7c-2f1e0b8a4c11", false},
		{"", true},
		{"../../etc/passwd", true},
		{"3f2b9a52", true},
	}

	for _, tt := range tests {
		err := ValidateRecordID(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRecordID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeUnroutable,
		ErrCodeRetriesExhausted,
		ErrCodeInvariant,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
