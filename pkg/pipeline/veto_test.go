package pipeline

import (
	"errors"
	"strings"
	"testing"
)

// stubVerifier accepts signatures containing marker substrings.
type stubVerifier struct{}

func (stubVerifier) VerifyPrimary(_, signature string) bool {
	return strings.Contains(signature, "PRIMARY")
}

func (stubVerifier) VerifyDelegated(_, signature string) bool {
	return strings.Contains(signature, "DELEGATED")
}

func TestOperationTier(t *testing.T) {
	tests := []struct {
		operation string
		want      Tier
	}{
		{operation: "MAJOR_UPGRADE", want: TierCritical},
		{operation: "ALIGNMENT_ENGINE_RESET", want: TierCritical},
		{operation: "CONFIG_CHANGE", want: TierImportant},
		{operation: "STATUS_CHECK", want: TierRoutine},
		{operation: "UNKNOWN_OPERATION", want: TierRoutine},
	}
	for _, tt := range tests {
		if got := OperationTier(tt.operation); got != tt.want {
			t.Errorf("OperationTier(%q) = %q, want %q", tt.operation, got, tt.want)
		}
	}
}

func TestVeto_Authorize(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		signature string
		wantErr   bool
	}{
		{name: "critical with primary", operation: "MAJOR_UPGRADE", signature: "PRIMARY-sig", wantErr: false},
		{name: "critical with delegated", operation: "MAJOR_UPGRADE", signature: "DELEGATED-sig", wantErr: true},
		{name: "critical without signature", operation: "MAJOR_UPGRADE", signature: "", wantErr: true},
		{name: "important with delegated", operation: "CONFIG_CHANGE", signature: "DELEGATED-sig", wantErr: false},
		{name: "important with primary", operation: "CONFIG_CHANGE", signature: "PRIMARY-sig", wantErr: false},
		{name: "important without signature", operation: "CONFIG_CHANGE", signature: "", wantErr: true},
		{name: "routine without signature", operation: "STATUS_CHECK", signature: "", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVeto(stubVerifier{}, nil)
			err := v.Authorize(tt.operation, tt.signature)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Authorize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrAccessDenied) {
					t.Errorf("error = %v, want ErrAccessDenied", err)
				}
				if len(v.Violations()) != 1 {
					t.Errorf("violations = %d, want 1", len(v.Violations()))
				}
			} else if len(v.Violations()) != 0 {
				t.Errorf("violations = %d, want 0", len(v.Violations()))
			}
		})
	}
}
