package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePublicID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "tl_m1abc5fk_9x2x", false},
		{"empty", "", true},
		{"missing prefix", "m1abc5fk_9x2x", true},
		{"short suffix", "tl_m1abc5fk_9x", true},
		{"uppercase", "tl_M1ABC5FK_9X2X", true},
		{"path traversal", "tl_../../etc_pass", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePublicID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
