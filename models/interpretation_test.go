package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretationConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*InterpretationConfig)
		wantErr string
	}{
		{name: "defaults", mutate: func(*InterpretationConfig) {}},
		{name: "every known value", mutate: func(c *InterpretationConfig) {
			*c = InterpretationConfig{AudienceChild, ToneAssertive, FormatExecutiveSummary, LengthDetailed}
		}},
		{name: "unknown audience", mutate: func(c *InterpretationConfig) { c.Audience = "judge" }, wantErr: `invalid audience "judge"`},
		{name: "unknown tone", mutate: func(c *InterpretationConfig) { c.Tone = "ironic" }, wantErr: `invalid tone "ironic"`},
		{name: "unknown format", mutate: func(c *InterpretationConfig) { c.Format = "table" }, wantErr: `invalid format "table"`},
		{name: "empty length", mutate: func(c *InterpretationConfig) { c.Length = "" }, wantErr: `invalid length ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultInterpretationConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
