package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://llm.internal:8080"),
		WithModel("gpt-4o-mini"),
	)
	assert.Equal(t, "http://llm.internal:8080", cfg.Host)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"http://localhost:11434", "http://localhost:11434/v1"},
		{"http://localhost:11434/", "http://localhost:11434/v1"},
		{"http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"", ""},
	}
	for _, tt := range tests {
		cfg := &Config{Host: tt.host, Model: "m"}
		cfg.Normalize()
		assert.Equal(t, tt.want, cfg.Host)
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{Model: "m"}).Validate())
	assert.Error(t, (&Config{Host: "http://x/v1"}).Validate())
}
