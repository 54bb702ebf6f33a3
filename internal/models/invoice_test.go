package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"open", InvoiceStatusOpen},
		{"closed", InvoiceStatusClosed},
		{"validated", InvoiceStatusValidated},
		// Legacy Portuguese rows.
		{"aberto", InvoiceStatusOpen},
		{"fechado", InvoiceStatusClosed},
		// Unknown and empty default to open.
		{"", InvoiceStatusOpen},
		{"pending", InvoiceStatusOpen},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, NormalizeStatus(tt.in), "input %q", tt.in)
	}
}

func TestClientDisplayName(t *testing.T) {
	c := &Client{Name: "Padaria Central", RazaoSocial: "Padaria Central LTDA"}
	require.Equal(t, "Padaria Central", c.DisplayName())

	c = &Client{RazaoSocial: "Padaria Central LTDA"}
	require.Equal(t, "Padaria Central LTDA", c.DisplayName())
}
