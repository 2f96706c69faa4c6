package calls

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tglive/internal/gateway"
	"tglive/internal/mocks"
)

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		valid bool
	}{
		{"simple", "durov", "durov", true},
		{"leading at stripped", "@durov", "durov", true},
		{"surrounding space stripped", "  durov  ", "durov", true},
		{"min length", "abcde", "abcde", true},
		{"max length", "a234567890123456789012345678901b", "a234567890123456789012345678901b", true},
		{"digits and underscores inside", "tg_live_2024", "tg_live_2024", true},
		{"ends with digit", "chan42", "chan42", true},
		{"too short", "abcd", "", false},
		{"too long", "a23456789012345678901234567890123", "", false},
		{"empty", "", "", false},
		{"only at", "@", "", false},
		{"starts with digit", "1durov", "", false},
		{"starts with underscore", "_durov", "", false},
		{"ends with underscore", "durov_", "", false},
		{"consecutive underscores", "du__rov", "", false},
		{"illegal character", "du-rov", "", false},
		{"unicode rejected", "дуров12", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateUsername(tc.input)
			if tc.valid {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			} else {
				require.ErrorIs(t, err, ErrInvalidUsername)
			}
		})
	}
}

func TestGetChannelInvalidUsernameSendsNothing(t *testing.T) {
	client := new(mocks.BackendClientMock)
	gw := gateway.New(client, zap.NewNop(), 0)
	svc := NewService(gw, new(mocks.TransportMock), zap.NewNop(), 0)

	_, err := svc.GetChannel(context.Background(), "@x")

	require.ErrorIs(t, err, ErrInvalidUsername)
	client.AssertNotCalled(t, "Send")
}
