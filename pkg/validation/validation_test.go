package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xnftlabs/backend/internal/models"
)

func TestValidateName(t *testing.T) {
	require.NoError(t, ValidateName("My App"))
	require.NoError(t, ValidateName(strings.Repeat("a", 30)))
	require.ErrorIs(t, ValidateName(strings.Repeat("a", 31)), models.ErrNameTooLong)
	require.ErrorIs(t, ValidateName(""), models.ErrNameTooLong)

	// The limit is bytes, not runes.
	require.ErrorIs(t, ValidateName(strings.Repeat("ä", 16)), models.ErrNameTooLong)
}

func TestValidateUri(t *testing.T) {
	require.NoError(t, ValidateUri("https://example.com/meta.json"))
	require.ErrorIs(t, ValidateUri(""), models.ErrUriExceedsMaxLength)
	require.ErrorIs(t, ValidateUri("https://x/"+strings.Repeat("a", 200)), models.ErrUriExceedsMaxLength)
}

func TestValidateCreators(t *testing.T) {
	require.NoError(t, ValidateCreators("alice", []models.Creator{
		{Address: "alice", Share: 60},
		{Address: "bob", Share: 40},
	}))

	require.Error(t, ValidateCreators("alice", nil), "empty list")

	require.Error(t, ValidateCreators("alice", []models.Creator{
		{Address: "alice", Share: 50},
	}), "shares must sum to 100")

	require.Error(t, ValidateCreators("alice", []models.Creator{
		{Address: "bob", Share: 100},
	}), "publisher must be listed")

	require.Error(t, ValidateCreators("alice", []models.Creator{
		{Address: "alice", Share: 50},
		{Address: "alice", Share: 50},
	}), "duplicate creator addresses")
}
