package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT(t *testing.T) {
	require.NoError(t, Load("en"))
	assert.Equal(t, "en", Locale())
	assert.Equal(t, "Rotate group at (1, 2) clockwise",
		Tf("ROTATE_GROUP", "(1, 2)", T("DIRECTION_CLOCKWISE")))
	assert.Equal(t, "NOT_A_KEY", T("NOT_A_KEY"))
}

func TestT_LeavesDirectives(t *testing.T) {
	require.NoError(t, Load("en"))
	assert.Equal(t, "Select group %s", T("SELECT_GROUP"))
	assert.Equal(t, "Select group (0, 0)", Tf("SELECT_GROUP", "(0, 0)"))
}

func TestLoad_UnknownLocale(t *testing.T) {
	require.NoError(t, Load("en"))
	err := Load("xx")
	assert.ErrorIs(t, err, ErrUnknownLocale)
	assert.Equal(t, "en", Locale(), "failed load keeps the active catalogue")
}
