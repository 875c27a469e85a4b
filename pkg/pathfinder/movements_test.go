package pathfinder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jirwin/qbot/pkg/config"
	"github.com/jirwin/qbot/pkg/mcdata"
)

func TestForVersion_Defaults(t *testing.T) {
	m, err := ForVersion("1.17.1", config.PathfinderPlugin{})
	require.NoError(t, err)

	require.Equal(t, "1.17.1", m.Version)
	require.Equal(t, int32(756), m.Protocol)
	require.True(t, m.CanDig)
	require.True(t, m.AllowParkour)
	require.Equal(t, 4, m.MaxDropDown)
	require.True(t, m.Avoids("cobweb"))
	require.True(t, m.Avoids("powder_snow"))
	require.False(t, m.Avoids("web"))
	require.True(t, m.CanBreak("stone"))
	require.False(t, m.CanBreak("chest"))
	require.Equal(t, []string{"dirt", "cobblestone"}, m.ScaffoldingBlocks)
}

func TestForVersion_LegacyNames(t *testing.T) {
	m, err := ForVersion("1.12.2", config.PathfinderPlugin{})
	require.NoError(t, err)

	require.True(t, m.Avoids("web"))
	require.False(t, m.Avoids("cobweb"))
	require.False(t, m.Avoids("powder_snow"))
	require.Contains(t, m.Carpets, "carpet")
}

func TestForVersion_Overrides(t *testing.T) {
	no := false
	drop := 1
	m, err := ForVersion("1.16.5", config.PathfinderPlugin{CanDig: &no, MaxDropDown: &drop})
	require.NoError(t, err)

	require.False(t, m.CanDig)
	require.False(t, m.CanBreak("stone"))
	require.Equal(t, 1, m.MaxDropDown)
	require.True(t, m.AllowSprinting)
}

func TestForVersion_Unknown(t *testing.T) {
	_, err := ForVersion("2.0", config.PathfinderPlugin{})
	require.ErrorIs(t, err, mcdata.ErrUnknownVersion)
}

func TestHolder(t *testing.T) {
	h := NewHolder()
	require.Nil(t, h.Movements())

	v, err := mcdata.Lookup("1.17.1")
	require.NoError(t, err)
	m := New(v)

	h.SetMovements(m)
	require.Same(t, m, h.Movements())
	require.Equal(t, int64(1), h.Updates())
}
