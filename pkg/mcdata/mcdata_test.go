package mcdata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	v, err := Lookup("1.12.2")
	require.NoError(t, err)
	require.Equal(t, int32(340), v.Protocol)
	require.Equal(t, "web", v.Cobweb)
	require.Equal(t, "grass_path", v.Path)
	require.Equal(t, []string{"carpet"}, v.Carpets)
	require.Empty(t, v.Hazards)

	v, err = Lookup("1.17.1")
	require.NoError(t, err)
	require.Equal(t, int32(756), v.Protocol)
	require.Equal(t, "cobweb", v.Cobweb)
	require.Equal(t, "dirt_path", v.Path)
	require.Len(t, v.Carpets, 16)
	require.Contains(t, v.Hazards, "powder_snow")
	require.Contains(t, v.Hazards, "sweet_berry_bush")
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("0.30")
	require.ErrorIs(t, err, ErrUnknownVersion)
}

func TestByProtocol(t *testing.T) {
	v, err := ByProtocol(754)
	require.NoError(t, err)
	require.Equal(t, "1.16.5", v.Name)

	_, err = ByProtocol(1)
	require.ErrorIs(t, err, ErrUnknownVersion)
}

func TestSupported_Order(t *testing.T) {
	names := Supported()
	require.Equal(t, "1.18.2", names[0])
	require.Equal(t, "1.8.9", names[len(names)-1])
}
