package pathfinder

import (
	"github.com/jirwin/qbot/pkg/config"
	"github.com/jirwin/qbot/pkg/mcdata"
)

// Movements are the traversal rules and costs a path planner uses for one
// protocol version.
type Movements struct {
	Version  string
	Protocol int32

	CanDig              bool
	AllowParkour        bool
	AllowSprinting      bool
	AllowOneByOneTowers bool
	MaxDropDown         int

	DigCost    float64
	PlaceCost  float64
	LiquidCost float64

	BlocksCantBreak   map[string]struct{}
	BlocksToAvoid     map[string]struct{}
	ScaffoldingBlocks []string
	Carpets           map[string]struct{}
}

func set(names ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// New builds the default movements for a release.
func New(v mcdata.Version) *Movements {
	avoid := append([]string{"fire", "wither_rose", v.Cobweb}, v.Hazards...)

	return &Movements{
		Version:  v.Name,
		Protocol: v.Protocol,

		CanDig:              true,
		AllowParkour:        true,
		AllowSprinting:      true,
		AllowOneByOneTowers: true,
		MaxDropDown:         4,

		DigCost:    1,
		PlaceCost:  1,
		LiquidCost: 1,

		BlocksCantBreak:   set("chest", "wheat"),
		BlocksToAvoid:     set(avoid...),
		ScaffoldingBlocks: []string{"dirt", "cobblestone"},
		Carpets:           set(v.Carpets...),
	}
}

// ForVersion looks the release up and builds its movements with the
// configured overrides applied.
func ForVersion(name string, overrides config.PathfinderPlugin) (*Movements, error) {
	v, err := mcdata.Lookup(name)
	if err != nil {
		return nil, err
	}

	m := New(v)
	m.Apply(overrides)

	return m, nil
}

func (m *Movements) Apply(o config.PathfinderPlugin) {
	if o.CanDig != nil {
		m.CanDig = *o.CanDig
	}
	if o.AllowParkour != nil {
		m.AllowParkour = *o.AllowParkour
	}
	if o.AllowSprinting != nil {
		m.AllowSprinting = *o.AllowSprinting
	}
	if o.AllowOneByOneTowers != nil {
		m.AllowOneByOneTowers = *o.AllowOneByOneTowers
	}
	if o.MaxDropDown != nil {
		m.MaxDropDown = *o.MaxDropDown
	}
}

func (m *Movements) Avoids(block string) bool {
	_, ok := m.BlocksToAvoid[block]
	return ok
}

func (m *Movements) CanBreak(block string) bool {
	if !m.CanDig {
		return false
	}
	_, ok := m.BlocksCantBreak[block]
	return !ok
}
