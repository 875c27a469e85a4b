// Package mcdata holds the small slice of per-version Minecraft data the
// movement configuration depends on: protocol numbers and the block names
// that were renamed or introduced between releases.
package mcdata

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownVersion = errors.New("unknown minecraft version")

// Version describes a single Java edition release.
type Version struct {
	Name     string
	Protocol int32

	// Cobweb is "web" before the 1.13 flattening.
	Cobweb string
	// Path is the block shovels create from grass, renamed in 1.17.
	Path string

	Carpets []string
	// Hazards are blocks that only exist from some release on and that a
	// walking bot should stay out of.
	Hazards []string
}

var colors = []string{
	"white", "orange", "magenta", "light_blue", "yellow", "lime", "pink", "gray",
	"light_gray", "cyan", "purple", "blue", "brown", "green", "red", "black",
}

func carpets(flattened bool) []string {
	if !flattened {
		return []string{"carpet"}
	}
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		out = append(out, c+"_carpet")
	}
	return out
}

func hazards(minor int) []string {
	var out []string
	if minor >= 13 {
		out = append(out, "magma_block")
	}
	if minor >= 14 {
		out = append(out, "sweet_berry_bush")
	}
	if minor >= 16 {
		out = append(out, "soul_fire")
	}
	if minor >= 17 {
		out = append(out, "powder_snow")
	}
	return out
}

func release(name string, protocol int32, minor int) Version {
	v := Version{
		Name:     name,
		Protocol: protocol,
		Cobweb:   "cobweb",
		Path:     "grass_path",
		Carpets:  carpets(minor >= 13),
		Hazards:  hazards(minor),
	}
	if minor < 13 {
		v.Cobweb = "web"
	}
	if minor >= 17 {
		v.Path = "dirt_path"
	}
	return v
}

var versions = map[string]Version{}

func init() {
	for _, v := range []Version{
		release("1.8.9", 47, 8),
		release("1.9.4", 110, 9),
		release("1.10.2", 210, 10),
		release("1.11.2", 316, 11),
		release("1.12.2", 340, 12),
		release("1.13.2", 404, 13),
		release("1.14.4", 498, 14),
		release("1.15.2", 578, 15),
		release("1.16.5", 754, 16),
		release("1.17", 755, 17),
		release("1.17.1", 756, 17),
		release("1.18.2", 758, 18),
	} {
		versions[v.Name] = v
	}
}

// Lookup returns the data for a release name such as "1.17.1".
func Lookup(name string) (Version, error) {
	v, ok := versions[name]
	if !ok {
		return Version{}, fmt.Errorf("%w: %q", ErrUnknownVersion, name)
	}
	return v, nil
}

// ByProtocol returns the newest release speaking the given protocol number.
func ByProtocol(protocol int32) (Version, error) {
	for _, name := range Supported() {
		if v := versions[name]; v.Protocol == protocol {
			return v, nil
		}
	}
	return Version{}, fmt.Errorf("%w: protocol %d", ErrUnknownVersion, protocol)
}

// Supported lists known release names, newest protocol first.
func Supported() []string {
	names := make([]string, 0, len(versions))
	for name := range versions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return versions[names[i]].Protocol > versions[names[j]].Protocol
	})
	return names
}
