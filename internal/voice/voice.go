// Package voice defines the voice catalog data structures.
package voice

// DefaultVoice is used when neither the config nor the flags pick one.
const DefaultVoice = "alba"

// BuiltinVoices is the catalog shipped with the daemon, used as a last
// resort when it cannot be fetched or read from cache.
var BuiltinVoices = []string{
	"alba", "marius", "javert", "jean", "fantine", "cosette", "eponine", "azelma",
}

// Catalog is the set of voices a daemon offers.
type Catalog struct {
	Voices []string `json:"voices"`
}

// Contains reports whether the catalog offers the named voice.
func (c *Catalog) Contains(name string) bool {
	for _, v := range c.Voices {
		if v == name {
			return true
		}
	}
	return false
}

// Pick returns the requested voice if the catalog offers it, otherwise the
// default voice, otherwise the first catalog entry.
func (c *Catalog) Pick(requested string) string {
	if requested != "" && c.Contains(requested) {
		return requested
	}
	if c.Contains(DefaultVoice) {
		return DefaultVoice
	}
	if len(c.Voices) > 0 {
		return c.Voices[0]
	}
	return DefaultVoice
}
