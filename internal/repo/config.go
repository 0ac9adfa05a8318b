package repo

import (
	"sort"
	"strings"

	"github.com/2toxic/evxx/internal/inifmt"
)

// toolchainKey is the reserved default-section key naming the compiler.
const toolchainKey = "toolchain"

// Flag is a named group of whitespace-separated compiler flag fragments.
type Flag struct {
	Key   string
	Value string
}

// Config is the repository-wide build configuration stored in the unnamed
// section of the metadata file.
type Config struct {
	// Toolchain names the compiler executable. Empty means the caller's default.
	Toolchain string
	// Flags are kept sorted by Key.
	Flags []Flag
}

// Set adds or replaces a flag group. Setting "toolchain" sets Toolchain.
func (c *Config) Set(key, value string) {
	if key == toolchainKey {
		c.Toolchain = value
		return
	}
	i := sort.Search(len(c.Flags), func(i int) bool { return c.Flags[i].Key >= key })
	if i < len(c.Flags) && c.Flags[i].Key == key {
		c.Flags[i].Value = value
		return
	}
	c.Flags = append(c.Flags, Flag{})
	copy(c.Flags[i+1:], c.Flags[i:])
	c.Flags[i] = Flag{Key: key, Value: value}
}

// Unset removes a flag group or clears Toolchain.
func (c *Config) Unset(key string) {
	if key == toolchainKey {
		c.Toolchain = ""
		return
	}
	for i, f := range c.Flags {
		if f.Key == key {
			c.Flags = append(c.Flags[:i], c.Flags[i+1:]...)
			return
		}
	}
}

// Args returns every flag group split on whitespace, in key order.
func (c *Config) Args() []string {
	var out []string
	for _, f := range c.Flags {
		out = append(out, strings.Fields(f.Value)...)
	}
	return out
}

func configFromSection(sec inifmt.Section) Config {
	var c Config
	for k, v := range sec {
		c.Set(k, v)
	}
	return c
}

func (c *Config) section() inifmt.Section {
	sec := inifmt.Section{}
	if c.Toolchain != "" {
		sec[toolchainKey] = c.Toolchain
	}
	for _, f := range c.Flags {
		sec[f.Key] = f.Value
	}
	return sec
}
