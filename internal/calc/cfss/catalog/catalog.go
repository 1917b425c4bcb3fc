// Package catalog loads the stud property and web crippling coefficient
// tables. A Catalog is immutable once loaded and safe for concurrent use.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"Framecheck/internal/calc/cfss"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type cripplingEntry struct {
	Depth        float64 `yaml:"depth"`
	ThicknessMil int     `yaml:"thickness_mil"`

	cfss.CripplingCoefficients `yaml:",inline"`
}

type document struct {
	Version   string                         `yaml:"version"`
	Studs     map[string]cfss.StudProperties `yaml:"studs"`
	Crippling []cripplingEntry               `yaml:"crippling"`
}

type Catalog struct {
	version   string
	studs     map[string]cfss.StudProperties
	crippling map[cfss.CripplingKey]cfss.CripplingCoefficients
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
})

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return loadDefault()
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Catalog, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Studs) == 0 {
		return nil, fmt.Errorf("catalog has no studs")
	}

	c := &Catalog{
		version:   doc.Version,
		studs:     make(map[string]cfss.StudProperties, len(doc.Studs)),
		crippling: make(map[cfss.CripplingKey]cfss.CripplingCoefficients, len(doc.Crippling)),
	}
	for name, p := range doc.Studs {
		d, err := cfss.ParseStud(name)
		if err != nil {
			return nil, fmt.Errorf("catalog stud: %w", err)
		}
		if p.Lu <= 0 || p.MrxUL <= 0 || p.MrxDB <= 0 || p.Vrn <= 0 || p.Ixd <= 0 {
			return nil, fmt.Errorf("catalog stud %q: properties must be positive", name)
		}
		if _, dup := c.studs[d.Key]; dup {
			return nil, fmt.Errorf("catalog stud %q listed twice", name)
		}
		c.studs[d.Key] = p
	}
	for _, e := range doc.Crippling {
		key := cfss.CripplingKey{DepthIn: e.Depth, ThicknessMil: e.ThicknessMil}
		if _, dup := c.crippling[key]; dup {
			return nil, fmt.Errorf("catalog crippling entry depth %g thickness %d listed twice", e.Depth, e.ThicknessMil)
		}
		if e.HtRatio <= 0 {
			return nil, fmt.Errorf("catalog crippling entry depth %g thickness %d: ht_ratio must be positive", e.Depth, e.ThicknessMil)
		}
		c.crippling[key] = e.CripplingCoefficients
	}
	return c, nil
}

func (c *Catalog) Version() string { return c.version }

func (c *Catalog) Stud(key string) (cfss.StudProperties, bool) {
	p, ok := c.studs[key]
	return p, ok
}

func (c *Catalog) Crippling(depthIn float64, thicknessMil int) (cfss.CripplingCoefficients, bool) {
	co, ok := c.crippling[cfss.CripplingKey{DepthIn: depthIn, ThicknessMil: thicknessMil}]
	return co, ok
}

// Designations lists stud keys lightest first: single studs before doubled
// ones, then by depth and thickness.
func (c *Catalog) Designations() []string {
	type entry struct {
		key string
		d   cfss.StudDesignation
	}
	entries := make([]entry, 0, len(c.studs))
	for k := range c.studs {
		d, _ := cfss.ParseStud(k)
		entries = append(entries, entry{k, d})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].d, entries[j].d
		if a.Doubled != b.Doubled {
			return !a.Doubled
		}
		if a.DepthIn != b.DepthIn {
			return a.DepthIn < b.DepthIn
		}
		if a.ThicknessMil != b.ThicknessMil {
			return a.ThicknessMil < b.ThicknessMil
		}
		return a.Key < b.Key
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.key
	}
	return out
}
