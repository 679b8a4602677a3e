/*
Package catalog holds the static city dataset that every suggestion is drawn from.

A Catalog is built once, never mutated, and is safe for concurrent readers.
Lookups go through a Patricia trie keyed by the lowercased city name, so a
prefix query only walks the matching subtree instead of the whole dataset.

	cat, err := catalog.Default()
	cities := cat.Prefix("lon", 7)
	top := cat.Popular()

Results always come back in dataset order, which keeps the suggestion list
stable between keystrokes.
*/
package catalog

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// PopularLimit is the number of cities returned by Popular.
const PopularLimit = 7

// ErrEmptyCatalog is returned when a dataset has no usable records.
var ErrEmptyCatalog = errors.New("catalog: no city records")

// CityRecord is one row of the dataset. Population is an integer encoded as a string.
type CityRecord struct {
	City       string `json:"city"`
	Country    string `json:"country"`
	Population string `json:"population"`
}

// City is the projection shown in suggestion lists.
type City struct {
	City    string `json:"city" msgpack:"city"`
	Country string `json:"country" msgpack:"country"`
}

// Project drops the population field.
func (r CityRecord) Project() City {
	return City{City: r.City, Country: r.Country}
}

// Catalog is an immutable, indexed list of city records.
type Catalog struct {
	records     []CityRecord
	populations []int64
	index       *patricia.Trie
	popular     func() []City
}

// New builds a Catalog from records. The slice is copied.
func New(records []CityRecord) (*Catalog, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		records:     make([]CityRecord, len(records)),
		populations: make([]int64, len(records)),
		index:       patricia.NewTrie(),
	}
	copy(c.records, records)

	for i, r := range c.records {
		pop, err := strconv.ParseInt(strings.TrimSpace(r.Population), 10, 64)
		if err != nil {
			log.Warnf("Bad population %q for %s, %s: treating as 0", r.Population, r.City, r.Country)
			pop = 0
		}
		c.populations[i] = pop
		if r.City == "" {
			continue
		}

		// city names are not unique, so each key holds every position sharing it
		key := patricia.Prefix(strings.ToLower(r.City))
		if item := c.index.Get(key); item != nil {
			c.index.Set(key, append(item.([]int), i))
		} else {
			c.index.Insert(key, []int{i})
		}
	}

	c.popular = sync.OnceValue(c.computePopular)
	log.Debugf("Catalog built with %d cities", len(c.records))
	return c, nil
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns a copy of the dataset in load order.
func (c *Catalog) Records() []CityRecord {
	out := make([]CityRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Population returns the parsed population of the record at position i.
func (c *Catalog) Population(i int) int64 {
	if i < 0 || i >= len(c.populations) {
		return 0
	}
	return c.populations[i]
}

// Prefix returns up to limit cities whose name starts with text, ignoring case.
// Matches keep dataset order. An empty text or a non-positive limit yields nil.
func (c *Catalog) Prefix(text string, limit int) []City {
	if text == "" || limit <= 0 {
		return nil
	}

	var positions []int
	err := c.index.VisitSubtree(patricia.Prefix(strings.ToLower(text)), func(_ patricia.Prefix, item patricia.Item) error {
		positions = append(positions, item.([]int)...)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting catalog subtree: %v", err)
		return nil
	}
	if len(positions) == 0 {
		return nil
	}

	sort.Ints(positions)
	if len(positions) > limit {
		positions = positions[:limit]
	}

	out := make([]City, len(positions))
	for i, pos := range positions {
		out[i] = c.records[pos].Project()
	}
	return out
}

// Popular returns the most populous cities, largest first. It is computed on
// first use and the result is shared; callers get their own copy.
func (c *Catalog) Popular() []City {
	top := c.popular()
	out := make([]City, len(top))
	copy(out, top)
	return out
}

func (c *Catalog) computePopular() []City {
	order := make([]int, len(c.records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return c.populations[order[a]] > c.populations[order[b]]
	})
	if len(order) > PopularLimit {
		order = order[:PopularLimit]
	}

	top := make([]City, len(order))
	for i, pos := range order {
		top[i] = c.records[pos].Project()
	}
	log.Debugf("Computed %d popular cities", len(top))
	return top
}
