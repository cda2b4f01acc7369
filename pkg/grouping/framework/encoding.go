package framework

import (
	"fmt"
	"slices"

	"sigs.k8s.io/yaml"
)

// CommunityEncoding is the structural interchange form of a Community.
type CommunityEncoding struct {
	Groups []GroupEncoding `json:"groups"`
}

type GroupEncoding struct {
	ID           string               `json:"id"`
	FeatureCount int                  `json:"featureCount"`
	MinSize      int                  `json:"minSize"`
	MaxSize      int                  `json:"maxSize"`
	Individuals  []IndividualEncoding `json:"individuals"`
}

type IndividualEncoding struct {
	ID       string    `json:"id"`
	Features []float64 `json:"features"`
}

// Encode converts the community to its structural form.
func (c *Community) Encode() CommunityEncoding {
	enc := CommunityEncoding{Groups: make([]GroupEncoding, len(c.groups))}
	for i, g := range c.groups {
		ge := GroupEncoding{
			ID:           g.ID,
			FeatureCount: g.FeatureCount,
			MinSize:      g.MinSize,
			MaxSize:      g.MaxSize,
			Individuals:  make([]IndividualEncoding, len(g.individuals)),
		}
		for j, ind := range g.individuals {
			ge.Individuals[j] = IndividualEncoding{
				ID:       ind.ID,
				Features: slices.Clone(ind.Features),
			}
		}
		enc.Groups[i] = ge
	}
	return enc
}

// MarshalCommunity renders the community encoding as YAML.
func MarshalCommunity(c *Community) ([]byte, error) {
	return yaml.Marshal(c.Encode())
}

// Universe interns individuals by ID so that every encoding decoded through
// it resolves the same ID to the same *Individual. Identity-based operators
// such as crossover rely on this when parents cross a serialization boundary.
type Universe struct {
	byID map[string]*Individual
}

func NewUniverse(individuals ...*Individual) *Universe {
	u := &Universe{byID: make(map[string]*Individual, len(individuals))}
	for _, ind := range individuals {
		u.byID[ind.ID] = ind
	}
	return u
}

// Len is the number of interned individuals.
func (u *Universe) Len() int {
	return len(u.byID)
}

func (u *Universe) Lookup(id string) (*Individual, bool) {
	ind, ok := u.byID[id]
	return ind, ok
}

// Intern returns the individual registered under enc.ID, registering a new one
// when the ID is unknown. A known ID with different features is a conflict.
func (u *Universe) Intern(enc IndividualEncoding) (*Individual, error) {
	if ind, ok := u.byID[enc.ID]; ok {
		if !slices.Equal(ind.Features, enc.Features) {
			return nil, fmt.Errorf("%w: %q", ErrIdentityConflict, enc.ID)
		}
		return ind, nil
	}
	ind := NewIndividual(enc.ID, slices.Clone(enc.Features))
	u.byID[enc.ID] = ind
	return ind, nil
}

// Decode builds a Community from enc, resolving individuals through u.
func (u *Universe) Decode(enc CommunityEncoding) (*Community, error) {
	groups := make([]*Group, len(enc.Groups))
	for i, ge := range enc.Groups {
		g := NewGroup(ge.ID, ge.FeatureCount, ge.MinSize, ge.MaxSize)
		// a zero featureCount takes the length of the first member
		if g.FeatureCount == 0 && len(ge.Individuals) > 0 {
			g.FeatureCount = len(ge.Individuals[0].Features)
		}
		for _, ie := range ge.Individuals {
			if len(ie.Features) != g.FeatureCount {
				return nil, fmt.Errorf("%w: individual %q has %d features, group %q expects %d",
					ErrFeatureCountMismatch, ie.ID, len(ie.Features), ge.ID, g.FeatureCount)
			}
			ind, err := u.Intern(ie)
			if err != nil {
				return nil, err
			}
			if err := g.AddIndividual(ind, Override); err != nil {
				return nil, fmt.Errorf("group %q: %w", ge.ID, err)
			}
		}
		groups[i] = g
	}
	return NewCommunity(groups...), nil
}

// UnmarshalCommunity decodes a YAML or JSON community encoding through u.
func (u *Universe) UnmarshalCommunity(data []byte) (*Community, error) {
	var enc CommunityEncoding
	if err := yaml.Unmarshal(data, &enc); err != nil {
		return nil, fmt.Errorf("decoding community: %w", err)
	}
	return u.Decode(enc)
}
