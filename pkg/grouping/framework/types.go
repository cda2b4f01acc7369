package framework

import "errors"

var (
	// ErrSizeConstraint is returned by Strict mutators when a group bound would be violated.
	ErrSizeConstraint = errors.New("framework: group size constraint violated")

	// ErrIndividualNotFound is returned when an individual is not a member of the group or community.
	ErrIndividualNotFound = errors.New("framework: individual not found")

	// ErrDuplicateIndividual is returned when an individual is added to a group it already belongs to.
	ErrDuplicateIndividual = errors.New("framework: individual already in group")

	// ErrNilIndividual is returned for nil individual arguments.
	ErrNilIndividual = errors.New("framework: nil individual")

	// ErrEmptyGroup is returned when a random member is requested from an empty group.
	ErrEmptyGroup = errors.New("framework: group is empty")

	// ErrTooFewGroups is returned by relocation when the community has fewer than two groups.
	ErrTooFewGroups = errors.New("framework: relocation needs at least two groups")

	// ErrCapacityExceeded is returned when the individuals cannot be dealt into the groups' bounds.
	ErrCapacityExceeded = errors.New("framework: individuals do not fit the group bounds")

	// ErrFeatureCountMismatch is returned by decoding when a feature vector has the wrong length.
	ErrFeatureCountMismatch = errors.New("framework: feature count mismatch")

	// ErrIdentityConflict is returned when two encodings use the same individual ID for different features.
	ErrIdentityConflict = errors.New("framework: conflicting individual identity")
)

// SizePolicy tells a bound-checked Group mutator whether to enforce MinSize/MaxSize.
type SizePolicy int

const (
	// Strict rejects any change that leaves the group outside [MinSize, MaxSize].
	Strict SizePolicy = iota
	// Override skips the bound check. Used while a multi-step operation is mid-flight.
	Override
)

func (p SizePolicy) String() string {
	if p == Override {
		return "Override"
	}
	return "Strict"
}

// Problem describes the contract a specific grouping problem needs to implement.
type Problem interface {
	Name() string

	// Initialize returns popSize random partitions of the same individual universe.
	Initialize(popSize int) ([]*Community, error)
}

// Operators is the set of callbacks an evolutionary driver needs. Implementations
// must treat their inputs as read-only snapshots and return fresh communities.
type Operators interface {
	Mutate(*Community) *Community
	Crossover(a, b *Community) (*Community, *Community)
	Fitness(*Community) float64
}

// Algorithm describes the contract that a search algorithm needs to implement.
type Algorithm interface {
	Name() string
}
