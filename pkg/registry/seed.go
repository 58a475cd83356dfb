// pkg/registry/seed.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"activity-signup/internal/common/validation"
)

// DefaultSeed returns the built-in set of activities.
func DefaultSeed() Seed {
	return Seed{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
	}
}

// LoadSeed reads a JSON seed file and validates it against the seed schema.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates seed JSON.
func ParseSeed(data []byte) (Seed, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	result, err := validation.ValidateDocument(seedSchema, doc)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeed, strings.Join(result.GetErrorMessages(), "; "))
	}

	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	for name, a := range seed {
		if len(a.Participants) > a.MaxParticipants {
			return nil, fmt.Errorf("%w: %s: %d participants exceed capacity %d",
				ErrInvalidSeed, name, len(a.Participants), a.MaxParticipants)
		}
	}
	return seed, nil
}
