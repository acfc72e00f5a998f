package usecase

import (
	"strings"

	"github.com/assortcheck/backend/internal/domain"
)

// ParseConceptGroups turns raw comma-separated variation lists (one string
// per concept group, exactly as typed by the analyst) into concept groups.
// Variations are trimmed and lowercased; blank variations are dropped, and a
// group left with no variations is dropped entirely. At least one usable
// group must remain: an all-blank input is a validation error, never a
// silent "everything is relevant".
func ParseConceptGroups(inputs []string) ([]domain.ConceptGroup, error) {
	groups := make([]domain.ConceptGroup, 0, len(inputs))

	for _, input := range inputs {
		var group domain.ConceptGroup
		for _, variation := range strings.Split(input, ",") {
			variation = strings.ToLower(strings.TrimSpace(variation))
			if variation == "" {
				continue
			}
			group = append(group, variation)
		}
		if len(group) == 0 {
			continue
		}
		groups = append(groups, group)
	}

	if len(groups) == 0 {
		return nil, domain.NewValidationError("at least one non-empty concept group is required")
	}

	return groups, nil
}
