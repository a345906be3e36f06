package importer

import (
	"fmt"

	"github.com/stefanorainone/sales-management/internal/domain"
)

// ValidateSeed checks the seed for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateSeed(seed *SeedFile) []error {
	var errs []error

	userIDs := make(map[string]bool)
	for i, u := range seed.Users {
		prefix := fmt.Sprintf("users[%d]", i)
		if u.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if userIDs[u.ID] {
			errs = append(errs, fmt.Errorf("%s.id %q is duplicated", prefix, u.ID))
		}
		userIDs[u.ID] = true
		if u.Email == "" {
			errs = append(errs, fmt.Errorf("%s.email is required", prefix))
		}
		if !domain.ValidRoles[u.Role] {
			errs = append(errs, fmt.Errorf("%s.role: invalid value %q", prefix, u.Role))
		}
	}

	clientRefs := make(map[string]bool)
	for i, c := range seed.Clients {
		prefix := fmt.Sprintf("clients[%d]", i)
		errs = append(errs, validateOwner(prefix, c.UserID)...)
		errs = append(errs, validateRef(prefix, c.Ref, clientRefs)...)
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if !domain.ValidEntityTypes[c.EntityType] {
			errs = append(errs, fmt.Errorf("%s.entityType: invalid value %q", prefix, c.EntityType))
		}
		if c.Status != "" && !domain.ValidClientStatuses[c.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, c.Status))
		}
	}

	dealRefs := make(map[string]bool)
	for i, d := range seed.Deals {
		prefix := fmt.Sprintf("deals[%d]", i)
		errs = append(errs, validateOwner(prefix, d.UserID)...)
		errs = append(errs, validateRef(prefix, d.Ref, dealRefs)...)
		if d.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if d.Stage != "" && !domain.ValidDealStages[d.Stage] {
			errs = append(errs, fmt.Errorf("%s.stage: invalid value %q", prefix, d.Stage))
		}
		if d.EntityType != "" && !domain.ValidEntityTypes[d.EntityType] {
			errs = append(errs, fmt.Errorf("%s.entityType: invalid value %q", prefix, d.EntityType))
		}
		if d.Value < 0 {
			errs = append(errs, fmt.Errorf("%s.value must not be negative", prefix))
		}
		if d.Probability < 0 || d.Probability > 100 {
			errs = append(errs, fmt.Errorf("%s.probability must be between 0 and 100", prefix))
		}
		if d.ClientRef != "" && !clientRefs[d.ClientRef] {
			errs = append(errs, fmt.Errorf("%s.clientRef %q not found", prefix, d.ClientRef))
		}
	}

	for i, r := range seed.Relationships {
		prefix := fmt.Sprintf("relationships[%d]", i)
		errs = append(errs, validateOwner(prefix, r.UserID)...)
		if r.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
	}

	for i, a := range seed.Activities {
		prefix := fmt.Sprintf("activities[%d]", i)
		errs = append(errs, validateOwner(prefix, a.UserID)...)
		if a.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if a.ClientRef != "" && !clientRefs[a.ClientRef] {
			errs = append(errs, fmt.Errorf("%s.clientRef %q not found", prefix, a.ClientRef))
		}
		if a.DealRef != "" && !dealRefs[a.DealRef] {
			errs = append(errs, fmt.Errorf("%s.dealRef %q not found", prefix, a.DealRef))
		}
	}

	for i, in := range seed.Instructions {
		prefix := fmt.Sprintf("instructions[%d]", i)
		errs = append(errs, validateOwner(prefix, in.UserID)...)
		if in.Instructions == "" {
			errs = append(errs, fmt.Errorf("%s.instructions is required", prefix))
		}
		if in.Priority != "" && !domain.ValidLevels[in.Priority] {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, in.Priority))
		}
	}

	return errs
}

func validateOwner(prefix, userID string) []error {
	if userID == "" {
		return []error{fmt.Errorf("%s.userId is required", prefix)}
	}
	return nil
}

func validateRef(prefix, ref string, seen map[string]bool) []error {
	if ref == "" {
		return nil
	}
	if seen[ref] {
		return []error{fmt.Errorf("%s.ref %q is duplicated", prefix, ref)}
	}
	seen[ref] = true
	return nil
}
