package importer

import (
	"time"

	"github.com/google/uuid"
	"github.com/stefanorainone/sales-management/internal/domain"
)

// Pipeline holds converted records ready for persistence.
type Pipeline struct {
	Users         []*domain.User
	Clients       []*domain.Client
	Deals         []*domain.Deal
	Relationships []*domain.Relationship
	Activities    []*domain.Activity
	Instructions  []*domain.AICustomInstructions
}

// Convert resolves refs, assigns missing ids and fills defaults.
// Call ValidateSeed first; Convert assumes the seed is valid.
func Convert(seed *SeedFile, now time.Time) *Pipeline {
	p := &Pipeline{}
	stamp := domain.NewTimestamp(now)

	for _, u := range seed.Users {
		u := u
		if u.CreatedAt.IsZero() {
			u.CreatedAt = stamp
		}
		p.Users = append(p.Users, &u)
	}

	clientIDs := make(map[string]string) // ref -> id
	for _, ci := range seed.Clients {
		c := ci.Client
		c.ID = idOr(c.ID)
		if ci.Ref != "" {
			clientIDs[ci.Ref] = c.ID
		}
		if c.Status == "" {
			c.Status = domain.ClientProspect
		}
		fillStamps(&c.CreatedAt, &c.UpdatedAt, stamp)
		p.Clients = append(p.Clients, &c)
	}

	dealIDs := make(map[string]string)
	for _, di := range seed.Deals {
		d := di.Deal
		d.ID = idOr(d.ID)
		if di.Ref != "" {
			dealIDs[di.Ref] = d.ID
		}
		if di.ClientRef != "" {
			d.ClientID = clientIDs[di.ClientRef]
		}
		if d.Stage == "" {
			d.Stage = domain.StageLead
		}
		fillStamps(&d.CreatedAt, &d.UpdatedAt, stamp)
		p.Deals = append(p.Deals, &d)
	}

	for _, r := range seed.Relationships {
		r := r
		r.ID = idOr(r.ID)
		fillStamps(&r.CreatedAt, &r.UpdatedAt, stamp)
		p.Relationships = append(p.Relationships, &r)
	}

	for _, ai := range seed.Activities {
		a := ai.Activity
		a.ID = idOr(a.ID)
		if ai.ClientRef != "" {
			a.ClientID = clientIDs[ai.ClientRef]
		}
		if ai.DealRef != "" {
			a.DealID = dealIDs[ai.DealRef]
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = stamp
		}
		p.Activities = append(p.Activities, &a)
	}

	for _, ii := range seed.Instructions {
		in := ii.AICustomInstructions
		in.ID = idOr(in.ID)
		in.Active = ii.Active == nil || *ii.Active
		if in.Priority == "" {
			in.Priority = domain.LevelMedium
		}
		fillStamps(&in.CreatedAt, &in.UpdatedAt, stamp)
		p.Instructions = append(p.Instructions, &in)
	}

	return p
}

func idOr(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// fillStamps defaults CreatedAt to now and UpdatedAt to CreatedAt.
func fillStamps(created, updated *domain.Timestamp, now domain.Timestamp) {
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = *created
	}
}
