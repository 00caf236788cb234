package usecase

import (
	"netsync-backend/internal/contact/domain"
)

// Apply folds a sighting into a contact. Per field the rule is richest-wins,
// not last-wins: a field is overwritten only when the incoming value is
// non-empty and the existing value is empty. Sources accumulate as a set.
// Returns true if the contact changed.
func Apply(contact *domain.Contact, s domain.Sighting) bool {
	changed := false

	if contact.Name == "" && s.Name != "" {
		contact.Name = s.Name
		changed = true
	}
	if contact.Headline == "" && s.Headline != "" {
		contact.Headline = s.Headline
		contact.HasHeadline = true
		changed = true
	}
	if contact.ProfileURL == "" && s.ProfileURL != "" {
		contact.ProfileURL = s.ProfileURL
		contact.HasProfileURL = true
		changed = true
	}
	if contact.ConnectionDegree == 0 && s.ConnectionDegree != 0 {
		contact.ConnectionDegree = s.ConnectionDegree
		changed = true
	}
	if s.Source != "" && !containsSource(contact.Sources, s.Source) {
		contact.Sources = append(contact.Sources, s.Source)
		changed = true
	}

	return changed
}

// Merge deduplicates sightings into one contact per provider identity.
// The result is independent of the order in which sightings arrive.
func Merge(workspaceID string, sightings []domain.Sighting) map[string]*domain.Contact {
	contacts := make(map[string]*domain.Contact)

	for _, s := range sightings {
		if !s.Usable() {
			continue
		}
		// Sightings without a provider id key on the display name so two
		// name-only sources still fold together.
		key := s.ProviderID
		if key == "" {
			key = "name:" + s.Name
		}

		contact, ok := contacts[key]
		if !ok {
			contact = &domain.Contact{
				WorkspaceID: workspaceID,
				ProviderID:  s.ProviderID,
			}
			contacts[key] = contact
		}
		Apply(contact, s)
	}

	return contacts
}

func containsSource(sources []string, source string) bool {
	for _, s := range sources {
		if s == source {
			return true
		}
	}
	return false
}
