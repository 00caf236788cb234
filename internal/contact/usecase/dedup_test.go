package usecase

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"netsync-backend/internal/contact/domain"
)

func sampleSightings() []domain.Sighting {
	return []domain.Sighting{
		{ProviderID: "p1", Name: "Ada Lovelace", Source: "attendees"},
		{ProviderID: "p1", Name: "Ada Lovelace", Headline: "Engineer", Source: "message_sender"},
		{ProviderID: "p1", ProfileURL: "https://example.com/ada", ConnectionDegree: 1, Source: "attendees"},
		{ProviderID: "p2", Name: "Grace Hopper", Source: "attendees"},
		{Name: "Anonymous Sender", Source: "message_sender"},
		{ProviderID: "self", Name: "Me", IsSelf: true, Source: "attendees"},
	}
}

func TestMergeRichestWins(t *testing.T) {
	contacts := Merge("ws1", sampleSightings())

	ada, ok := contacts["p1"]
	if !ok {
		t.Fatal("expected contact p1")
	}
	if ada.Name != "Ada Lovelace" {
		t.Errorf("expected name Ada Lovelace, got %q", ada.Name)
	}
	if ada.Headline != "Engineer" {
		t.Errorf("expected headline from second sighting, got %q", ada.Headline)
	}
	if ada.ProfileURL != "https://example.com/ada" {
		t.Errorf("expected profile url from third sighting, got %q", ada.ProfileURL)
	}
	if ada.ConnectionDegree != 1 {
		t.Errorf("expected connection degree 1, got %d", ada.ConnectionDegree)
	}

	sources := append([]string(nil), ada.Sources...)
	sort.Strings(sources)
	if !reflect.DeepEqual(sources, []string{"attendees", "message_sender"}) {
		t.Errorf("expected both sources recorded once, got %v", ada.Sources)
	}
}

func TestMergeExcludesSelf(t *testing.T) {
	contacts := Merge("ws1", sampleSightings())

	if _, ok := contacts["self"]; ok {
		t.Error("account owner must never become a contact")
	}
}

func TestMergeNameOnlySighting(t *testing.T) {
	contacts := Merge("ws1", sampleSightings())

	anon, ok := contacts["name:Anonymous Sender"]
	if !ok {
		t.Fatal("expected name-keyed contact for sighting without provider id")
	}
	if anon.ProviderID != "" {
		t.Errorf("name-only contact should carry no provider id, got %q", anon.ProviderID)
	}
}

// The merged result must not depend on the order sightings arrive in.
func TestMergeOrderIndependent(t *testing.T) {
	base := sampleSightings()
	want := normalize(Merge("ws1", base))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]domain.Sighting(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := normalize(Merge("ws1", shuffled))
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("merge result depends on sighting order:\nwant %+v\ngot  %+v", want, got)
		}
	}
}

func TestApplyNeverOverwritesRicherField(t *testing.T) {
	contact := &domain.Contact{Name: "Ada Lovelace", Headline: "Engineer"}

	changed := Apply(contact, domain.Sighting{Name: "A. Lovelace", Headline: "Other"})
	if changed {
		t.Error("apply reported a change when every field was already set")
	}
	if contact.Name != "Ada Lovelace" || contact.Headline != "Engineer" {
		t.Errorf("existing fields were overwritten: %+v", contact)
	}
}

func normalize(contacts map[string]*domain.Contact) map[string]domain.Contact {
	out := make(map[string]domain.Contact, len(contacts))
	for key, c := range contacts {
		copied := *c
		sources := append([]string(nil), copied.Sources...)
		sort.Strings(sources)
		copied.Sources = sources
		out[key] = copied
	}
	return out
}
