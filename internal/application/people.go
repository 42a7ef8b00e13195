package application

import (
	"fmt"
	"sort"

	"github.com/example/liturgy-roster/internal/roster"
)

// CreatePerson validates the input and adds a new roster member.
func (s *RosterService) CreatePerson(input PersonInput) (roster.Person, error) {
	vErr := &ValidationError{}
	name := roster.NormalizeName(input.Name)
	if name == "" {
		vErr.add("name", "name is required")
	}
	community, err := roster.NormalizeCommunity(input.Community)
	if err != nil {
		vErr.add("community", err.Error())
	}
	roles, err := roster.NormalizeRoles(input.Roles)
	if err != nil {
		vErr.add("roles", err.Error())
	}
	if vErr.HasErrors() {
		return roster.Person{}, vErr
	}

	person := roster.Person{
		ID:        s.idGenerator(),
		Name:      name,
		Community: community,
		Roles:     roles,
		Morning:   input.Morning,
		Active:    true,
		Locale:    input.Locale,
	}
	if input.Active != nil {
		person.Active = *input.Active
	}
	if person.Locale == "" {
		person.Locale = s.cfg.General.DefaultLocale
	}

	err = s.store.Mutate("person.add", func(st *roster.State) error {
		st.People[person.ID] = person
		return nil
	})
	if err != nil {
		return roster.Person{}, err
	}
	s.logger.Info("person created", "person_id", person.ID, "community", person.Community)
	return person, nil
}

// UpdatePerson applies a partial update to an existing person.
func (s *RosterService) UpdatePerson(id string, update PersonUpdate) (roster.Person, error) {
	var updated roster.Person
	err := s.store.Mutate("person.update", func(st *roster.State) error {
		person, err := s.findPerson(st, id)
		if err != nil {
			return err
		}
		vErr := &ValidationError{}
		if update.Name != nil {
			name := roster.NormalizeName(*update.Name)
			if name == "" {
				vErr.add("name", "name cannot be empty")
			}
			person.Name = name
		}
		if update.Community != nil {
			community, err := roster.NormalizeCommunity(*update.Community)
			if err != nil {
				vErr.add("community", err.Error())
			}
			person.Community = community
		}
		if update.Roles != nil {
			roles, err := roster.NormalizeRoles(*update.Roles)
			if err != nil {
				vErr.add("roles", err.Error())
			}
			person.Roles = roles
		}
		if vErr.HasErrors() {
			return vErr
		}
		if update.Morning != nil {
			person.Morning = *update.Morning
		}
		if update.Active != nil {
			person.Active = *update.Active
		}
		if update.Locale != nil {
			person.Locale = *update.Locale
		}
		st.People[id] = person
		updated = person
		return nil
	})
	if err != nil {
		return roster.Person{}, err
	}
	return updated, nil
}

// DeletePerson removes a person and every reference to them: availability
// blocks, pool memberships, and assignments they held.
func (s *RosterService) DeletePerson(id string) error {
	err := s.store.Mutate("person.remove", func(st *roster.State) error {
		if _, err := s.findPerson(st, id); err != nil {
			return err
		}
		delete(st.People, id)
		delete(st.Availability, id)
		for eventID, slots := range st.Assignments {
			for role, personID := range slots {
				if personID == id {
					delete(slots, role)
				}
			}
			if len(slots) == 0 {
				delete(st.Assignments, eventID)
			}
		}
		for eventID, event := range st.Events {
			event.Pool = removeID(event.Pool, id)
			st.Events[eventID] = event
		}
		for seriesID, series := range st.Series {
			series.Pool = removeID(series.Pool, id)
			st.Series[seriesID] = series
		}
		for recID, rec := range st.Recurrences {
			rec.Pool = removeID(rec.Pool, id)
			st.Recurrences[recID] = rec
		}
		return nil
	})
	if err == nil {
		s.logger.Info("person removed", "person_id", id)
	}
	return err
}

// AddRoles grants additional role capabilities to a person.
func (s *RosterService) AddRoles(id string, codes []string) (roster.Person, error) {
	return s.mutateRoles("person.roles", id, func(current []string) ([]string, error) {
		added, err := roster.NormalizeRoles(codes)
		if err != nil {
			return nil, err
		}
		return roster.NormalizeRoles(append(current, added...))
	})
}

// RemoveRoles revokes role capabilities from a person.
func (s *RosterService) RemoveRoles(id string, codes []string) (roster.Person, error) {
	return s.mutateRoles("person.roles", id, func(current []string) ([]string, error) {
		dropped, err := roster.NormalizeRoles(codes)
		if err != nil {
			return nil, err
		}
		drop := make(map[string]struct{}, len(dropped))
		for _, code := range dropped {
			drop[code] = struct{}{}
		}
		kept := make([]string, 0, len(current))
		for _, code := range current {
			if _, ok := drop[code]; !ok {
				kept = append(kept, code)
			}
		}
		return kept, nil
	})
}

func (s *RosterService) mutateRoles(label, id string, fn func([]string) ([]string, error)) (roster.Person, error) {
	var updated roster.Person
	err := s.store.Mutate(label, func(st *roster.State) error {
		person, err := s.findPerson(st, id)
		if err != nil {
			return err
		}
		roles, err := fn(person.Roles)
		if err != nil {
			vErr := &ValidationError{}
			vErr.add("roles", err.Error())
			return vErr
		}
		person.Roles = roles
		st.People[id] = person
		updated = person
		return nil
	})
	if err != nil {
		return roster.Person{}, err
	}
	return updated, nil
}

// AddAvailabilityBlock registers an unavailability interval for a person.
// Start and end use the event start formats; the end must follow the start.
func (s *RosterService) AddAvailabilityBlock(personID, start, end, note string) (roster.AvailabilityBlock, error) {
	vErr := &ValidationError{}
	from, err := s.parseStart(start)
	if err != nil {
		vErr.add("start", err.Error())
	}
	until, err := s.parseStart(end)
	if err != nil {
		vErr.add("end", err.Error())
	}
	if vErr.HasErrors() {
		return roster.AvailabilityBlock{}, vErr
	}

	block := roster.AvailabilityBlock{Start: from, End: until, Note: note}
	if err := block.Validate(); err != nil {
		vErr.add("end", err.Error())
		return roster.AvailabilityBlock{}, vErr
	}
	err = s.store.Mutate("block.add", func(st *roster.State) error {
		if _, err := s.findPerson(st, personID); err != nil {
			return err
		}
		st.Availability[personID] = append(st.Availability[personID], block)
		return nil
	})
	if err != nil {
		return roster.AvailabilityBlock{}, err
	}
	return block, nil
}

// RemoveAvailabilityBlock deletes the person's block at the given index, as
// listed by GetPerson.
func (s *RosterService) RemoveAvailabilityBlock(personID string, index int) error {
	return s.store.Mutate("block.remove", func(st *roster.State) error {
		if _, err := s.findPerson(st, personID); err != nil {
			return err
		}
		blocks := st.Availability[personID]
		if index < 0 || index >= len(blocks) {
			return fmt.Errorf("%w: block %d of person %s", ErrNotFound, index, personID)
		}
		blocks = append(blocks[:index], blocks[index+1:]...)
		if len(blocks) == 0 {
			delete(st.Availability, personID)
		} else {
			st.Availability[personID] = blocks
		}
		return nil
	})
}

// ListPeople returns every person ordered by folded name, then id.
func (s *RosterService) ListPeople() []roster.Person {
	var people []roster.Person
	s.store.View(func(st *roster.State) {
		people = make([]roster.Person, 0, len(st.People))
		for _, person := range st.People {
			people = append(people, person.Clone())
		}
	})
	sort.Slice(people, func(i, j int) bool {
		if na, nb := roster.FoldName(people[i].Name), roster.FoldName(people[j].Name); na != nb {
			return na < nb
		}
		return people[i].ID < people[j].ID
	})
	return people
}

// GetPerson returns one person with their availability blocks.
func (s *RosterService) GetPerson(id string) (PersonDetail, error) {
	var detail PersonDetail
	var err error
	s.store.View(func(st *roster.State) {
		var person roster.Person
		person, err = s.findPerson(st, id)
		if err != nil {
			return
		}
		detail.Person = person.Clone()
		detail.Blocks = append([]roster.AvailabilityBlock(nil), st.Availability[id]...)
	})
	if err != nil {
		return PersonDetail{}, err
	}
	return detail, nil
}

func removeID(ids []string, id string) []string {
	kept := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			kept = append(kept, candidate)
		}
	}
	return kept
}
