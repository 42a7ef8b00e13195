package engine

import (
	"fmt"

	"github.com/example/liturgy-roster/internal/roster"
)

// RolesFor expands an event's required headcount into its ordered role
// slots. Quantities without a configured pack fall back to generic AUX
// slots, which waive the capability filter.
func (e *Engine) RolesFor(quantity int) ([]string, error) {
	if quantity <= 0 {
		return nil, roster.ErrInvalidQuantity
	}
	if codes, ok := e.packs[quantity]; ok {
		return append([]string(nil), codes...), nil
	}
	out := make([]string, quantity)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", roster.GenericRolePrefix, i+1)
	}
	return out, nil
}

// MissingRoles returns the unfilled role slots of the event, in pack order.
func (e *Engine) MissingRoles(st *roster.State, event roster.Event) ([]string, error) {
	required, err := e.RolesFor(event.Quantity)
	if err != nil {
		return nil, err
	}
	assigned := st.Assignments[event.ID]
	missing := make([]string, 0, len(required))
	for _, role := range required {
		if _, ok := assigned[role]; !ok {
			missing = append(missing, role)
		}
	}
	return missing, nil
}
