package session

import (
	"fmt"

	"github.com/papapumpkin/pairplan/internal/dag"
)

// Validate checks the session for structural problems: missing ids or
// labels, duplicate ids, and answers that reference items no longer in the
// session or disagree with the pair they are stored under. It returns nil
// for a well-formed session.
func (s Session) Validate() []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(s.Items))
	for _, it := range s.Items {
		if it.ID == "" {
			errs = append(errs, ValidationError{
				Category: ValCatEmptyID,
				Err:      fmt.Errorf("%w (label %q)", ErrEmptyID, it.Label),
			})
			continue
		}
		if it.Label == "" {
			errs = append(errs, ValidationError{
				Category: ValCatEmptyLabel,
				ItemID:   it.ID,
				Err:      ErrEmptyLabel,
			})
		}
		if seen[it.ID] {
			errs = append(errs, ValidationError{
				Category: ValCatDuplicateID,
				ItemID:   it.ID,
				Err:      fmt.Errorf("%w: %q", ErrDuplicateItem, it.ID),
			})
		}
		seen[it.ID] = true
	}

	for _, k := range s.Decisions.Keys() {
		for _, id := range []string{k.Lo, k.Hi} {
			if !seen[id] {
				errs = append(errs, ValidationError{
					Category: ValCatStaleDecision,
					ItemID:   id,
					Err:      fmt.Errorf("%w: answer for %s/%s is ignored", ErrUnknownItem, k.Lo, k.Hi),
				})
			}
		}
		d := s.Decisions[k]
		if d.None {
			continue
		}
		if dag.KeyOf(d.Before, d.After) != k || d.Before == d.After {
			errs = append(errs, ValidationError{
				Category: ValCatMalformedDecision,
				Err: fmt.Errorf("answer for %s/%s says %q before %q and is ignored",
					k.Lo, k.Hi, d.Before, d.After),
			})
		}
	}
	return errs
}

// HasFatal reports whether any of errs prevents planning.
func HasFatal(errs []ValidationError) bool {
	for i := range errs {
		if errs[i].Fatal() {
			return true
		}
	}
	return false
}
