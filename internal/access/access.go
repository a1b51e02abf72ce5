// Package access resolves who may view and manage a suggestion. The resolver
// is a pure function so every call site shares one set of rules; callers are
// expected to re-resolve on each request with freshly loaded assignments.
package access

// Actor is the requesting user as seen by the resolver.
type Actor struct {
	ID          string
	IsSuperuser bool
	// AssignedCategoryIDs is the category set from the actor's
	// category-admin assignment; empty when the actor holds none.
	AssignedCategoryIDs []string
}

// Suggestion carries the two fields the resolver needs.
type Suggestion struct {
	UserID     *string
	CategoryID *string
}

// Decision is the resolved pair of permissions. CanManage implies CanView.
type Decision struct {
	CanView   bool
	CanManage bool
}

// Resolve applies the permission rules in precedence order:
//
//  1. superuser: view and manage everything
//  2. category admin over the suggestion's category: view and manage
//  3. author: view only, independent of rule 2
//  4. otherwise: nothing
//
// A suggestion with no category never satisfies rule 2. The is_anonymous
// flag is presentation-only and plays no part here.
func Resolve(actor Actor, suggestion Suggestion) Decision {
	if actor.IsSuperuser {
		return Decision{CanView: true, CanManage: true}
	}

	if suggestion.CategoryID != nil {
		for _, categoryID := range actor.AssignedCategoryIDs {
			if categoryID == *suggestion.CategoryID {
				return Decision{CanView: true, CanManage: true}
			}
		}
	}

	if suggestion.UserID != nil && actor.ID != "" && *suggestion.UserID == actor.ID {
		return Decision{CanView: true, CanManage: false}
	}

	return Decision{}
}
