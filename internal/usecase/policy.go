package usecase

import (
	"yamdb/internal/data/entity"

	"github.com/google/uuid"
)

// Actor is the caller of an operation. The zero value is anonymous.
type Actor struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

func Anonymous() Actor {
	return Actor{}
}

func (a Actor) Authenticated() bool {
	return a.UserID != uuid.Nil && a.Role.Valid()
}

type Resource string

const (
	ResourceTitle    Resource = "title"
	ResourceGenre    Resource = "genre"
	ResourceCategory Resource = "category"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
	ResourceUser     Resource = "user"    // admin user management
	ResourceProfile  Resource = "profile" // the caller's own account
)

type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

func (a Action) readOnly() bool {
	return a == ActionList || a == ActionRetrieve
}

type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
	DenyMethod
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyForbidden:
		return "deny_forbidden"
	case DenyMethod:
		return "deny_method"
	}
	return "unknown"
}

// supportedActions lists what each resource exposes. Anything else is DenyMethod.
var supportedActions = map[Resource]map[Action]bool{
	ResourceTitle:    {ActionList: true, ActionRetrieve: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true},
	ResourceGenre:    {ActionList: true, ActionCreate: true, ActionDelete: true},
	ResourceCategory: {ActionList: true, ActionCreate: true, ActionDelete: true},
	ResourceReview:   {ActionList: true, ActionRetrieve: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true},
	ResourceComment:  {ActionList: true, ActionRetrieve: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true},
	ResourceUser:     {ActionList: true, ActionRetrieve: true, ActionCreate: true, ActionUpdate: true, ActionDelete: true},
	ResourceProfile:  {ActionRetrieve: true, ActionUpdate: true},
}

// Authorize decides whether actor may perform action on resource.
// isOwner is only consulted for reviews and comments.
func Authorize(actor Actor, resource Resource, action Action, isOwner bool) Decision {
	if !supportedActions[resource][action] {
		return DenyMethod
	}

	switch resource {
	case ResourceTitle, ResourceGenre, ResourceCategory:
		if action.readOnly() {
			return Allow
		}
		return requireAdmin(actor)

	case ResourceReview, ResourceComment:
		if action.readOnly() {
			return Allow
		}
		if !actor.Authenticated() {
			return DenyUnauthenticated
		}
		if action == ActionCreate || isOwner {
			return Allow
		}
		if actor.Role == entity.RoleModerator || actor.Role == entity.RoleAdmin {
			return Allow
		}
		return DenyForbidden

	case ResourceUser:
		return requireAdmin(actor)

	case ResourceProfile:
		if !actor.Authenticated() {
			return DenyUnauthenticated
		}
		return Allow
	}

	return DenyForbidden
}

func requireAdmin(actor Actor) Decision {
	if !actor.Authenticated() {
		return DenyUnauthenticated
	}
	if actor.Role != entity.RoleAdmin {
		return DenyForbidden
	}
	return Allow
}

// DecisionError converts a deny decision into a domain error; Allow yields nil.
func DecisionError(d Decision) error {
	switch d {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return &Error{Kind: KindUnauthenticated, Message: "Authentication credentials were not provided"}
	case DenyMethod:
		return &Error{Kind: KindMethodNotAllowed, Message: "Method not allowed"}
	default:
		return &Error{Kind: KindForbidden, Message: "You do not have permission to perform this action"}
	}
}

func authorize(actor Actor, resource Resource, action Action, isOwner bool) error {
	return DecisionError(Authorize(actor, resource, action, isOwner))
}

// precheck runs the policy before an object lookup. Only denials that cannot
// be reversed by ownership are reported here.
func precheck(actor Actor, resource Resource, action Action) error {
	switch d := Authorize(actor, resource, action, false); d {
	case DenyUnauthenticated, DenyMethod:
		return DecisionError(d)
	}
	return nil
}
