package gate

import "strings"

// Permission grants one action on one resource, written "resource:action".
// Either half may be the wildcard "*", so "sale:*" covers every sale action
// and "*:view" covers viewing anything.
type Permission string

const (
	WildcardAll                     = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// NewPermission joins a resource type and action.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Resource is the part before the colon, or "" for a malformed permission.
func (p Permission) Resource() string {
	res, _, _ := p.split()
	return res
}

// Action is the part after the colon, or "" for a malformed permission.
func (p Permission) Action() Action {
	_, act, _ := p.split()
	return Action(act)
}

func (p Permission) split() (resource, action string, ok bool) {
	resource, action, ok = strings.Cut(string(p), ":")
	if !ok || resource == "" || action == "" {
		return "", "", false
	}
	return resource, action, true
}

// Matches reports whether p grants requested. Malformed grants match nothing
// but their own exact text.
func (p Permission) Matches(requested Permission) bool {
	if p == requested {
		return true
	}
	res, act, ok := p.split()
	reqRes, reqAct, reqOK := requested.split()
	if !ok || !reqOK {
		return false
	}
	return covers(res, reqRes) && covers(act, reqAct)
}

func covers(granted, requested string) bool {
	return granted == WildcardAll || granted == requested
}
