package role

import "errors"

// Role identifies the acting role for a request.
type Role string

const (
	RM      Role = "RM"
	TAC     Role = "TAC"
	Quality Role = "Quality"
	Admin   Role = "Admin"
)

// Action is a capability gated by role.
type Action string

const (
	ActionCreate     Action = "create"
	ActionSetStatus  Action = "set status"
	ActionBindSource Action = "bind source"
	ActionExport     Action = "export"
)

var (
	// ErrUnknownRole indicates a role outside the known set.
	ErrUnknownRole = errors.New("unknown role")
	// ErrPermissionDenied indicates the acting role lacks the capability.
	ErrPermissionDenied = errors.New("permission denied")
)

// capabilities is the full role/action matrix. RM is view-only; TAC can
// mutate but not export; Quality and Admin hold every capability.
var capabilities = map[Role]map[Action]bool{
	RM: {},
	TAC: {
		ActionCreate:     true,
		ActionSetStatus:  true,
		ActionBindSource: true,
	},
	Quality: {
		ActionCreate:     true,
		ActionSetStatus:  true,
		ActionBindSource: true,
		ActionExport:     true,
	},
	Admin: {
		ActionCreate:     true,
		ActionSetStatus:  true,
		ActionBindSource: true,
		ActionExport:     true,
	},
}

// Parse validates a role string against the closed set.
func Parse(s string) (Role, error) {
	switch Role(s) {
	case RM, TAC, Quality, Admin:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Can reports whether the role holds the capability.
func Can(r Role, a Action) bool {
	return capabilities[r][a]
}

// Require returns ErrPermissionDenied unless the role holds the capability.
func Require(r Role, a Action) error {
	if !Can(r, a) {
		return ErrPermissionDenied
	}
	return nil
}
