package domain

import "errors"

// ErrUnknownRole rejects callers whose role matches no known role.
var ErrUnknownRole = errors.New("unknown role")

// Scope narrows queries to one uploader or all records. A nil OwnerID
// means unrestricted.
type Scope struct {
	OwnerID *int64
}

func OwnScope(userID int64) Scope {
	return Scope{OwnerID: &userID}
}

func AllScope() Scope {
	return Scope{}
}

func (s Scope) All() bool {
	return s.OwnerID == nil
}

// AccessPolicy is the role-based authorization gate. It holds no state
// beyond its configuration and is consulted by every directory and
// aggregation operation.
//
// TeamLeadWritesAll controls the stage-transition write rule: when true,
// team leads may transition resumes they did not upload; when false the
// uploader alone may.
type AccessPolicy struct {
	TeamLeadWritesAll bool
}

// ReadScope resolves the record visibility for a caller: hr sees own
// uploads only, team leads see everything.
func (p AccessPolicy) ReadScope(caller Caller) (Scope, error) {
	switch caller.Role {
	case RoleHR:
		return OwnScope(caller.ID), nil
	case RoleTeamLead:
		return AllScope(), nil
	default:
		return Scope{}, ErrUnknownRole
	}
}

// WriteScope resolves which resumes a caller may transition.
func (p AccessPolicy) WriteScope(caller Caller) (Scope, error) {
	switch caller.Role {
	case RoleHR:
		return OwnScope(caller.ID), nil
	case RoleTeamLead:
		if p.TeamLeadWritesAll {
			return AllScope(), nil
		}
		return OwnScope(caller.ID), nil
	default:
		return Scope{}, ErrUnknownRole
	}
}

// CanUploadResume reports whether the role may upload resumes at all.
func (p AccessPolicy) CanUploadResume(role string) bool {
	return role == RoleHR || role == RoleTeamLead
}

// CanManageVacancies gates vacancy creation. Team leads only.
func (p AccessPolicy) CanManageVacancies(role string) bool {
	return role == RoleTeamLead
}

// CanConfigureSLA gates SLA settings writes. Team leads only.
func (p AccessPolicy) CanConfigureSLA(role string) bool {
	return role == RoleTeamLead
}
