// Package authz centralizes per-operation authorization. Every check returns a
// typed Decision instead of a bare bool so handlers can surface the reason on 403.
package authz

import (
	"github.com/google/uuid"

	"tutorium_backend/internals/constants"
)

// Actor is the authenticated caller as decoded from the JWT claims.
type Actor struct {
	ID      uuid.UUID
	Role    string
	TutorID *uuid.UUID // students only
}

type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

func (a Actor) IsAdmin() bool   { return a.Role == constants.RoleAdmin }
func (a Actor) IsTutor() bool   { return a.Role == constants.RoleTutor }
func (a Actor) IsStudent() bool { return a.Role == constants.RoleStudent }

// CanAdjustPoints: admin for anyone; a tutor only for their own students.
func CanAdjustPoints(actor Actor, targetRole string, targetTutorID *uuid.UUID) Decision {
	if actor.IsAdmin() {
		return Allow()
	}
	if !actor.IsTutor() {
		return Deny("Only admin or tutor can modify points")
	}
	if targetRole != constants.RoleStudent || targetTutorID == nil || *targetTutorID != actor.ID {
		return Deny("You can only modify points for your own students")
	}
	return Allow()
}

// CanProcessRequest: admin for any request; a tutor only for requests assigned to them.
func CanProcessRequest(actor Actor, requestTutorID uuid.UUID) Decision {
	if actor.IsAdmin() {
		return Allow()
	}
	if !actor.IsTutor() {
		return Deny("Only admin or tutor can update requests")
	}
	if requestTutorID != actor.ID {
		return Deny("This request belongs to another tutor")
	}
	return Allow()
}

// CanViewRequest: admin, the assigned tutor, or the requesting student.
func CanViewRequest(actor Actor, studentID, tutorID uuid.UUID) Decision {
	if actor.IsAdmin() || actor.ID == studentID || (actor.IsTutor() && actor.ID == tutorID) {
		return Allow()
	}
	return Deny("You cannot view this request")
}

// CanManageEvent: global events are admin-only; group events belong to their creator.
func CanManageEvent(actor Actor, eventScope string, createdByID uuid.UUID) Decision {
	if actor.IsAdmin() {
		return Allow()
	}
	if eventScope == "GLOBAL" {
		return Deny("Only admin can manage global events")
	}
	if createdByID != actor.ID {
		return Deny("You can only manage your own events")
	}
	return Allow()
}

// CanViewUser: self, admin, or the student's assigned tutor.
func CanViewUser(actor Actor, targetID uuid.UUID, targetRole string, targetTutorID *uuid.UUID) Decision {
	if actor.IsAdmin() || actor.ID == targetID {
		return Allow()
	}
	if actor.IsTutor() && targetRole == constants.RoleStudent &&
		targetTutorID != nil && *targetTutorID == actor.ID {
		return Allow()
	}
	return Deny("You cannot access this user")
}

// CanManageItem: admin, or the tutor who owns the store item.
func CanManageItem(actor Actor, itemTutorID uuid.UUID) Decision {
	if actor.IsAdmin() {
		return Allow()
	}
	if actor.IsTutor() && actor.ID == itemTutorID {
		return Allow()
	}
	return Deny("You can only manage your own store items")
}
