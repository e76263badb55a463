// Package auth holds the single authorization policy evaluated before every
// operation on a tenant-owned entity. Handlers never branch on roles
// themselves; they ask this package and treat anything but nil as a denial.
package auth

import (
	"cms-service/internal/model"
	"cms-service/pkg/apperror"
)

// Principal is the decoded identity of the caller, taken from validated
// session claims.
type Principal struct {
	UserID         uint
	OrganizationID uint
	Email          string
	Role           string
}

// Action classifies an operation for policy purposes.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
)

// Authorize decides whether the principal may perform action against the
// target organization. Absence of an explicit allow is a deny.
func Authorize(p Principal, action Action, targetOrgID uint) error {
	// Owners are cross-tenant superusers.
	if p.Role == model.RoleOwner {
		return nil
	}

	if p.OrganizationID != targetOrgID {
		return apperror.Forbidden("you don't have access to this organization")
	}

	switch action {
	case ActionRead:
		return nil
	case ActionWrite:
		if p.Role == model.RoleEditor {
			return nil
		}
		return apperror.Forbidden("your role does not permit this operation")
	}

	return apperror.Forbidden("operation not permitted")
}

// AuthorizeUserCreate applies the user-creation edge case: editors may only
// create users inside their own organization, owners anywhere, viewers never.
func AuthorizeUserCreate(p Principal, targetOrgID uint) error {
	if p.Role == model.RoleOwner {
		return nil
	}
	if p.Role == model.RoleEditor && p.OrganizationID == targetOrgID {
		return nil
	}
	if p.Role == model.RoleEditor {
		return apperror.Forbidden("you can only create users in your own organization")
	}
	return apperror.Forbidden("your role does not permit this operation")
}

// AuthorizeUserDelete denies self-deletion for every role, then falls back
// to the write policy.
func AuthorizeUserDelete(p Principal, targetUserID, targetOrgID uint) error {
	if p.UserID == targetUserID {
		return apperror.Forbidden("you cannot delete your own account")
	}
	return Authorize(p, ActionWrite, targetOrgID)
}

// ResolveOrgScope picks the organization a request operates on. Owners may
// address any organization explicitly; everyone else is pinned to their own,
// and an explicit mismatch is reported rather than silently overridden.
func ResolveOrgScope(p Principal, requested uint) (uint, error) {
	if requested == 0 || requested == p.OrganizationID {
		return p.OrganizationID, nil
	}
	if p.Role == model.RoleOwner {
		return requested, nil
	}
	return 0, apperror.Forbidden("you don't have access to this organization")
}
