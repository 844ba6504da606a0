package usecase

import (
	"time"

	"github.com/alkinoy/10x-politico-sub002/internal/core/domain"
)

// ComputePermissions derives the caller-facing permission flags for a
// statement. Both flags are always equal: true iff the caller owns the
// statement and the grace window is still open. Pure function, no storage.
func ComputePermissions(isOwner, withinGraceWindow bool) domain.Permissions {
	allowed := isOwner && withinGraceWindow
	return domain.Permissions{CanEdit: allowed, CanDelete: allowed}
}

// PermissionsFor evaluates the flags for a (statement, caller) pair at the
// given instant. Anonymous callers (nil identity) always get {false, false}.
// A statement aged exactly graceWindow is no longer mutable, and tombstoned
// statements never are.
func PermissionsFor(statement domain.Statement, identity *domain.Identity, now time.Time, graceWindow time.Duration) domain.Permissions {
	if identity == nil {
		return domain.Permissions{}
	}

	isOwner := identity.UserID == statement.AuthorID
	withinGrace := !statement.Deleted() && statement.Age(now) < graceWindow

	return ComputePermissions(isOwner, withinGrace)
}
