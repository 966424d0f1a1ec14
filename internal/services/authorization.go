package services

import (
	"maverick/dispatch/internal/auth"
	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/constants"
	gormModels "maverick/dispatch/internal/models/gorm"
)

func requireClaims(claims auth.UserClaims) error {
	if claims == nil || claims.UserID() == "" || claims.TenantID() == "" {
		return common.Forbiddenf("%s", constants.MsgUnauthorized)
	}
	return nil
}

func isInstructorOfRecord(claims auth.UserClaims, sortie *gormModels.Sortie) bool {
	return sortie.InstructorID != "" && sortie.InstructorID == claims.UserID()
}

// authorizeSortieRead: privileged and support see any sortie in the tenant,
// the instructor of record sees their own, a student sees their own profile's.
func authorizeSortieRead(claims auth.UserClaims, sortie *gormModels.Sortie) error {
	role := claims.Role()
	switch {
	case auth.Can(role, auth.CapReadAnySortie):
		return nil
	case auth.Can(role, auth.CapReadAssignedSortie):
		if isInstructorOfRecord(claims, sortie) {
			return nil
		}
		return common.Forbiddenf("%s", constants.ReasonNotInstructorOfRecord)
	case auth.Can(role, auth.CapReadOwnStudentSortie):
		if claims.StudentID() != "" && sortie.StudentID == claims.StudentID() {
			return nil
		}
		return common.Forbiddenf("students may only view their own sorties")
	}
	return common.Forbiddenf(constants.ReasonRoleCannotRead, role)
}

// authorizeTransition applies the instructor table only to the instructor of record.
func authorizeTransition(claims auth.UserClaims, sortie *gormModels.Sortie, requested constants.SortieStatus) error {
	role := claims.Role()
	switch {
	case auth.Can(role, auth.CapTransitionAnySortie):
		return nil
	case auth.Can(role, auth.CapTransitionAssignedSortie):
		if !isInstructorOfRecord(claims, sortie) {
			return common.Forbiddenf("%s", constants.ReasonNotInstructorOfRecord)
		}
		if !CanInstructorTransition(sortie.Status, requested) {
			return &common.TransitionError{
				Current:   sortie.Status,
				Requested: requested,
				Allowed:   AllowedInstructorTransitions(sortie.Status),
			}
		}
		return nil
	}
	return common.Forbiddenf(constants.ReasonRoleCannotTransition, role)
}

func authorizeAnnotate(claims auth.UserClaims, sortie *gormModels.Sortie) error {
	role := claims.Role()
	switch {
	case auth.Can(role, auth.CapAnnotateAnySortie):
		return nil
	case auth.Can(role, auth.CapAnnotateAssignedSortie):
		if isInstructorOfRecord(claims, sortie) {
			return nil
		}
		return common.Forbiddenf("%s", constants.ReasonNotInstructorOfRecord)
	}
	return common.Forbiddenf(constants.ReasonRoleCannotAnnotate, role)
}
