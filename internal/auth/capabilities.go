package auth

import "maverick/dispatch/internal/constants"

// Capability is a single permission checked at the authorization boundary.
type Capability int

const (
	CapTransitionAnySortie Capability = iota
	CapTransitionAssignedSortie
	CapReadAnySortie
	CapReadAssignedSortie
	CapReadOwnStudentSortie
	CapAnnotateAnySortie
	CapAnnotateAssignedSortie
	CapScheduleSortie
	CapIngestTenantCapture
	CapIngestGlobalCapture
)

func (c Capability) String() string {
	switch c {
	case CapTransitionAnySortie:
		return "transition_any_sortie"
	case CapTransitionAssignedSortie:
		return "transition_assigned_sortie"
	case CapReadAnySortie:
		return "read_any_sortie"
	case CapReadAssignedSortie:
		return "read_assigned_sortie"
	case CapReadOwnStudentSortie:
		return "read_own_student_sortie"
	case CapAnnotateAnySortie:
		return "annotate_any_sortie"
	case CapAnnotateAssignedSortie:
		return "annotate_assigned_sortie"
	case CapScheduleSortie:
		return "schedule_sortie"
	case CapIngestTenantCapture:
		return "ingest_tenant_capture"
	case CapIngestGlobalCapture:
		return "ingest_global_capture"
	}
	return "unknown"
}

type capabilitySet map[Capability]struct{}

func caps(list ...Capability) capabilitySet {
	set := make(capabilitySet, len(list))
	for _, c := range list {
		set[c] = struct{}{}
	}
	return set
}

var operationalCaps = []Capability{
	CapTransitionAnySortie,
	CapReadAnySortie,
	CapAnnotateAnySortie,
	CapScheduleSortie,
	CapIngestTenantCapture,
}

// roleCapabilities is read-only after package init.
var roleCapabilities = map[constants.Role]capabilitySet{
	constants.RoleSuperAdmin:        caps(append(operationalCaps, CapIngestGlobalCapture)...),
	constants.RoleTenantAdmin:       caps(operationalCaps...),
	constants.RoleOperationsManager: caps(operationalCaps...),
	constants.RoleInstructor: caps(
		CapTransitionAssignedSortie,
		CapReadAssignedSortie,
		CapAnnotateAssignedSortie,
	),
	constants.RoleStudent: caps(CapReadOwnStudentSortie),
	constants.RoleSupport: caps(CapReadAnySortie),
}

// Can reports whether role holds capability c. Unknown roles hold nothing.
func Can(role constants.Role, c Capability) bool {
	set, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	_, ok = set[c]
	return ok
}

// IsPrivileged reports whether role may act on any sortie in its tenant.
func IsPrivileged(role constants.Role) bool {
	return Can(role, CapTransitionAnySortie)
}
