package service

import (
	"slices"

	"stopshot/pkg/model"
)

// transitionPermissions lists the target statuses each staff role may move a
// reservation to. Roles absent from the table may not transition at all.
var transitionPermissions = map[model.Role][]model.ReservationStatus{
	model.RoleAdmin:      {model.StatusConfirmed, model.StatusCancelled},
	model.RoleOwner:      {model.StatusConfirmed, model.StatusCancelled},
	model.RoleBarManager: {model.StatusConfirmed, model.StatusCancelled},
	model.RoleServer:     {model.StatusCancelled},
}

func canTransitionTo(role model.Role, target model.ReservationStatus) bool {
	return slices.Contains(transitionPermissions[role], target)
}

func canTransitionAny(role model.Role) bool {
	return len(transitionPermissions[role]) > 0
}

// allowedTransitions is the reservation lifecycle. CANCELLED is terminal and
// CONFIRMED -> CONFIRMED edits a confirmed reservation in place.
var allowedTransitions = map[model.ReservationStatus][]model.ReservationStatus{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusConfirmed, model.StatusCancelled},
}

func isAllowedTransition(from, to model.ReservationStatus) bool {
	return slices.Contains(allowedTransitions[from], to)
}

// isReachable reports whether any lifecycle edge leads to status. Requests
// for unreachable targets are lifecycle errors, not permission errors.
func isReachable(status model.ReservationStatus) bool {
	for _, targets := range allowedTransitions {
		if slices.Contains(targets, status) {
			return true
		}
	}
	return false
}

// staffRoles may list every reservation.
var staffRoles = []model.Role{
	model.RoleAdmin,
	model.RoleOwner,
	model.RoleBarManager,
	model.RoleHeadChef,
	model.RoleBartender,
	model.RoleServer,
}

func IsStaff(role model.Role) bool {
	return slices.Contains(staffRoles, role)
}
