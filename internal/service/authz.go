package service

import "pickup/internal/domain"

// Capability checks. Each entity's ownership is verified exactly once per
// call through these helpers; operations never compare profile ids inline.

// providerOn verifies the caller owns the trip as its provider.
func providerOn(trip *domain.Trip, caller *domain.Profile) error {
	if trip.ProviderID != caller.ID {
		return ErrNotAuthorized
	}
	return nil
}

// requesterOn verifies the caller owns the pickup request.
func requesterOn(req *domain.PickupRequest, caller *domain.Profile) error {
	if req.ProfileID != caller.ID {
		return ErrNotAuthorized
	}
	return nil
}

// invitationParty verifies the caller is either side of the invitation.
func invitationParty(inv *domain.Invitation, caller *domain.Profile) error {
	if inv.RequesterID != caller.ID && inv.ProviderID != caller.ID {
		return ErrNotAuthorized
	}
	return nil
}

// invitationRequester verifies the caller is the invited requester.
func invitationRequester(inv *domain.Invitation, caller *domain.Profile) error {
	if inv.RequesterID != caller.ID {
		return ErrNotAuthorized
	}
	return nil
}

// invitationProvider verifies the caller is the inviting provider.
func invitationProvider(inv *domain.Invitation, caller *domain.Profile) error {
	if inv.ProviderID != caller.ID {
		return ErrNotAuthorized
	}
	return nil
}

// adminOnly verifies the caller holds the admin role.
func adminOnly(caller *domain.Profile) error {
	if !caller.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}
