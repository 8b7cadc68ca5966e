package service

import (
	"context"
	"errors"

	"StudyLeaderwebserver/internal/domain"
)

type GateUsersStore interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

type FriendshipChecker interface {
	AreFriends(ctx context.Context, userA, userB int64) (bool, error)
}

// AccessGate decides whether a requester may view a target user's data.
// Every cross-user read goes through it. A requesterID of zero means the
// caller is unauthenticated.
type AccessGate struct {
	Users   GateUsersStore
	Friends FriendshipChecker
}

// Resolve loads the selected target and applies the privacy gate. A
// denied target is reported as ErrNotFound so callers cannot distinguish
// a private user from an absent one. With no selector it returns the
// requester's own record.
func (g *AccessGate) Resolve(ctx context.Context, requesterID int64, username string, userID int64) (domain.User, error) {
	var (
		target domain.User
		err    error
	)
	switch {
	case username != "":
		target, err = g.Users.GetUserByUsername(ctx, username)
	case userID != 0:
		target, err = g.Users.GetUserByID(ctx, userID)
	default:
		if requesterID == 0 {
			return domain.User{}, domain.ErrUnauthorized
		}
		return g.Users.GetUserByID(ctx, requesterID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	ok, err := g.CanView(ctx, requesterID, target)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return target, nil
}

// CanView reports whether the requester may see the target: always for
// self, always for public users, and via an accepted friendship for
// private ones.
func (g *AccessGate) CanView(ctx context.Context, requesterID int64, target domain.User) (bool, error) {
	if requesterID != 0 && requesterID == target.ID {
		return true, nil
	}
	if target.PrivacyOptIn {
		return true, nil
	}
	if requesterID == 0 {
		return false, nil
	}
	return g.Friends.AreFriends(ctx, requesterID, target.ID)
}
