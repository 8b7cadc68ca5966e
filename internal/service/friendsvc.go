package service

import (
	"context"
	"errors"
	"strings"

	"StudyLeaderwebserver/internal/domain"
)

type FriendshipsStore interface {
	CreateRequest(ctx context.Context, requesterID, addresseeID int64) (domain.Friend, error)
	GetByID(ctx context.Context, id int64) (domain.Friend, error)
	GetBetween(ctx context.Context, userA, userB int64) (domain.Friend, error)
	Accept(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	AreFriends(ctx context.Context, userA, userB int64) (bool, error)
	ListAccepted(ctx context.Context, userID int64) ([]domain.FriendListItem, error)
	ListIncoming(ctx context.Context, userID int64) ([]domain.FriendRequest, error)
	ListOutgoing(ctx context.Context, userID int64) ([]domain.FriendRequest, error)
	ListAcceptedFriendUsers(ctx context.Context, userID int64) ([]domain.User, error)
}

type FriendsService struct {
	Users       GateUsersStore
	Friendships FriendshipsStore
}

func (s *FriendsService) List(ctx context.Context, userID int64) ([]domain.FriendListItem, error) {
	return s.Friendships.ListAccepted(ctx, userID)
}

func (s *FriendsService) Incoming(ctx context.Context, userID int64) ([]domain.FriendRequest, error) {
	return s.Friendships.ListIncoming(ctx, userID)
}

func (s *FriendsService) Outgoing(ctx context.Context, userID int64) ([]domain.FriendRequest, error) {
	return s.Friendships.ListOutgoing(ctx, userID)
}

func (s *FriendsService) Request(ctx context.Context, requesterID int64, addresseeUsername string) (domain.Friend, error) {
	addresseeUsername = strings.TrimSpace(addresseeUsername)
	if addresseeUsername == "" {
		return domain.Friend{}, domain.NewValidationError(map[string]string{"username": "required"})
	}

	target, err := s.Users.GetUserByUsername(ctx, addresseeUsername)
	if err != nil {
		return domain.Friend{}, err
	}
	if target.ID == requesterID {
		return domain.Friend{}, domain.NewValidationError(map[string]string{"username": "cannot friend yourself"})
	}

	// One edge per unordered pair, regardless of direction or status.
	_, err = s.Friendships.GetBetween(ctx, requesterID, target.ID)
	if err == nil {
		return domain.Friend{}, domain.ErrFriendshipExists
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Friend{}, err
	}

	return s.Friendships.CreateRequest(ctx, requesterID, target.ID)
}

// Accept transitions a pending request to accepted. Only the addressee
// may accept.
func (s *FriendsService) Accept(ctx context.Context, userID, requestID int64) error {
	fr, err := s.Friendships.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if fr.AddresseeID != userID {
		return domain.ErrForbidden
	}
	if fr.Status != domain.FriendStatusPending {
		return domain.NewValidationError(map[string]string{"status": "request is not pending"})
	}
	return s.Friendships.Accept(ctx, requestID)
}

// Decline removes a pending request. Only the addressee may decline.
func (s *FriendsService) Decline(ctx context.Context, userID, requestID int64) error {
	fr, err := s.Friendships.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if fr.AddresseeID != userID {
		return domain.ErrForbidden
	}
	if fr.Status != domain.FriendStatusPending {
		return domain.NewValidationError(map[string]string{"status": "request is not pending"})
	}
	return s.Friendships.Delete(ctx, requestID)
}

// Remove deletes a friendship. Either party of the edge may remove it.
func (s *FriendsService) Remove(ctx context.Context, userID, friendshipID int64) error {
	fr, err := s.Friendships.GetByID(ctx, friendshipID)
	if err != nil {
		return err
	}
	if fr.RequesterID != userID && fr.AddresseeID != userID {
		return domain.ErrForbidden
	}
	return s.Friendships.Delete(ctx, friendshipID)
}
