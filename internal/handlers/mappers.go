package handlers

import (
	"context"
	"slices"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/dto"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/matching"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/services"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/utils"
)

func toUserResponse(u models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		RegistrationNumber: u.RegistrationNumber,
		Name:               u.Name,
		Username:           u.Username,
		Phone:              u.Phone,
		Gender:             string(u.Gender),
		CreatedAt:          utils.FormatTimestamp(u.CreatedAt),
		UpdatedAt:          utils.FormatTimestamp(u.UpdatedAt),
	}
}

func toTravelRequestResponse(r models.TravelRequest, userName string) dto.TravelRequestResponse {
	return dto.TravelRequestResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		UserName:         userName,
		Route:            string(r.Route),
		RouteLabel:       r.Route.Label(),
		Date:             r.Date,
		Time:             r.Time,
		VehicleType:      string(r.VehicleType),
		GroupSize:        r.GroupSize,
		GenderPreference: string(r.GenderPreference),
		Status:           string(r.Status),
		CreatedAt:        utils.FormatTimestamp(r.CreatedAt),
	}
}

func toMatchResponse(ctx context.Context, users *services.UserService, m matching.Match) dto.MatchResponse {
	return dto.MatchResponse{
		Request: toTravelRequestResponse(m.Request, users.DisplayName(ctx, m.Request.UserID)),
		Score:   m.Score,
		Reasons: m.Reasons,
	}
}

func toChatMessageResponse(m models.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		Message:   m.Message,
		Timestamp: utils.FormatTimestamp(m.Timestamp),
	}
}

// toGroupResponse resolves member names for viewerID's view of g
func toGroupResponse(ctx context.Context, svc *services.Services, g models.TravelGroup, viewerID string) dto.GroupResponse {
	members := make([]dto.MemberResponse, 0, len(g.Members))
	for _, id := range g.Members {
		members = append(members, dto.MemberResponse{
			UserID:    id,
			Name:      svc.Users.DisplayName(ctx, id),
			Confirmed: slices.Contains(g.ConfirmedMembers, id),
		})
	}
	return dto.GroupResponse{
		ID:             g.ID,
		RequestID:      g.RequestID,
		Members:        members,
		Route:          string(g.Route),
		RouteLabel:     g.Route.Label(),
		Date:           g.Date,
		Time:           g.Time,
		VehicleType:    string(g.VehicleType),
		Status:         string(g.Status),
		FullyConfirmed: g.IsFullyConfirmed(),
		UnreadCount:    svc.Groups.UnreadCount(g, viewerID),
		CreatedAt:      utils.FormatTimestamp(g.CreatedAt),
	}
}

func toGroupRequestResponse(ctx context.Context, users *services.UserService, r models.GroupRequest) dto.GroupRequestResponse {
	return dto.GroupRequestResponse{
		ID:           r.ID,
		FromUserID:   r.FromUserID,
		FromUserName: users.DisplayName(ctx, r.FromUserID),
		ToUserID:     r.ToUserID,
		ToUserName:   users.DisplayName(ctx, r.ToUserID),
		RequestType:  string(r.RequestType),
		GroupID:      r.GroupID,
		Status:       string(r.Status),
		CreatedAt:    utils.FormatTimestamp(r.CreatedAt),
	}
}
