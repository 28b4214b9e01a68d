package dto

// ChatMessageResponse represents a chat message
type ChatMessageResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// MemberResponse is a group member with a resolved name
type MemberResponse struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Confirmed bool   `json:"confirmed"`
}

// GroupResponse represents a travel group in API responses
type GroupResponse struct {
	ID             string           `json:"id"`
	RequestID      string           `json:"request_id"`
	Members        []MemberResponse `json:"members"`
	Route          string           `json:"route"`
	RouteLabel     string           `json:"route_label"`
	Date           string           `json:"date"`
	Time           string           `json:"time"`
	VehicleType    string           `json:"vehicle_type"`
	Status         string           `json:"status"`
	FullyConfirmed bool             `json:"fully_confirmed"`
	UnreadCount    int              `json:"unread_count"`
	CreatedAt      string           `json:"created_at"`
}

// LeaveGroupResponse reports the outcome of leaving a group
type LeaveGroupResponse struct {
	GroupID      string         `json:"group_id"`
	GroupDeleted bool           `json:"group_deleted"`
	Group        *GroupResponse `json:"group,omitempty"`
}

// MergeGroupRequest names the group to merge into
type MergeGroupRequest struct {
	TargetGroupID string `json:"target_group_id" validate:"required"`
}

// PostMessageRequest is a new chat message
type PostMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}
