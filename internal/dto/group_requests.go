package dto

// SendGroupRequestRequest is the payload for sending a travel request to another student
type SendGroupRequestRequest struct {
	ToUserID    string `json:"to_user_id" validate:"required"`
	RequestType string `json:"request_type" validate:"required,oneof=join_group direct_request"`
	GroupID     string `json:"group_id,omitempty" validate:"required_if=RequestType join_group"`
}

// GroupRequestResponse represents a handshake in API responses
type GroupRequestResponse struct {
	ID           string `json:"id"`
	FromUserID   string `json:"from_user_id"`
	FromUserName string `json:"from_user_name"`
	ToUserID     string `json:"to_user_id"`
	ToUserName   string `json:"to_user_name"`
	RequestType  string `json:"request_type"`
	GroupID      string `json:"group_id,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

// AcceptGroupRequestResponse carries the formed group, if any
type AcceptGroupRequestResponse struct {
	Request     GroupRequestResponse `json:"request"`
	GroupFormed bool                 `json:"group_formed"`
	Group       *GroupResponse       `json:"group,omitempty"`
	Message     string               `json:"message"`
}
