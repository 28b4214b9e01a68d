package dto

// CreateTravelRequestRequest is the payload for posting a travel request
type CreateTravelRequestRequest struct {
	Route            string `json:"route" validate:"required,oneof=vit-to-katpadi katpadi-to-vit vit-to-chennai chennai-to-vit"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	Time             string `json:"time" validate:"required,datetime=15:04"`
	VehicleType      string `json:"vehicle_type" validate:"required,oneof=auto cab"`
	GroupSize        int    `json:"group_size" validate:"required,min=2,max=4"`
	GenderPreference string `json:"gender_preference" validate:"required,oneof=boys girls mixed"`
}

// TravelRequestResponse represents a travel request in API responses
type TravelRequestResponse struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	UserName         string `json:"user_name,omitempty"`
	Route            string `json:"route"`
	RouteLabel       string `json:"route_label"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	VehicleType      string `json:"vehicle_type"`
	GroupSize        int    `json:"group_size"`
	GenderPreference string `json:"gender_preference"`
	Status           string `json:"status"`
	CreatedAt        string `json:"created_at"`
}

// MatchResponse is one ranked companion candidate
type MatchResponse struct {
	Request TravelRequestResponse `json:"request"`
	Score   int                   `json:"score"`
	Reasons []string              `json:"reasons"`
}

// MatchesResponse lists the best candidates for a request
type MatchesResponse struct {
	RequestID string          `json:"request_id"`
	Matches   []MatchResponse `json:"matches"`
}
