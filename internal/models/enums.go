package models

// Route is one of the four fixed directional legs between campus and the
// railway station or the airport.
type Route string

const (
	RouteVITToKatpadi Route = "vit-to-katpadi"
	RouteKatpadiToVIT Route = "katpadi-to-vit"
	RouteVITToChennai Route = "vit-to-chennai"
	RouteChennaiToVIT Route = "chennai-to-vit"
)

// Routes lists every route in display order
var Routes = []Route{RouteVITToKatpadi, RouteKatpadiToVIT, RouteVITToChennai, RouteChennaiToVIT}

func (r Route) Valid() bool {
	switch r {
	case RouteVITToKatpadi, RouteKatpadiToVIT, RouteVITToChennai, RouteChennaiToVIT:
		return true
	}
	return false
}

// IsAirport reports whether the leg runs to or from Chennai airport
func (r Route) IsAirport() bool {
	switch r {
	case RouteVITToChennai, RouteChennaiToVIT:
		return true
	case RouteVITToKatpadi, RouteKatpadiToVIT:
		return false
	}
	return false
}

// Label is the human readable name of the route
func (r Route) Label() string {
	switch r {
	case RouteVITToKatpadi:
		return "VIT → Katpadi Station"
	case RouteKatpadiToVIT:
		return "Katpadi Station → VIT"
	case RouteVITToChennai:
		return "VIT → Chennai Airport"
	case RouteChennaiToVIT:
		return "Chennai Airport → VIT"
	}
	return string(r)
}

type VehicleType string

const (
	VehicleAuto VehicleType = "auto"
	VehicleCab  VehicleType = "cab"
)

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleAuto, VehicleCab:
		return true
	}
	return false
}

type GenderPreference string

const (
	GenderPrefBoys  GenderPreference = "boys"
	GenderPrefGirls GenderPreference = "girls"
	GenderPrefMixed GenderPreference = "mixed"
)

func (g GenderPreference) Valid() bool {
	switch g {
	case GenderPrefBoys, GenderPrefGirls, GenderPrefMixed:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	}
	return false
}

// RequestStatus is the lifecycle state of a travel request.
//
// Only RequestActive is ever assigned. RequestMatched and RequestExpired are
// reserved: expiry removes the record instead of flagging it, and accepting a
// handshake leaves the originating requests untouched.
type RequestStatus string

const (
	RequestActive  RequestStatus = "active"
	RequestMatched RequestStatus = "matched"
	RequestExpired RequestStatus = "expired"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestActive, RequestMatched, RequestExpired:
		return true
	}
	return false
}

type GroupStatus string

const (
	GroupForming   GroupStatus = "forming"
	GroupConfirmed GroupStatus = "confirmed"
	GroupCompleted GroupStatus = "completed"
)

func (s GroupStatus) Valid() bool {
	switch s {
	case GroupForming, GroupConfirmed, GroupCompleted:
		return true
	}
	return false
}

type HandshakeStatus string

const (
	HandshakePending  HandshakeStatus = "pending"
	HandshakeAccepted HandshakeStatus = "accepted"
	HandshakeRejected HandshakeStatus = "rejected"
)

func (s HandshakeStatus) Valid() bool {
	switch s {
	case HandshakePending, HandshakeAccepted, HandshakeRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed
func (s HandshakeStatus) Terminal() bool {
	switch s {
	case HandshakeAccepted, HandshakeRejected:
		return true
	case HandshakePending:
		return false
	}
	return false
}

type RequestType string

const (
	RequestTypeJoinGroup RequestType = "join_group"
	RequestTypeDirect    RequestType = "direct_request"
)

func (t RequestType) Valid() bool {
	switch t {
	case RequestTypeJoinGroup, RequestTypeDirect:
		return true
	}
	return false
}
