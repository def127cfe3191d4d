package models

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Location: город, в котором работает доска объявлений
type Location string

const (
	LocationAmritsar   Location = "amritsar"
	LocationJalandhar  Location = "jalandhar"
	LocationLudhiana   Location = "ludhiana"
	LocationChandigarh Location = "chandigarh"
	LocationGurugram   Location = "gurugram"
)

var Locations = []Location{
	LocationAmritsar,
	LocationJalandhar,
	LocationLudhiana,
	LocationChandigarh,
	LocationGurugram,
}

func (l Location) Valid() bool {
	for _, loc := range Locations {
		if l == loc {
			return true
		}
	}
	return false
}
