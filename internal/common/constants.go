package common

const (
	AppClothifyApi = "clothify-api"
	AudienceUser   = "audience-user"
)
