package common

// Cookie names used to carry the token pair between client and server.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)
