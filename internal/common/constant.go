package common

// AuthHeaderName is the HTTP header carrying the bearer session token.
const AuthHeaderName = "Authorization"

// BearerPrefix precedes the session token in AuthHeaderName.
const BearerPrefix = "Bearer "
