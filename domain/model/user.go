package model

import "github.com/golang-jwt/jwt"

// UserClaims are the claims carried by the admin console session token.
// The issuer holds the user id.
type UserClaims struct {
	jwt.StandardClaims
	UserName string `json:"user_name"`
}
