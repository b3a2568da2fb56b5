package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	"github.com/cjodon01/autoauthadmin/domain/dto"
	"github.com/cjodon01/autoauthadmin/domain/model"
	"github.com/cjodon01/autoauthadmin/infrastructure/logger"
)

const (
	ContextUserID   = "user_id"
	ContextUserName = "user_name"
)

// Auth verifies the HS256 session token issued by the admin console and puts
// the caller's identity on the gin context.
func Auth(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res := dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"}

		authorization := ctx.Request.Header.Get("Authorization")
		token, ok := strings.CutPrefix(authorization, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" || secretKey == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		userClaims, err := getClaim(token, secretKey)
		if err != nil {
			res.ResponseMessage = reason(err)
			logger.GetLogger().WithField("error", err).Info("Rejected session token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		userID := userClaims.Issuer
		if userID == "" {
			userID = userClaims.Subject
		}
		if userID == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		ctx.Set(ContextUserID, userID)
		ctx.Set(ContextUserName, userClaims.UserName)
		ctx.Next()
	}
}

// Principal returns the identity set by Auth.
func Principal(ctx *gin.Context) model.Principal {
	return model.Principal{
		UserID:   ctx.GetString(ContextUserID),
		UserName: ctx.GetString(ContextUserName),
	}
}

func reason(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		if ve.Errors&jwt.ValidationErrorMalformed != 0 {
			return "That's not even a token"
		} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			// Token is either expired or not active yet
			return "Timing is everything"
		}
	}
	return "Unauthorized"
}

func getClaim(tokenString, secretKey string) (model.UserClaims, error) {
	var userClaims model.UserClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&userClaims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		},
	)
	if err != nil {
		return userClaims, err
	}
	if !token.Valid {
		return userClaims, errors.New("invalid token")
	}
	return userClaims, nil
}
