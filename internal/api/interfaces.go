package api

import (
	"github.com/golang-jwt/jwt/v5"
)

type JWTServiceI interface {
	GenerateToken(deviceID, name string) (string, error)
	ParseToken(tokenString string) (*DeviceClaims, error)
}

// DeviceClaims identify a device rather than an account: the app generates
// one id per install and keeps using it for rooms and rewards.
type DeviceClaims struct {
	jwt.RegisteredClaims
	DeviceID string `json:"device_id"`
	Name     string `json:"name"`
}
