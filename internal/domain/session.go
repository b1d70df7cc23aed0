package domain

import "github.com/golang-jwt/jwt/v5"

// Claims identifica a sessão administrativa emitida no login
type Claims struct {
	Subject string `json:"sub_name"`
	Admin   bool   `json:"admin"`
	jwt.RegisteredClaims
}
