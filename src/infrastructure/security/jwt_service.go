package security

import (
	"errors"
	"strconv"
	"time"

	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainUser "dispatch-ledger-api/src/domain/user"
	"dispatch-ledger-api/src/infrastructure/utils"

	"github.com/golang-jwt/jwt/v4"
)

const (
	Access  = "access"
	Refresh = "refresh"
)

// AppToken is a signed JWT together with its expiration.
type AppToken struct {
	Token          string
	TokenType      string
	ExpirationTime time.Time
}

type IJWTService interface {
	GenerateJWTToken(user *domainUser.User, tokenType string) (*AppToken, error)
	GetClaimsAndVerifyToken(tokenString string, tokenType string) (jwt.MapClaims, error)
}

type JWTService struct {
	accessSecret     string
	refreshSecret    string
	accessTimeMinute int
	refreshTimeHour  int
}

func NewJWTService() IJWTService {
	accessMinutes, _ := strconv.Atoi(utils.GetEnv("JWT_ACCESS_TIME_MINUTE", "30"))
	refreshHours, _ := strconv.Atoi(utils.GetEnv("JWT_REFRESH_TIME_HOUR", "24"))
	return &JWTService{
		accessSecret:     utils.GetEnv("JWT_ACCESS_SECRET_KEY", ""),
		refreshSecret:    utils.GetEnv("JWT_REFRESH_SECRET_KEY", ""),
		accessTimeMinute: accessMinutes,
		refreshTimeHour:  refreshHours,
	}
}

func (s *JWTService) secretAndDuration(tokenType string) (string, time.Duration, error) {
	switch tokenType {
	case Access:
		return s.accessSecret, time.Duration(s.accessTimeMinute) * time.Minute, nil
	case Refresh:
		return s.refreshSecret, time.Duration(s.refreshTimeHour) * time.Hour, nil
	}
	return "", 0, errors.New("invalid token type")
}

func (s *JWTService) GenerateJWTToken(user *domainUser.User, tokenType string) (*AppToken, error) {
	secret, duration, err := s.secretAndDuration(tokenType)
	if err != nil {
		return nil, domainErrors.NewAppError(err, domainErrors.UnknownError)
	}
	if secret == "" {
		return nil, domainErrors.NewAppError(errors.New("JWT secret key not configured"), domainErrors.UnknownError)
	}

	expirationTime := time.Now().Add(duration)
	claims := jwt.MapClaims{
		"id":      user.ID,
		"address": user.Address,
		"role":    user.Role,
		"type":    tokenType,
		"exp":     expirationTime.Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, domainErrors.NewAppError(err, domainErrors.UnknownError)
	}

	return &AppToken{
		Token:          signed,
		TokenType:      tokenType,
		ExpirationTime: expirationTime,
	}, nil
}

func (s *JWTService) GetClaimsAndVerifyToken(tokenString string, tokenType string) (jwt.MapClaims, error) {
	secret, _, err := s.secretAndDuration(tokenType)
	if err != nil {
		return nil, domainErrors.NewAppError(err, domainErrors.NotAuthenticated)
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, domainErrors.NewAppError(err, domainErrors.NotAuthenticated)
	}

	if t, ok := claims["type"].(string); !ok || t != tokenType {
		return nil, domainErrors.NewAppError(errors.New("token type mismatch"), domainErrors.NotAuthenticated)
	}

	if exp, ok := claims["exp"].(float64); !ok || int64(exp) < jwt.TimeFunc().Unix() {
		return nil, domainErrors.NewAppError(errors.New("token expired"), domainErrors.NotAuthenticated)
	}

	return claims, nil
}
