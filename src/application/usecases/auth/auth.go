package auth

import (
	"errors"
	"time"

	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainUser "dispatch-ledger-api/src/domain/user"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/user"
	"dispatch-ledger-api/src/infrastructure/security"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type IAuthUseCase interface {
	Login(address, password string) (*domainUser.User, *AuthTokens, error)
	AccessTokenByRefreshToken(refreshToken string) (*domainUser.User, *AuthTokens, error)
}

type AuthUseCase struct {
	UserRepository user.UserRepositoryInterface
	JWTService     security.IJWTService
	Logger         *logger.Logger
}

func NewAuthUseCase(
	userRepository user.UserRepositoryInterface,
	jwtService security.IJWTService,
	loggerInstance *logger.Logger,
) IAuthUseCase {
	return &AuthUseCase{
		UserRepository: userRepository,
		JWTService:     jwtService,
		Logger:         loggerInstance,
	}
}

type AuthTokens struct {
	AccessToken               string
	RefreshToken              string
	ExpirationAccessDateTime  time.Time
	ExpirationRefreshDateTime time.Time
}

func (s *AuthUseCase) Login(address, password string) (*domainUser.User, *AuthTokens, error) {
	s.Logger.Info("User login attempt", zap.String("address", address))

	dbUser, err := s.UserRepository.GetByAddress(address)
	if err != nil {
		s.Logger.Error("Error getting user for login", zap.Error(err), zap.String("address", address))
		return nil, nil, err
	}
	if dbUser.ID == 0 {
		s.Logger.Warn("Login failed: user not found", zap.String("address", address))
		return nil, nil, domainErrors.NewAppError(errors.New("address or password does not match"), domainErrors.NotAuthenticated)
	}

	if !checkPasswordHash(password, dbUser.HashPassword) {
		s.Logger.Warn("Login failed: invalid password", zap.String("address", address))
		return nil, nil, domainErrors.NewAppError(errors.New("address or password does not match"), domainErrors.NotAuthenticated)
	}

	if !dbUser.Status {
		s.Logger.Warn("Login failed: account disabled", zap.String("address", address))
		return nil, nil, domainErrors.NewAppError(errors.New("account is disabled"), domainErrors.NotAuthorized)
	}

	accessTokenClaims, err := s.JWTService.GenerateJWTToken(dbUser, security.Access)
	if err != nil {
		s.Logger.Error("Error generating access token", zap.Error(err), zap.Int("userID", dbUser.ID))
		return nil, nil, err
	}
	refreshTokenClaims, err := s.JWTService.GenerateJWTToken(dbUser, security.Refresh)
	if err != nil {
		s.Logger.Error("Error generating refresh token", zap.Error(err), zap.Int("userID", dbUser.ID))
		return nil, nil, err
	}

	authTokens := &AuthTokens{
		AccessToken:               accessTokenClaims.Token,
		RefreshToken:              refreshTokenClaims.Token,
		ExpirationAccessDateTime:  accessTokenClaims.ExpirationTime,
		ExpirationRefreshDateTime: refreshTokenClaims.ExpirationTime,
	}

	s.Logger.Info("Login successful", zap.String("address", address), zap.Int("userID", dbUser.ID))
	return dbUser, authTokens, nil
}

func (s *AuthUseCase) AccessTokenByRefreshToken(refreshToken string) (*domainUser.User, *AuthTokens, error) {
	s.Logger.Info("Refreshing access token")
	claimsMap, err := s.JWTService.GetClaimsAndVerifyToken(refreshToken, security.Refresh)
	if err != nil {
		s.Logger.Error("Error verifying refresh token", zap.Error(err))
		return nil, nil, err
	}

	userID := int(claimsMap["id"].(float64))
	dbUser, err := s.UserRepository.GetByID(userID)
	if err != nil {
		s.Logger.Error("Error getting user for token refresh", zap.Error(err), zap.Int("userID", userID))
		return nil, nil, err
	}
	if dbUser.ID == 0 {
		return nil, nil, domainErrors.NewAppErrorWithType(domainErrors.NotAuthenticated)
	}

	accessTokenClaims, err := s.JWTService.GenerateJWTToken(dbUser, security.Access)
	if err != nil {
		s.Logger.Error("Error generating new access token", zap.Error(err), zap.Int("userID", dbUser.ID))
		return nil, nil, err
	}

	var expTime = int64(claimsMap["exp"].(float64))

	authTokens := &AuthTokens{
		AccessToken:               accessTokenClaims.Token,
		ExpirationAccessDateTime:  accessTokenClaims.ExpirationTime,
		RefreshToken:              refreshToken,
		ExpirationRefreshDateTime: time.Unix(expTime, 0),
	}

	s.Logger.Info("Access token refreshed successfully", zap.Int("userID", dbUser.ID))
	return dbUser, authTokens, nil
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
