package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/validately/startup-validator-backend/internal/apierr"
	"github.com/validately/startup-validator-backend/internal/logger"
	"github.com/validately/startup-validator-backend/internal/normalization"
	"github.com/validately/startup-validator-backend/internal/repos"
	"github.com/validately/startup-validator-backend/internal/requestdata"
	"github.com/validately/startup-validator-backend/internal/types"
	"github.com/validately/startup-validator-backend/internal/utils"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) (*types.User, string, error)
	LoginUser(ctx context.Context, email, password string) (*types.User, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) (*types.User, string, error) {
	utils.NormalizeUserFields(user)
	if vErr := utils.ValidateRegistrationInput(user); vErr != nil {
		return nil, "", vErr
	}
	emailExists, eErr := as.userRepo.EmailExists(ctx, nil, user.Email)
	if eErr != nil {
		return nil, "", apierr.Persistence(fmt.Errorf("failed to check user email: %w", eErr))
	}
	if emailExists {
		return nil, "", apierr.DuplicateEmail(fmt.Errorf("email is already in use"))
	}
	if hErr := utils.HashPassword(user); hErr != nil {
		return nil, "", apierr.Persistence(hErr)
	}

	var accessToken string
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user.ID = uuid.New()
		if _, ucErr := as.userRepo.Create(ctx, tx, []*types.User{user}); ucErr != nil {
			return apierr.Persistence(fmt.Errorf("failed to create user: %w", ucErr))
		}
		tok, genErr := as.issueToken(ctx, tx, user)
		if genErr != nil {
			return genErr
		}
		accessToken = tok
		return nil
	}); err != nil {
		return nil, "", err
	}
	return user, accessToken, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (*types.User, string, error) {
	email = normalization.ParseInputString(email)
	if vErr := utils.ValidateLoginInput(email, password); vErr != nil {
		return nil, "", vErr
	}

	users, usErr := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if usErr != nil {
		return nil, "", apierr.Persistence(fmt.Errorf("error retrieving user by email: %w", usErr))
	}
	if len(users) == 0 {
		return nil, "", apierr.NotFound(fmt.Errorf("user not found"))
	}

	user := users[0]
	if hErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); hErr != nil {
		return nil, "", apierr.InvalidCredentials(fmt.Errorf("invalid credentials"))
	}

	var accessToken string
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dErr := as.userTokenRepo.DeleteExpiredByUserIDs(ctx, tx, []uuid.UUID{user.ID}); dErr != nil {
			return apierr.Persistence(fmt.Errorf("failed to prune expired tokens: %w", dErr))
		}
		tok, genErr := as.issueToken(ctx, tx, user)
		if genErr != nil {
			return genErr
		}
		accessToken = tok
		return nil
	}); err != nil {
		return nil, "", err
	}
	return user, accessToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return apierr.Unauthorized(fmt.Errorf("no request data found in context"))
	}
	if rd.TokenString == "" {
		return apierr.Unauthorized(fmt.Errorf("token string in request data empty"))
	}
	if dErr := as.userTokenRepo.DeleteByAccessTokens(ctx, nil, []string{rd.TokenString}); dErr != nil {
		return apierr.Persistence(fmt.Errorf("error deleting user token: %w", dErr))
	}
	return nil
}

// issueToken signs a JWT bound to the user id and records it in user_token.
// The row doubles as the revocation record: logout deletes it.
func (as *authService) issueToken(ctx context.Context, tx *gorm.DB, user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	userToken := types.UserToken{
		ID:          uuid.New(),
		UserID:      user.ID,
		AccessToken: signed,
		ExpiresAt:   time.Now().Add(as.accessTTL),
	}
	if _, ctErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); ctErr != nil {
		as.log.Warn("Create user token error", "error", ctErr)
		return "", apierr.Persistence(fmt.Errorf("create user token error: %w", ctErr))
	}
	return signed, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Unauthorized(fmt.Errorf("missing token"))
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, apierr.Forbidden(fmt.Errorf("failed to parse token: %w", err))
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, apierr.Forbidden(fmt.Errorf("invalid or expired token"))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Forbidden(fmt.Errorf("invalid user id in token: %w", err))
	}
	foundTokens, ftErr := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if ftErr != nil {
		return ctx, apierr.Persistence(fmt.Errorf("failed to fetch user token: %w", ftErr))
	}
	if len(foundTokens) == 0 {
		return ctx, apierr.Forbidden(fmt.Errorf("token has been revoked"))
	}
	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
