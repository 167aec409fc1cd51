package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"medical-appointment-scheduler/internal/converter"
	"medical-appointment-scheduler/internal/delivery/dto"
	"medical-appointment-scheduler/internal/delivery/http/middleware"
	"medical-appointment-scheduler/internal/domain/entity"
	"medical-appointment-scheduler/internal/domain/repository"
	"medical-appointment-scheduler/internal/service"
	"medical-appointment-scheduler/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const passwordHashCost = 12

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, req *dto.LogoutRequest) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context) (*dto.UserResponse, error)
}

type authUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	txManager          repository.TransactionManager
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	jwtService         *jwt.JWTService
	tokenStore         service.TokenStore
	auditService       service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	txManager repository.TransactionManager,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:                 db,
		log:                log,
		txManager:          txManager,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		jwtService:         jwtService,
		tokenStore:         tokenStore,
		auditService:       auditService,
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	var birthDate *time.Time
	if req.BirthDate != "" {
		d, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		birthDate = &d
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	// User and profile are inserted together through the association.
	profile := &entity.PatientProfile{
		Phone:     req.Phone,
		BirthDate: birthDate,
		User: entity.User{
			Email:    req.Email,
			Password: string(hashedPassword),
			FullName: req.FullName,
			RoleID:   entity.RoleIDPatient,
		},
	}

	err = u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.patientProfileRepo.Create(ctx, tx, profile); err != nil {
			return err
		}
		userID := profile.User.ID
		return u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionUserRegister, "user", userID.String(), map[string]interface{}{
			"email": profile.User.Email,
			"role":  entity.RolePatient,
		})
	})
	if err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to register patient: %+v", err)
		return nil, err
	}

	user := profile.User
	user.PatientProfile = profile
	u.log.Infof("Patient registered: id=%s", user.ID)
	return converter.UserToResponse(&user), nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, u.db, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if user.HasHashedPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	} else {
		if subtle.ConstantTimeCompare([]byte(user.Password), []byte(req.Password)) != 1 {
			return nil, ErrInvalidCredentials
		}
		u.upgradeLegacyPassword(ctx, user, req.Password)
	}

	if !user.Active() {
		return nil, ErrAccountInactive
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
}

// upgradeLegacyPassword replaces a plaintext password with its bcrypt hash.
// A failure is logged and retried on the next login.
func (u *authUsecase) upgradeLegacyPassword(ctx context.Context, user *entity.User, password string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		u.log.Warnf("Failed to hash legacy password for %s: %+v", user.ID, err)
		return
	}

	err = u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.UpdatePassword(ctx, tx, user.ID, string(hashed)); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, &user.ID, entity.AuditActionPasswordUpgrade, "user", user.ID.String(), "plaintext", "bcrypt")
	})
	if err != nil {
		u.log.Warnf("Failed to upgrade legacy password for %s: %+v", user.ID, err)
		return
	}

	user.Password = string(hashed)
	u.log.Infof("Upgraded legacy password for user %s", user.ID)
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string, roleID int) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, roleID)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, userID, accessTokenID, jwt.AccessToken, u.jwtService.GetAccessExpiry()); err != nil {
		return nil, err
	}
	if err := u.tokenStore.Store(ctx, userID, refreshTokenID, jwt.RefreshToken, u.jwtService.GetRefreshExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// Logout revokes the access token of the request and, when supplied, the
// caller's refresh token.
func (u *authUsecase) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	tokenID, ok := middleware.GetTokenIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	if err := u.tokenStore.Revoke(ctx, userID, tokenID, jwt.AccessToken); err != nil {
		return err
	}

	if req == nil || req.RefreshToken == "" {
		return nil
	}
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken || claims.UserID != userID {
		return ErrInvalidToken
	}
	return u.tokenStore.Revoke(ctx, userID, claims.TokenID, jwt.RefreshToken)
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, claims.UserID, claims.TokenID, jwt.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Refresh tokens are single use.
	if err := u.tokenStore.Revoke(ctx, claims.UserID, claims.TokenID, jwt.RefreshToken); err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, u.db, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Active() {
		return nil, ErrAccountInactive
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}
