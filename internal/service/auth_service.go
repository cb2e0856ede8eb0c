package service

import (
	"gorm.io/gorm"

	"dbfleet/internal/dto"
	"dbfleet/internal/model"
	"dbfleet/internal/pkg/config"
	"dbfleet/internal/pkg/crypto"
	"dbfleet/internal/pkg/jwt"
	"dbfleet/internal/repository"
	"dbfleet/pkg/constants"
	"dbfleet/pkg/responses"
)

type AuthService struct {
	cfg         *config.AuthConfig
	userRepo    *repository.UserRepository
	ldapService LDAPService
}

func NewAuthService(cfg *config.AuthConfig, db *gorm.DB) *AuthService {
	return &AuthService{
		cfg:         cfg,
		userRepo:    repository.NewUserRepository(db),
		ldapService: NewLDAPService(&cfg.LDAP),
	}
}

// Login 登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var userInfo *dto.UserInfo
	var err error

	switch req.AuthType {
	case constants.AuthTypeLDAP:
		if !s.cfg.LDAP.Enabled {
			return nil, responses.New(responses.CodeAuthError, "LDAP认证未启用")
		}
		userInfo, err = s.ldapService.Authenticate(req.Username, req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.syncLDAPUser(userInfo); err != nil {
			return nil, err
		}

	case constants.AuthTypeLocal:
		if !s.cfg.Local.Enabled {
			return nil, responses.New(responses.CodeAuthError, "本地认证未启用")
		}
		userInfo, err = s.authenticateLocal(req.Username, req.Password)
		if err != nil {
			return nil, err
		}

	default:
		return nil, responses.New(responses.CodeBadRequest, "不支持的认证类型")
	}

	return s.buildLoginResponse(userInfo)
}

// RefreshToken 用RefreshToken换取新Token
func (s *AuthService) RefreshToken(refreshToken string) (*dto.LoginResponse, error) {
	claims, err := jwt.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.Type != constants.JWTTypeRefresh {
		return nil, responses.New(responses.CodeUnauthorized, "无效的RefreshToken")
	}

	return s.buildLoginResponse(&dto.UserInfo{
		Username:    claims.Username,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		AuthType:    claims.AuthType,
	})
}

func (s *AuthService) buildLoginResponse(userInfo *dto.UserInfo) (*dto.LoginResponse, error) {
	accessToken, err := jwt.GenerateAccessToken(
		userInfo.Username, userInfo.Email, userInfo.DisplayName, userInfo.AuthType)
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "生成AccessToken失败", err)
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		userInfo.Username, userInfo.Email, userInfo.DisplayName, userInfo.AuthType)
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "生成RefreshToken失败", err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.cfg.JWT.AccessTokenExpire,
		User:         userInfo,
	}, nil
}

func (s *AuthService) authenticateLocal(username, password string) (*dto.UserInfo, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, responses.Wrap(responses.CodeInternalError, "查询用户失败", err)
	}
	if user == nil {
		return nil, responses.ErrInvalidCredentials
	}
	if user.Status != constants.StatusEnabled {
		return nil, responses.ErrUserDisabled
	}
	if !crypto.CheckPassword(password, user.Password) {
		return nil, responses.ErrInvalidCredentials
	}

	_ = s.userRepo.UpdateLastLogin(user.ID)

	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	displayName := username
	if user.DisplayName != nil {
		displayName = *user.DisplayName
	}

	return &dto.UserInfo{
		Username:    user.Username,
		Email:       email,
		DisplayName: displayName,
		AuthType:    constants.AuthTypeLocal,
	}, nil
}

// syncLDAPUser LDAP用户首次登录时落库
func (s *AuthService) syncLDAPUser(userInfo *dto.UserInfo) error {
	user, err := s.userRepo.FindByUsername(userInfo.Username)
	if err != nil {
		return responses.Wrap(responses.CodeInternalError, "查询用户失败", err)
	}
	if user == nil {
		user = &model.User{
			Username:    userInfo.Username,
			Password:    "",
			Email:       &userInfo.Email,
			DisplayName: &userInfo.DisplayName,
			BaseStatus:  model.BaseStatus{Status: constants.StatusEnabled},
		}
		if err := s.userRepo.Create(user); err != nil {
			return responses.Wrap(responses.CodeInternalError, "创建LDAP用户失败", err)
		}
	}
	return s.userRepo.UpdateLastLogin(user.ID)
}
