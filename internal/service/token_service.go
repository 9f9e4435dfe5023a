package service

import (
	"crypto/rsa"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/learnchat-next/internal/config"
	"github.com/learnchat-next/internal/http/response"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims 令牌载荷，prm 携带与用户密钥对比对的随机密钥
type TokenClaims struct {
	Param string `json:"prm"`
	jwt.RegisteredClaims
}

// TokenPair 访问令牌与刷新令牌
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService 令牌签发与校验服务（RS256 非对称签名）
type TokenService struct {
	cfg        config.TokenConfig
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	now        func() time.Time
}

// NewTokenService 从 PEM 密钥文件创建令牌服务
func NewTokenService(cfg config.TokenConfig) (*TokenService, error) {
	privatePEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, err
	}
	publicPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return nil, err
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, err
	}
	return NewTokenServiceWithKeys(cfg, privateKey, publicKey), nil
}

// NewTokenServiceWithKeys 使用内存密钥创建令牌服务
func NewTokenServiceWithKeys(cfg config.TokenConfig, privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey) *TokenService {
	return &TokenService{
		cfg:        cfg,
		privateKey: privateKey,
		publicKey:  publicKey,
		now:        time.Now,
	}
}

// AccessValidity 访问令牌有效期
func (s *TokenService) AccessValidity() time.Duration {
	return time.Duration(s.cfg.AccessValiditySeconds) * time.Second
}

// RefreshValidity 刷新令牌有效期
func (s *TokenService) RefreshValidity() time.Duration {
	return time.Duration(s.cfg.RefreshValiditySeconds) * time.Second
}

// Issue 为用户签发携带指定密钥的令牌
func (s *TokenService) Issue(userID uint, param string, validity time.Duration) (string, error) {
	if s.privateKey == nil {
		return "", response.ErrInternal("Token generation failure.", nil)
	}
	issuedAt := s.now()
	claims := TokenClaims{
		Param: param,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(validity)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", response.ErrInternal("Token generation failure.", err)
	}
	return signed, nil
}

// IssuePair 签发访问/刷新令牌对，prm 分别为主密钥与副密钥
func (s *TokenService) IssuePair(userID uint, primaryKey, secondaryKey string) (*TokenPair, error) {
	accessToken, err := s.Issue(userID, primaryKey, s.AccessValidity())
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Issue(userID, secondaryKey, s.RefreshValidity())
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Decode 验证签名但忽略过期，返回载荷（刷新流程读取已过期令牌用）
func (s *TokenService) Decode(tokenString string) (*TokenClaims, error) {
	claims, err := s.parse(tokenString, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, response.ErrBadToken("")
	}
	return claims, nil
}

// Validate 完整校验令牌，过期单独上报以便客户端触发刷新
func (s *TokenService) Validate(tokenString string) (*TokenClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, response.ErrTokenExpired("")
		}
		return nil, response.ErrBadToken("")
	}
	return claims, nil
}

// ValidatePayload 校验载荷字段与签发方匹配并解析用户编号
func (s *TokenService) ValidatePayload(claims *TokenClaims) (uint, error) {
	if claims == nil ||
		claims.Issuer != s.cfg.Issuer ||
		len(claims.Audience) != 1 ||
		claims.Audience[0] != s.cfg.Audience ||
		claims.Subject == "" ||
		claims.Param == "" {
		return 0, response.ErrBadToken("Invalid Access Token")
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, response.ErrBadToken("Invalid Access Token")
	}
	return uint(userID), nil
}

func (s *TokenService) parse(tokenString string, opts ...jwt.ParserOption) (*TokenClaims, error) {
	if s.publicKey == nil {
		return nil, response.ErrInternal("Token decoding failure.", nil)
	}
	options := append([]jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	}, opts...)
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.publicKey, nil
	}, options...)
	if err != nil {
		return nil, err
	}
	parsed, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return parsed, nil
}
