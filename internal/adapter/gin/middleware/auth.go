package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apperrors "user-service/pkg/errors"
	"user-service/pkg/logger"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errNoSubject    = errors.New("token has no subject")
)

// TokenVerifier checks HS256 bearer tokens issued elsewhere.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenVerifier creates a verifier for tokens signed with secret.
// When issuer is not empty the iss claim must match it.
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &TokenVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
	}
}

// Verify parses the token and returns its subject.
func (v *TokenVerifier) Verify(token string) (string, error) {
	if token == "" {
		return "", errMissingToken
	}

	parsed, err := v.parser.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errNoSubject
	}
	return sub, nil
}

// Auth rejects requests without a valid bearer token with UNAUTHENTICATED.
// The token subject is stored in the request context.
func Auth(v *TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, err := v.Verify(bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			logger.WithContext(c.Request.Context(), log).Debug("authentication failed", zap.Error(err))
			_ = c.Error(apperrors.Wrap(apperrors.KindUnauthenticated, "Invalid or missing access token", err))
			c.Abort()
			return
		}

		c.Set(string(logger.UserIDKey), subject)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), subject))
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
