package echoapi

import (
	"context"
	"net/url"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	jwtvalidator "github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fsnd-projects/fsnd/core"
)

const contextSubjectKey = "subject"

// TokenValidator verifies a raw bearer token and returns its *jwtvalidator.ValidatedClaims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

var _ TokenValidator = (*jwtvalidator.Validator)(nil) // interface compliance check

// Claims are the custom claims issued by the identity provider.
type Claims struct {
	Permissions []string `json:"permissions"`
}

var _ jwtvalidator.CustomClaims = (*Claims)(nil) // interface compliance check

func (c *Claims) Validate(context.Context) error {
	return nil
}

func (c *Claims) HasPermission(perm string) bool {
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// NewJWKSValidator returns a validator checking RS256 tokens against the keys published by the issuer.
// The key set is discovered through the issuer's openid-configuration and cached for conf.CacheTTL.
func NewJWKSValidator(conf core.AuthConfig) (*jwtvalidator.Validator, error) {
	issuer := conf.IssuerURL()
	issuerURL, err := url.Parse(issuer)
	if err != nil {
		return nil, errors.Wrap(err, "parsing issuer URL")
	}

	provider := jwks.NewCachingProvider(issuerURL, conf.CacheTTL)
	v, err := jwtvalidator.New(
		provider.KeyFunc,
		jwtvalidator.RS256,
		issuer,
		conf.Audience,
		jwtvalidator.WithCustomClaims(func() jwtvalidator.CustomClaims { return &Claims{} }),
		jwtvalidator.WithAllowedClockSkew(conf.ClockSkew),
	)
	return v, errors.Wrap(err, "setting up token validator")
}

// requirePermission authenticates the bearer token of the request and checks it grants perm.
// Every failure is a 401, a missing permission included.
func requirePermission(tv TokenValidator, perm string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if tv == nil {
				return errUnauthorized
			}
			token, err := jwtmiddleware.AuthHeaderTokenExtractor(ctx.Request())
			if err != nil {
				return errUnauthorized.WithInternal(err)
			}
			if token == "" {
				return errUnauthorized
			}

			validated, err := tv.ValidateToken(ctx.Request().Context(), token)
			if err != nil {
				return errUnauthorized.WithInternal(err)
			}
			claims, ok := validated.(*jwtvalidator.ValidatedClaims)
			if !ok {
				return errUnauthorized
			}
			ctx.Set(contextSubjectKey, core.Subject{ID: claims.RegisteredClaims.Subject})

			custom, ok := claims.CustomClaims.(*Claims)
			if !ok || !custom.HasPermission(perm) {
				return errUnauthorized
			}
			return next(ctx)
		}
	}
}

func contextSubject(ctx echo.Context) core.Subject {
	sub, _ := ctx.Get(contextSubjectKey).(core.Subject)
	return sub
}
