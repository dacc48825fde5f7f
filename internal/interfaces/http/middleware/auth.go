package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/opinamais/opina-api/internal/application/usecases"
)

const callerLocalKey = "caller_identity"

// Claims é o conteúdo do token emitido pelo provedor de identidade
type Claims struct {
	Role       string `json:"role"`
	BusinessID string `json:"business_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		s = "opina-dev-secret"
	}
	return []byte(s)
}

// SignToken emite um token HS256 com os claims dados. Usado pelo tooling de
// desenvolvimento e pelos testes; em produção o provedor de identidade assina.
func SignToken(userID string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func parseToken(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// WithAuth anexa a identidade verificada ao contexto quando um Bearer token
// válido está presente. Tokens ausentes ou inválidos não bloqueiam a rota:
// submissões anônimas são parte do produto.
func WithAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if claims, err := parseToken(raw); err == nil {
				c.Locals(callerLocalKey, &usecases.CallerIdentity{
					UserID:     claims.Subject,
					CustomerID: claims.CustomerID,
					Name:       claims.Name,
					Email:      claims.Email,
					Role:       claims.Role,
					BusinessID: claims.BusinessID,
				})
			}
		}
		return c.Next()
	}
}

// RequireAdmin bloqueia a rota para quem não for admin de empresa ou super admin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller := CallerFromContext(c)
		if caller == nil {
			return c.Status(401).JSON(fiber.Map{"error": "autenticação obrigatória"})
		}
		if caller.Role != usecases.RoleBusinessAdmin && caller.Role != usecases.RoleSuperAdmin {
			return c.Status(403).JSON(fiber.Map{"error": "papel sem permissão para esta rota"})
		}
		return c.Next()
	}
}

// CallerFromContext recupera a identidade anexada por WithAuth, se houver.
func CallerFromContext(c *fiber.Ctx) *usecases.CallerIdentity {
	caller, _ := c.Locals(callerLocalKey).(*usecases.CallerIdentity)
	return caller
}
