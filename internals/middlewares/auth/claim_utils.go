package auth

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/configs"
	"congregation_backend/internals/constants"
	authRepo "congregation_backend/internals/features/users/auth/repository"
	authService "congregation_backend/internals/features/users/auth/service"
	helper "congregation_backend/internals/helpers"
	helperAuth "congregation_backend/internals/helpers/auth"
)

// authError is a rejected session: Status is the HTTP status the required
// middleware answers with.
type authError struct {
	Status  int
	Message string
}

func (e *authError) Error() string { return e.Message }

var errNoToken = &authError{Status: fiber.StatusUnauthorized, Message: "Unauthorized - No token provided"}

// resolveCaller turns the request's session token into a Caller. The role is
// taken from the member row so a demoted member loses access immediately.
func resolveCaller(db *gorm.DB, c *fiber.Ctx) (*helperAuth.Caller, error) {
	raw := helper.GetRawAccessToken(c)
	if raw == "" {
		return nil, errNoToken
	}

	secret := configs.JWTSecret
	if secret == "" {
		log.Println("[ERROR] JWT_SECRET is empty")
		return nil, &authError{Status: fiber.StatusInternalServerError, Message: "Missing JWT Secret"}
	}

	if c.Locals("token_checked") == nil {
		black, err := authRepo.IsBlacklisted(db, raw, secret)
		if err != nil {
			log.Println("[ERROR] blacklist lookup:", err)
			return nil, &authError{Status: fiber.StatusInternalServerError, Message: "Internal Server Error"}
		}
		if black {
			return nil, &authError{Status: fiber.StatusUnauthorized, Message: "Unauthorized - Token is blacklisted"}
		}
		c.Locals("token_checked", true)
	}

	claims, err := authService.ParseAccessToken(secret, raw, time.Now())
	if err != nil {
		if errors.Is(err, authService.ErrTokenExpired) {
			return nil, &authError{Status: fiber.StatusUnauthorized, Message: "Unauthorized - Token expired"}
		}
		return nil, &authError{Status: fiber.StatusUnauthorized, Message: "Unauthorized - Token parse error"}
	}

	member, err := authRepo.FindMemberByID(db, claims.MemberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &authError{Status: fiber.StatusUnauthorized, Message: "Unauthorized - Member not found"}
		}
		log.Println("[ERROR] member lookup:", err)
		return nil, &authError{Status: fiber.StatusInternalServerError, Message: "Internal Server Error"}
	}
	if !member.MemberIsActive {
		return nil, &authError{Status: fiber.StatusForbidden, Message: "Your account has been deactivated"}
	}

	role := claims.Role
	if member.MemberRole != "" {
		role = constants.ParseRole(member.MemberRole)
	}

	helper.SetRawAccessToken(c, raw)
	return &helperAuth.Caller{
		ID:       member.MemberID,
		Role:     role,
		FullName: member.MemberFullName,
	}, nil
}
