package service

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"congregation_backend/internals/configs"
	authHelper "congregation_backend/internals/features/users/auth/helper"
	authRepo "congregation_backend/internals/features/users/auth/repository"
	memberModel "congregation_backend/internals/features/members/model"
	helpers "congregation_backend/internals/helpers"
	helpersAuth "congregation_backend/internals/helpers/auth"
)

const accessTTLDefault = 7 * 24 * time.Hour

func nowUTC() time.Time { return time.Now().UTC() }

func accessTTL() time.Duration {
	if cfg := configs.Current(); cfg != nil && cfg.TokenTTL > 0 {
		return cfg.TokenTTL
	}
	return accessTTLDefault
}

func secureCookies() bool {
	cfg := configs.Current()
	return cfg != nil && cfg.SecureCookies
}

type MeResponse struct {
	ID       string  `json:"id"`
	FullName string  `json:"fullName"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     string  `json:"role"`
	Active   bool    `json:"active"`
}

func toMe(m *memberModel.MemberModel) MeResponse {
	return MeResponse{
		ID:       m.MemberID.String(),
		FullName: m.MemberFullName,
		Email:    m.MemberEmail,
		Phone:    m.MemberPhone,
		Role:     string(m.MemberRole),
		Active:   m.MemberIsActive,
	}
}

/* ==========================
   LOGIN (email/phone + password)
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	input.Identifier = strings.TrimSpace(input.Identifier)

	if err := authHelper.ValidateLoginInput(input.Identifier, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	member, err := authRepo.FindMemberByIdentifier(db, input.Identifier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ERROR] login lookup: %v", err)
			return helpers.JsonError(c, fiber.StatusInternalServerError, "")
		}
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Invalid identifier or password")
	}
	if !member.MemberIsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated. Contact an admin.")
	}
	if !member.HasPassword() || authHelper.CheckPasswordHash(*member.MemberPasswordHash, input.Password) != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Invalid identifier or password")
	}

	now := nowUTC()
	token, exp, err := SignAccessToken(configs.JWTSecret, member.MemberID, member.MemberRole, member.MemberFullName, now, accessTTL())
	if err != nil {
		log.Printf("[ERROR] sign token: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "")
	}

	setSessionCookie(c, token, exp)
	return helpers.JsonOK(c, "Login successful", fiber.Map{
		"accessToken": token,
		"expiresAt":   exp,
		"user":        toMe(member),
	})
}

/* ==========================
   REGISTER (claim a pre-created member)
========================== */

// Register gives login access to a member an admin already created. The
// phone number identifies the member and is never changed here.
func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Phone    string  `json:"phone"`
		Password string  `json:"password"`
		FullName *string `json:"fullName"`
		Email    *string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Phone == "" || input.Password == "" {
		return helpers.JsonError(c, fiber.StatusBadRequest, "phone and password are required")
	}
	if err := authHelper.ValidatePassword(input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	member, err := authRepo.FindMemberByPhone(db, input.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.JsonError(c, fiber.StatusNotFound, "No member with this phone number")
		}
		log.Printf("[ERROR] register lookup: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "")
	}
	if member.HasPassword() {
		return helpers.JsonError(c, fiber.StatusConflict, "Member already has login access")
	}
	if !member.MemberIsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated. Contact an admin.")
	}

	hash, err := authHelper.HashPassword(input.Password)
	if err != nil {
		log.Printf("[ERROR] hash password: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "")
	}
	up := map[string]any{"member_password_hash": hash}
	member.MemberPasswordHash = &hash
	if input.FullName != nil && strings.TrimSpace(*input.FullName) != "" {
		member.MemberFullName = strings.TrimSpace(*input.FullName)
		up["member_full_name"] = member.MemberFullName
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		email := strings.TrimSpace(*input.Email)
		if !authHelper.IsValidEmail(email) {
			return helpers.JsonError(c, fiber.StatusBadRequest, "email is not valid")
		}
		member.MemberEmail = &email
		up["member_email"] = email
	}

	claimed, err := authRepo.ClaimLogin(db, member.MemberID, up)
	switch {
	case helpers.IsUniqueViolation(err):
		return helpers.JsonError(c, fiber.StatusConflict, "Email is already in use")
	case err != nil:
		log.Printf("[ERROR] register: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "")
	case !claimed:
		return helpers.JsonError(c, fiber.StatusConflict, "Member already has login access")
	}

	token, exp, err := SignAccessToken(configs.JWTSecret, member.MemberID, member.MemberRole, member.MemberFullName, nowUTC(), accessTTL())
	if err != nil {
		log.Printf("[ERROR] sign token: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "")
	}
	setSessionCookie(c, token, exp)
	return helpers.JsonOK(c, "Registration successful", fiber.Map{
		"accessToken": token,
		"expiresAt":   exp,
		"member":      toMe(member),
	})
}

/* ==========================
   ME
========================== */

func Me(db *gorm.DB, c *fiber.Ctx) error {
	caller, err := helpersAuth.RequireCaller(c)
	if err != nil {
		return err
	}
	member, err := authRepo.FindMemberByID(db, caller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.JsonError(c, fiber.StatusUnauthorized, "Member not found")
		}
		return helpers.JsonError(c, fiber.StatusInternalServerError, "")
	}
	return helpers.JsonOK(c, "OK", toMe(member))
}

/* ==========================
   LOGOUT
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	accessToken := helpers.GetRawAccessToken(c)

	if accessToken != "" {
		expiredAt := nowUTC().Add(accessTTL())
		if claims, err := ParseAccessToken(configs.JWTSecret, accessToken, nowUTC()); err == nil {
			expiredAt = claims.ExpiresAt.Add(time.Minute)
		}
		if err := authRepo.BlacklistToken(db, accessToken, configs.JWTSecret, expiredAt); err != nil {
			log.Printf("[WARN] failed to blacklist token: %v", err)
		}
	} else {
		log.Println("[INFO] logout without a token; clearing cookies")
	}

	expired := nowUTC().Add(-time.Hour)
	for _, name := range []string{helpers.SessionCookie, helpers.LegacySessionCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			Secure:   secureCookies(),
			SameSite: "Lax",
			Path:     "/",
			Expires:  expired,
			MaxAge:   -1,
		})
	}

	return helpers.JsonOK(c, "Logout successful", nil)
}

func setSessionCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     helpers.SessionCookie,
		Value:    token,
		HTTPOnly: true,
		Secure:   secureCookies(),
		SameSite: "Lax",
		Path:     "/",
		Expires:  exp,
	})
}
