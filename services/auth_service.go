package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"bloom_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/golang-jwt/jwt/v5"
)

const (
	campusDomain      = "nith.ac.in"
	verificationTTL   = 5 * time.Minute
	sessionTokenTTL   = 7 * 24 * time.Hour
	verificationBytes = 32
)

var rollNumberPattern = regexp.MustCompile(`^[0-9]{2}[a-z]{3}[0-9]{3}$`)

var (
	ErrInvalidCampusEmail = errors.New("email must be a valid college email")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type AuthService struct {
	Dynamo    *DynamoService
	Users     *UserService
	Mail      *MailService
	JWTSecret []byte
	BaseURL   string // public base URL used in the login link
}

// ParseCampusEmail validates an institutional address and extracts the
// normalized roll number from its local part.
func ParseCampusEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.HasSuffix(email, "@"+campusDomain) {
		return "", ErrInvalidCampusEmail
	}

	rollNumber := strings.SplitN(email, "@", 2)[0]
	if !rollNumberPattern.MatchString(rollNumber) {
		return "", ErrInvalidCampusEmail
	}

	return rollNumber, nil
}

// LoginUser gets or creates the account for a campus email, issues a
// short-lived verification token and mails the login link.
func (as *AuthService) LoginUser(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	rollNumber, err := ParseCampusEmail(email)
	if err != nil {
		return err
	}

	user, err := as.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		user, err = as.Users.CreateUser(ctx, email, rollNumber)
		if err != nil {
			return err
		}
		log.Printf("✅ New account created for roll %s", rollNumber)
	}

	token, err := generateVerificationToken()
	if err != nil {
		return err
	}

	// One verification row per user; re-login replaces the old token
	verification := models.EmailVerification{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(verificationTTL).Format(time.RFC3339),
	}
	if err := as.Dynamo.PutItem(ctx, models.EmailVerificationsTable, verification); err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	verificationURL := strings.TrimRight(as.BaseURL, "/") + "/api/auth/verify-email/" + token
	return as.Mail.SendLoginLink(user.Email, verificationURL)
}

// VerifyEmail redeems a login-link token: marks the user verified, deletes
// the token and returns the user with a fresh session JWT.
func (as *AuthService) VerifyEmail(ctx context.Context, token string) (*models.User, string, error) {
	expressionValues := map[string]types.AttributeValue{
		":token": &types.AttributeValueMemberS{Value: token},
	}

	items, err := as.Dynamo.QueryItemsWithIndex(ctx, models.EmailVerificationsTable, models.TokenIndex,
		"#token = :token", expressionValues, map[string]string{"#token": "token"}, 1)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up verification token: %w", err)
	}
	if len(items) == 0 {
		return nil, "", ErrInvalidToken
	}

	var verification models.EmailVerification
	if err := attributevalue.UnmarshalMap(items[0], &verification); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal verification: %w", err)
	}

	expiresAt, err := time.Parse(time.RFC3339, verification.ExpiresAt)
	if err != nil || time.Now().UTC().After(expiresAt) {
		return nil, "", ErrInvalidToken
	}

	if err := as.Users.MarkVerified(ctx, verification.UserID); err != nil {
		return nil, "", err
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: verification.UserID},
	}
	if err := as.Dynamo.DeleteItem(ctx, models.EmailVerificationsTable, key); err != nil {
		return nil, "", err
	}

	user, err := as.Users.GetUserByID(ctx, verification.UserID)
	if err != nil {
		return nil, "", err
	}

	sessionToken, err := as.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, sessionToken, nil
}

// IssueToken signs a session JWT for the user.
func (as *AuthService) IssueToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(sessionTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.JWTSecret)
}

// VerifyToken validates a session JWT and returns the user id it carries.
func (as *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return as.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func generateVerificationToken() (string, error) {
	buf := make([]byte, verificationBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
