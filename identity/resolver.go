package identity

import (
	"errors"

	"github.com/rparit-stacks/pixel-pandit-esco-sub001/db"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/models"
	"github.com/rparit-stacks/pixel-pandit-esco-sub001/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Session carries the externally-authenticated principal handed to us by
// the session provider. The core never checks credentials itself.
type Session struct {
	Subject string
	Email   string
	Name    string
}

var (
	ErrUnauthenticated = errors.New("no valid session")
	ErrNotProvider     = errors.New("user is not a provider")
)

// Resolve maps a session to the canonical domain user. Lookup goes by the
// stable session subject first, then by email, which covers storage having
// been reset while sessions stayed alive. Returns (nil, nil) when no user
// matches; callers decide whether that is an error.
func Resolve(s Session) (*models.User, error) {
	if s.Subject == "" || s.Email == "" {
		return nil, ErrUnauthenticated
	}

	var user models.User
	err := db.DB.Where("session_subject = ?", s.Subject).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = db.DB.Where("email = ?", s.Email).First(&user).Error
	if err == nil {
		if user.SessionSubject == nil || *user.SessionSubject != s.Subject {
			// re-link the subject to the surviving row, best-effort
			sub := s.Subject
			if linkErr := db.DB.Model(&user).Update("session_subject", sub).Error; linkErr != nil {
				utils.LogError(linkErr, "Could not re-link session subject")
			} else {
				user.SessionSubject = &sub
			}
		}
		return &user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

// ResolveOrCreate resolves the session's user, provisioning one with the
// given role when absent. The created user gets a placeholder credential
// that can never be used for password login. Unique constraints on email
// and session subject keep concurrent provisioning from duplicating rows.
func ResolveOrCreate(s Session, role models.Role) (*models.User, error) {
	user, err := Resolve(s)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	placeholder, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	sub := s.Subject
	newUser := models.User{
		Email:          s.Email,
		Password:       string(placeholder),
		Name:           s.Name,
		Role:           role,
		Status:         models.UserActive,
		SessionSubject: &sub,
	}

	if createErr := db.DB.Create(&newUser).Error; createErr != nil {
		// lost a provisioning race: the row exists now, resolve it
		existing, resolveErr := Resolve(s)
		if resolveErr == nil && existing != nil {
			return existing, nil
		}
		return nil, createErr
	}

	return &newUser, nil
}

// ResolveProviderWithProfile resolves-or-creates the session's user forced
// to the PROVIDER role and makes sure a default profile exists for them.
// Repeated calls for the same identity never create duplicate rows.
func ResolveProviderWithProfile(s Session) (*models.User, *models.Profile, error) {
	user, err := ResolveOrCreate(s, models.ProviderRole)
	if err != nil {
		return nil, nil, err
	}
	if user.Role != models.ProviderRole {
		return nil, nil, ErrNotProvider
	}

	var profile models.Profile
	err = db.DB.Where("user_id = ?", user.ID).First(&profile).Error
	if err == nil {
		return user, &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	profile = models.Profile{
		UserID:       user.ID,
		DisplayName:  user.Name,
		IsOnline:     false,
		CallsEnabled: true,
		IsVerified:   false,
	}
	if createErr := db.DB.Create(&profile).Error; createErr != nil {
		// unique constraint on user_id: another call provisioned it first
		var existing models.Profile
		if fetchErr := db.DB.Where("user_id = ?", user.ID).First(&existing).Error; fetchErr == nil {
			return user, &existing, nil
		}
		return nil, nil, createErr
	}

	return user, &profile, nil
}
