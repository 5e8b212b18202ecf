package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/MF1DEV/vantora/internal/domain"
)

var (
	// usernameRE constrains public profile slugs.
	usernameRE = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,29}$`)

	// hostnameRE accepts lowercase alphanumeric labels with inner hyphens,
	// at least one dot, and an alphabetic final label of length >= 2.
	hostnameRE = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,}$`)
)

const (
	minPasswordLength       = 8
	verificationTokenLength = 32 // bytes, hex-encoded to 64 chars
)

var (
	ErrInvalidUsername = errors.New("username must be 3-30 characters: lowercase letters, digits, '-' or '_'")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrPasswordTooWeak = errors.New("password must be at least 8 characters")
	ErrInvalidHostname = errors.New("invalid hostname")
	ErrMissingPassword = errors.New("password is required")
	ErrInvalidURL      = errors.New("link URL must start with http:// or https://")
	ErrMissingTitle    = errors.New("link title is required")
	ErrInvalidSchedule = errors.New("scheduling window ends before it starts")
	ErrEmptyReorder    = errors.New("link order is required")
)

// StatsProvider serves cached aggregate statistics.
type StatsProvider interface {
	Get(ctx context.Context) (*domain.StatsSnapshot, error)
	TTL() time.Duration
}

// Service is the application layer service.
type Service struct {
	profiles  domain.ProfileRepository
	links     domain.LinkRepository
	domains   domain.DomainRepository
	stats     StatsProvider
	analytics *Dispatcher
	audit     *AuditRecorder
	clock     clockwork.Clock
}

func NewService(
	profiles domain.ProfileRepository,
	links domain.LinkRepository,
	domains domain.DomainRepository,
	stats StatsProvider,
	analytics *Dispatcher,
	audit *AuditRecorder,
	clock clockwork.Clock,
) *Service {
	return &Service{
		profiles:  profiles,
		links:     links,
		domains:   domains,
		stats:     stats,
		analytics: analytics,
		audit:     audit,
		clock:     clock,
	}
}

// Stop shuts down the background workers, draining pending analytics events.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.analytics.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop analytics dispatcher: %w", err)
	}
	s.audit.Wait()
	return nil
}

// --- Registration and login ---

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new profile with a bcrypt-hashed password and the
// default theme.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.Profile, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if !usernameRE.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooWeak
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &domain.Profile{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  username,
		SocialLinks:  map[string]string{},
		Theme:        domain.DefaultTheme(),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Authenticate verifies email/password credentials. It returns
// domain.ErrInvalidCredentials for both unknown emails and wrong passwords so
// the two cases are indistinguishable to a caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrProfileNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return profile, nil
}

// --- Profile management ---

func (s *Service) GetProfileByID(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error) {
	return s.profiles.GetByID(ctx, profileID)
}

type UpdateProfileInput struct {
	DisplayName string            `json:"display_name"`
	Bio         string            `json:"bio"`
	AvatarURL   string            `json:"avatar_url"`
	SocialLinks map[string]string `json:"social_links"`
	Theme       domain.Theme      `json:"theme"`
}

func (s *Service) UpdateProfile(ctx context.Context, profileID uuid.UUID, input UpdateProfileInput) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	profile.DisplayName = input.DisplayName
	profile.Bio = input.Bio
	profile.AvatarURL = input.AvatarURL
	if input.SocialLinks != nil {
		profile.SocialLinks = input.SocialLinks
	}
	profile.Theme = input.Theme.Normalize()

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// PublicLink is a link as shown on the public page. Protected links carry no
// destination URL until the visitor passes the password gate.
type PublicLink struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url,omitempty"`
	IsProtected  bool      `json:"is_protected"`
	ButtonStyle  string    `json:"button_style,omitempty"`
	ButtonColor  string    `json:"button_color,omitempty"`
	BorderRadius string    `json:"border_radius,omitempty"`
	Animation    string    `json:"animation,omitempty"`
}

type PublicProfile struct {
	Username    string            `json:"username"`
	DisplayName string            `json:"display_name"`
	Bio         string            `json:"bio"`
	AvatarURL   string            `json:"avatar_url"`
	SocialLinks map[string]string `json:"social_links"`
	Theme       domain.Theme      `json:"theme"`
	Links       []PublicLink      `json:"links"`
}

// PublicProfileByUsername assembles the public view of a profile: its visible
// links in display order, with protected destinations withheld.
func (s *Service) PublicProfileByUsername(ctx context.Context, username string) (*PublicProfile, error) {
	profile, err := s.profiles.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return nil, err
	}

	links, err := s.links.ListByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	public := &PublicProfile{
		Username:    profile.Username,
		DisplayName: profile.DisplayName,
		Bio:         profile.Bio,
		AvatarURL:   profile.AvatarURL,
		SocialLinks: profile.SocialLinks,
		Theme:       profile.Theme,
		Links:       []PublicLink{},
	}

	for _, link := range links {
		if !link.VisibleAt(now) {
			continue
		}
		item := PublicLink{
			ID:           link.ID,
			Title:        link.Title,
			IsProtected:  link.IsProtected,
			ButtonStyle:  link.ButtonStyle,
			ButtonColor:  link.ButtonColor,
			BorderRadius: link.BorderRadius,
			Animation:    link.Animation,
		}
		if !link.IsProtected {
			item.URL = link.URL
		}
		public.Links = append(public.Links, item)
	}

	return public, nil
}

// --- Link management ---

type LinkInput struct {
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	IsActive     bool       `json:"is_active"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
	Password     string     `json:"password"`
	RemoveGate   bool       `json:"remove_gate"`
	ButtonStyle  string     `json:"button_style"`
	ButtonColor  string     `json:"button_color"`
	BorderRadius string     `json:"border_radius"`
	Animation    string     `json:"animation"`
}

func validateLinkInput(input LinkInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrMissingTitle
	}
	if !strings.HasPrefix(input.URL, "http://") && !strings.HasPrefix(input.URL, "https://") {
		return ErrInvalidURL
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return ErrInvalidSchedule
	}
	return nil
}

func (s *Service) CreateLink(ctx context.Context, profileID uuid.UUID, input LinkInput) (*domain.Link, error) {
	if err := validateLinkInput(input); err != nil {
		return nil, err
	}

	link := &domain.Link{
		ProfileID:    profileID,
		Title:        strings.TrimSpace(input.Title),
		URL:          input.URL,
		IsActive:     input.IsActive,
		StartsAt:     input.StartsAt,
		EndsAt:       input.EndsAt,
		ButtonStyle:  input.ButtonStyle,
		ButtonColor:  input.ButtonColor,
		BorderRadius: input.BorderRadius,
		Animation:    input.Animation,
	}

	// A password hash is present iff the protection flag is set.
	if input.Password != "" {
		hash, err := s.HashLinkPassword(input.Password)
		if err != nil {
			return nil, err
		}
		link.IsProtected = true
		link.PasswordHash = hash
	}

	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *Service) UpdateLink(ctx context.Context, profileID, linkID uuid.UUID, input LinkInput) (*domain.Link, error) {
	if err := validateLinkInput(input); err != nil {
		return nil, err
	}

	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.ProfileID != profileID {
		return nil, domain.ErrLinkNotFound
	}

	link.Title = strings.TrimSpace(input.Title)
	link.URL = input.URL
	link.IsActive = input.IsActive
	link.StartsAt = input.StartsAt
	link.EndsAt = input.EndsAt
	link.ButtonStyle = input.ButtonStyle
	link.ButtonColor = input.ButtonColor
	link.BorderRadius = input.BorderRadius
	link.Animation = input.Animation

	switch {
	case input.RemoveGate:
		link.IsProtected = false
		link.PasswordHash = ""
	case input.Password != "":
		hash, err := s.HashLinkPassword(input.Password)
		if err != nil {
			return nil, err
		}
		link.IsProtected = true
		link.PasswordHash = hash
	}

	if err := s.links.Update(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *Service) DeleteLink(ctx context.Context, profileID, linkID uuid.UUID) error {
	return s.links.Delete(ctx, profileID, linkID)
}

func (s *Service) ListLinks(ctx context.Context, profileID uuid.UUID) ([]domain.Link, error) {
	return s.links.ListByProfile(ctx, profileID)
}

func (s *Service) ReorderLinks(ctx context.Context, profileID uuid.UUID, linkIDs []uuid.UUID) error {
	if len(linkIDs) == 0 {
		return ErrEmptyReorder
	}
	return s.links.Reorder(ctx, profileID, linkIDs)
}

// --- Password-protected-link gate ---

// HashLinkPassword returns a salted bcrypt hash of the given secret. The hash
// is handed back to the caller, never persisted here.
func (s *Service) HashLinkPassword(password string) (string, error) {
	if password == "" {
		return "", ErrMissingPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash link password: %w", err)
	}
	return string(hash), nil
}

// VerifyLinkPassword checks a visitor-supplied secret against a protected
// link's stored hash. bcrypt's comparison provides the constant-time
// guarantee; nothing here short-circuits on prefix matches.
func (s *Service) VerifyLinkPassword(ctx context.Context, linkID uuid.UUID, password string) error {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return err
	}

	if !link.IsProtected || link.PasswordHash == "" {
		return domain.ErrLinkNotProtected
	}

	if err := bcrypt.CompareHashAndPassword([]byte(link.PasswordHash), []byte(password)); err != nil {
		return domain.ErrWrongPassword
	}
	return nil
}

// --- Custom domains ---

// AddDomain validates and registers a hostname for the given profile. The
// global-uniqueness race between concurrent registrations is resolved by the
// database constraint, surfacing as domain.ErrDuplicateHostname.
func (s *Service) AddDomain(ctx context.Context, profileID uuid.UUID, hostname string) (*domain.CustomDomain, error) {
	hostname = strings.ToLower(strings.TrimSpace(hostname))
	if !hostnameRE.MatchString(hostname) {
		return nil, ErrInvalidHostname
	}

	token, err := generateVerificationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	d := &domain.CustomDomain{
		ProfileID:         profileID,
		Hostname:          hostname,
		VerificationToken: token,
	}
	if err := s.domains.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) ListDomains(ctx context.Context, profileID uuid.UUID) ([]domain.CustomDomain, error) {
	return s.domains.ListByProfile(ctx, profileID)
}

func generateVerificationToken() (string, error) {
	b := make([]byte, verificationTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// --- Analytics and stats ---

// TrackEvent hands an event to the detached dispatcher. It reports whether
// the event was accepted; a full queue drops the event.
func (s *Service) TrackEvent(event domain.AnalyticsEvent) bool {
	return s.analytics.Enqueue(event)
}

func (s *Service) Stats(ctx context.Context) (*domain.StatsSnapshot, error) {
	return s.stats.Get(ctx)
}

func (s *Service) StatsTTL() time.Duration {
	return s.stats.TTL()
}

// --- Audit ---

// RecordAudit appends a security-event entry without blocking the caller.
func (s *Service) RecordAudit(entry domain.AuditEntry) {
	s.audit.Record(entry)
}
