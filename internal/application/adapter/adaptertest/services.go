package adaptertest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

// PasswordService is a reversible adapter.PasswordService for tests.
type PasswordService struct{}

func (PasswordService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (PasswordService) VerifyPassword(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

func (PasswordService) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password too short")
	}
	return nil
}

// TokenService issues opaque tokens and tracks refresh token revocation.
type TokenService struct {
	mu      sync.Mutex
	access  map[string]adapter.TokenClaims
	refresh map[string]adapter.TokenClaims
}

// NewTokenService creates an empty TokenService.
func NewTokenService() *TokenService {
	return &TokenService{
		access:  make(map[string]adapter.TokenClaims),
		refresh: make(map[string]adapter.TokenClaims),
	}
}

func (s *TokenService) GenerateTokenPair(_ context.Context, userID uuid.UUID, email string) (*adapter.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claims := adapter.TokenClaims{UserID: userID, Email: email, ExpiresAt: time.Now().Add(time.Hour)}
	pair := &adapter.TokenPair{
		AccessToken:  "access-" + uuid.NewString(),
		RefreshToken: "refresh-" + uuid.NewString(),
		ExpiresIn:    time.Hour,
	}
	s.access[pair.AccessToken] = claims
	s.refresh[pair.RefreshToken] = claims
	return pair, nil
}

func (s *TokenService) ValidateAccessToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claims, ok := s.access[token]
	if !ok {
		return nil, domainerror.ErrInvalidToken
	}
	return &claims, nil
}

func (s *TokenService) ValidateRefreshToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claims, ok := s.refresh[token]
	if !ok {
		return nil, domainerror.ErrInvalidToken
	}
	return &claims, nil
}

func (s *TokenService) InvalidateRefreshToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.refresh[token]; !ok {
		return domainerror.ErrInvalidToken
	}
	delete(s.refresh, token)
	return nil
}

func (s *TokenService) InvalidateAllUserTokens(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, claims := range s.refresh {
		if claims.UserID == userID {
			delete(s.refresh, token)
		}
	}
	return nil
}

// ActiveRefreshTokens returns how many refresh tokens the user still holds.
func (s *TokenService) ActiveRefreshTokens(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, claims := range s.refresh {
		if claims.UserID == userID {
			n++
		}
	}
	return n
}

// OCRService returns canned results or errors.
type OCRService struct {
	Result    *entity.OCRData
	Err       error
	HealthErr error

	Calls    int
	LastText string
}

func (s *OCRService) ProcessReceipt(_ context.Context, _, _ string, content io.Reader) (*entity.OCRData, error) {
	s.Calls++
	if _, err := io.Copy(io.Discard, content); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Result, nil
}

func (s *OCRService) ProcessText(_ context.Context, text string) (*entity.OCRData, error) {
	s.Calls++
	s.LastText = text
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Result, nil
}

func (s *OCRService) HealthCheck(_ context.Context) error {
	return s.HealthErr
}

// AttachmentStorage keeps uploaded files in memory.
type AttachmentStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	Removed []string
	SaveErr error
}

// NewAttachmentStorage creates an empty AttachmentStorage.
func NewAttachmentStorage() *AttachmentStorage {
	return &AttachmentStorage{files: make(map[string][]byte)}
}

func (s *AttachmentStorage) Save(_ context.Context, originalName, mimeType string, content io.Reader) (*entity.Attachment, error) {
	if s.SaveErr != nil {
		return nil, s.SaveErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filename := uuid.NewString() + "-" + strings.ReplaceAll(originalName, "/", "_")
	path := "mem/" + filename
	s.files[path] = data
	return &entity.Attachment{
		Filename:     filename,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		Path:         path,
		UploadedAt:   time.Now().UTC(),
	}, nil
}

func (s *AttachmentStorage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return nil, errors.New("attachment not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *AttachmentStorage) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	s.Removed = append(s.Removed, path)
	return nil
}

// Exists reports whether a file is stored at path.
func (s *AttachmentStorage) Exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok
}

// ReportRenderer records the last rendered report.
type ReportRenderer struct {
	Last *entity.TransactionReport
	Err  error
}

func (r *ReportRenderer) Render(_ context.Context, report *entity.TransactionReport) ([]byte, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.Last = report
	return []byte("%PDF-fake"), nil
}

func (r *ReportRenderer) ContentType() string { return "application/pdf" }

func (r *ReportRenderer) Extension() string { return "pdf" }
