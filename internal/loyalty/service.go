package loyalty

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/caddie-pos/caddie-pos/internal/shared"
)

// Service wraps loyalty profile business rules. The purchase state
// machine itself lives in Apply and runs inside sale transactions.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetOrCreateByUser returns the loyalty profile for a user account,
// provisioning one with a fresh QR code on first access.
func (s *Service) GetOrCreateByUser(ctx context.Context, userID int64) (Client, error) {
	client, err := s.repo.GetByUser(ctx, userID)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return Client{}, err
	}
	return s.repo.Create(ctx, Client{
		UserID: userID,
		QRCode: NewQRCode(userID),
	})
}

// ByID returns a loyalty profile by its primary key.
func (s *Service) ByID(ctx context.Context, id int64) (Client, error) {
	return s.repo.GetByID(ctx, id)
}

// ByQRCode resolves a scanned card to its loyalty profile.
func (s *Service) ByQRCode(ctx context.Context, qr string) (Client, error) {
	return s.repo.GetByQRCode(ctx, strings.TrimSpace(qr))
}

// History lists a client's purchases, newest first.
func (s *Service) History(ctx context.Context, clientID int64) ([]Purchase, error) {
	return s.repo.History(ctx, clientID)
}

// NewQRCode builds a card identifier of the form CLIENT-<userID>-<rand12>.
func NewQRCode(userID int64) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("CLIENT-%d-%s", userID, raw[:12])
}
