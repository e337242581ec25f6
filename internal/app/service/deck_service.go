package service

import (
	"context"
	"database/sql"

	"studyhub/internal/common"
	"studyhub/internal/common/validate"
	"studyhub/internal/domain/model"
	"studyhub/internal/domain/repository"

	"github.com/google/uuid"
)

type DeckService struct {
	deckRepo repository.DeckRepository
	db       *sql.DB // For transactions
}

func NewDeckService(deckRepo repository.DeckRepository, db *sql.DB) *DeckService {
	return &DeckService{deckRepo: deckRepo, db: db}
}

type CreateDeckRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"max=500"`
}

func (s *DeckService) CreateDeck(ctx context.Context, ownerID string, req CreateDeckRequest) (*model.Deck, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	deck := &model.Deck{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.deckRepo.CreateDeck(ctx, deck); err != nil {
		return nil, err
	}
	return deck, nil
}

func (s *DeckService) MyDecks(ctx context.Context, ownerID string) ([]model.Deck, error) {
	return s.deckRepo.ListDecksByOwner(ctx, ownerID)
}

func (s *DeckService) GetDeck(ctx context.Context, userID, deckID string) (*model.Deck, error) {
	deck, err := s.deckRepo.FindDeckByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != userID {
		// Decks are private; hide existence from non-owners.
		return nil, common.ErrNotFound
	}
	cards, err := s.deckRepo.ListCardsByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	deck.Cards = cards
	return deck, nil
}

type AddCardRequest struct {
	Front string `json:"front" validate:"required,min=1,max=1000"`
	Back  string `json:"back" validate:"required,min=1,max=1000"`
}

func (s *DeckService) AddCard(ctx context.Context, userID, deckID string, req AddCardRequest) (*model.Card, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	deck, err := s.deckRepo.FindDeckByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != userID {
		return nil, common.ErrNotFound
	}

	existing, err := s.deckRepo.ListCardsByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	card := &model.Card{
		ID:        uuid.NewString(),
		DeckID:    deckID,
		Front:     req.Front,
		Back:      req.Back,
		SortOrder: len(existing) + 1,
	}
	if err := s.deckRepo.AddCard(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *DeckService) DeleteDeck(ctx context.Context, userID, deckID string) error {
	deck, err := s.deckRepo.FindDeckByID(ctx, deckID)
	if err != nil {
		return err
	}
	if deck.OwnerID != userID {
		return common.ErrNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.deckRepo.DeleteDeck(ctx, tx, deckID); err != nil {
		return err
	}
	return tx.Commit()
}
