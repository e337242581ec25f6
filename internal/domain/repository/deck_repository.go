package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studyhub/internal/common"
	"studyhub/internal/domain/model"
)

type DeckRepository interface {
	CreateDeck(ctx context.Context, deck *model.Deck) error
	FindDeckByID(ctx context.Context, id string) (*model.Deck, error)
	ListDecksByOwner(ctx context.Context, ownerID string) ([]model.Deck, error)
	AddCard(ctx context.Context, card *model.Card) error
	ListCardsByDeck(ctx context.Context, deckID string) ([]model.Card, error)
	DeleteDeck(ctx context.Context, tx *sql.Tx, deckID string) error
}

type pgDeckRepository struct {
	db *sql.DB
}

func NewPgDeckRepository(db *sql.DB) DeckRepository {
	return &pgDeckRepository{db: db}
}

func (r *pgDeckRepository) CreateDeck(ctx context.Context, d *model.Deck) error {
	query := `INSERT INTO decks (id, owner_id, title, description) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, d.ID, d.OwnerID, d.Title, d.Description)
	if err != nil {
		return fmt.Errorf("pgDeckRepository.CreateDeck: %w", err)
	}
	return nil
}

func (r *pgDeckRepository) FindDeckByID(ctx context.Context, id string) (*model.Deck, error) {
	query := `SELECT id, owner_id, title, description, created_at, updated_at FROM decks WHERE id = $1`
	d := &model.Deck{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.OwnerID, &d.Title, &d.Description, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgDeckRepository.FindDeckByID: %w", err)
	}
	return d, nil
}

func (r *pgDeckRepository) ListDecksByOwner(ctx context.Context, ownerID string) ([]model.Deck, error) {
	query := `SELECT id, owner_id, title, description, created_at, updated_at
	          FROM decks WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("pgDeckRepository.ListDecksByOwner query: %w", err)
	}
	defer rows.Close()

	decks := []model.Deck{}
	for rows.Next() {
		var d model.Deck
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Title, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgDeckRepository.ListDecksByOwner scan: %w", err)
		}
		decks = append(decks, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgDeckRepository.ListDecksByOwner rows.Err: %w", err)
	}
	return decks, nil
}

func (r *pgDeckRepository) AddCard(ctx context.Context, c *model.Card) error {
	query := `INSERT INTO cards (id, deck_id, front, back, sort_order) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.DeckID, c.Front, c.Back, c.SortOrder)
	if err != nil {
		return fmt.Errorf("pgDeckRepository.AddCard: %w", err)
	}
	return nil
}

func (r *pgDeckRepository) ListCardsByDeck(ctx context.Context, deckID string) ([]model.Card, error) {
	query := `SELECT id, deck_id, front, back, sort_order, created_at
	          FROM cards WHERE deck_id = $1 ORDER BY sort_order ASC, created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("pgDeckRepository.ListCardsByDeck query: %w", err)
	}
	defer rows.Close()

	cards := []model.Card{}
	for rows.Next() {
		var c model.Card
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.SortOrder, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgDeckRepository.ListCardsByDeck scan: %w", err)
		}
		cards = append(cards, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgDeckRepository.ListCardsByDeck rows.Err: %w", err)
	}
	return cards, nil
}

func (r *pgDeckRepository) DeleteDeck(ctx context.Context, tx *sql.Tx, deckID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = $1`, deckID); err != nil {
		return fmt.Errorf("pgDeckRepository.DeleteDeck cards: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, deckID)
	if err != nil {
		return fmt.Errorf("pgDeckRepository.DeleteDeck deck: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
