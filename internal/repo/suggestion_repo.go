// Package repo implements the data persistence layer for the durable
// suggestion archive, backed by GORM. This file provides repository functions
// for the Suggestion model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suggestbot/go-suggest-backend/internal/domain"
)

// CreateSuggestion inserts a new archive row for an accepted submission.
func CreateSuggestion(ctx context.Context, db *gorm.DB, userID int64, username, text string, ts time.Time) (*domain.Suggestion, error) {
	s := &domain.Suggestion{
		ID:        uuid.NewString(),
		UserID:    userID,
		Username:  username,
		Text:      text,
		CreatedAt: ts.UTC(),
	}
	return s, db.WithContext(ctx).Create(s).Error
}

// CountSuggestions returns the total number of archived suggestions.
func CountSuggestions(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Suggestion{}).Count(&total).Error
	return total, err
}

// ListSuggestionsPage returns a page of archived suggestions ordered
// deterministically (CreatedAt ASC, ID ASC).
func ListSuggestionsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Suggestion, error) {
	var out []domain.Suggestion
	err := db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
