package repository

import (
	"context"
	"fmt"

	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// CreateDocument сохраняет запись о сгенерированном документе участника.
// Выполняется вне транзакции регистрации: неуспех не откатывает пользователя.
func (s *Storage) CreateDocument(ctx context.Context, doc models.MemberDocument) error {
	const op = "storage.CreateDocument"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO member_documents (user_id, transaction_id, document_path, doc_type, status)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		doc.UserID, doc.TransactionID, doc.DocumentPath, doc.DocType, doc.Status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
