package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/madan1440/svlf-software/internal/domain"
)

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.TS.IsZero() {
		entry.TS = time.Now()
	}

	query := `INSERT INTO audit_log (who, action, target, ts) VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, entry.Who, entry.Action, entry.Target, entry.TS)
	return err
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	query := `SELECT id, who, action, target, ts FROM audit_log ORDER BY id DESC LIMIT $1`

	var entries []*domain.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, err
	}

	return entries, nil
}
