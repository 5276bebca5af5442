package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/madan1440/svlf-software/internal/domain"
	"github.com/madan1440/svlf-software/internal/repository"
)

// logAction appends to the audit trail. Best effort: a failed audit
// write is logged but never fails the operation it describes.
func logAction(ctx context.Context, repo repository.AuditRepository, who, action, target string) {
	entry := &domain.AuditEntry{Who: who, Action: action, Target: target}
	if err := repo.Append(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Str("target", target).Msg("audit append failed")
	}
}
