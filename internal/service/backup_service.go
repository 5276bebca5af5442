package service

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/madan1440/svlf-software/internal/config"
	"github.com/madan1440/svlf-software/internal/repository"
)

// BackupInfo describes one archive on disk.
type BackupInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// BackupService snapshots the dataset as a zip of CSV exports. Old
// archives beyond the configured retention count are pruned after
// every successful backup.
type BackupService struct {
	exporter  *ExportService
	auditRepo repository.AuditRepository
	config    *config.Config
}

func NewBackupService(exporter *ExportService, auditRepo repository.AuditRepository, cfg *config.Config) *BackupService {
	return &BackupService{
		exporter:  exporter,
		auditRepo: auditRepo,
		config:    cfg,
	}
}

var backupExports = []string{ExportVehicles, ExportSellers, ExportBuyers, ExportInstallments}

// CreateBackup writes data_<timestamp>.zip into the backup directory
// and returns its info.
func (s *BackupService) CreateBackup(ctx context.Context, actor string) (*BackupInfo, error) {
	if err := os.MkdirAll(s.config.Backup.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("data_%s.zip", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.config.Backup.Dir, name)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}

	archive := zip.NewWriter(file)

	for _, exportType := range backupExports {
		entry, zipErr := archive.Create(exportType + ".csv")
		if zipErr != nil {
			err = zipErr
			break
		}
		if expErr := s.exporter.ExportCSV(ctx, exportType, entry); expErr != nil {
			err = expErr
			break
		}
	}

	if closeErr := archive.Close(); err == nil {
		err = closeErr
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write backup: %w", err)
	}

	s.prune()

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	logAction(ctx, s.auditRepo, actor, "create_backup", name)
	return &BackupInfo{Name: name, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// ListBackups returns the archives on disk, newest first.
func (s *BackupService) ListBackups(ctx context.Context) ([]*BackupInfo, error) {
	entries, err := os.ReadDir(s.config.Backup.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*BackupInfo{}, nil
		}
		return nil, err
	}

	backups := make([]*BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		backups = append(backups, &BackupInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	return backups, nil
}

// DeleteBackup removes one archive by name. The name is reduced to its
// base so a crafted path cannot escape the backup directory.
func (s *BackupService) DeleteBackup(ctx context.Context, actor, name string) error {
	base := filepath.Base(name)
	if base != name || !strings.HasSuffix(base, ".zip") {
		return fmt.Errorf("invalid backup name %q", name)
	}

	if err := os.Remove(filepath.Join(s.config.Backup.Dir, base)); err != nil {
		return err
	}

	logAction(ctx, s.auditRepo, actor, "delete_backup", base)
	return nil
}

// BackupPath resolves an archive name to its on-disk path for download.
func (s *BackupService) BackupPath(name string) (string, error) {
	base := filepath.Base(name)
	if base != name || !strings.HasSuffix(base, ".zip") {
		return "", fmt.Errorf("invalid backup name %q", name)
	}

	path := filepath.Join(s.config.Backup.Dir, base)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// prune keeps only the newest Keep archives.
func (s *BackupService) prune() {
	backups, err := s.ListBackups(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("backup prune listing failed")
		return
	}

	for i := s.config.Backup.Keep; i < len(backups); i++ {
		path := filepath.Join(s.config.Backup.Dir, backups[i].Name)
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("backup", backups[i].Name).Msg("backup prune failed")
		}
	}
}
