package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/openaccred/accreditation-mgt-api/internal/apperror"
	"github.com/openaccred/accreditation-mgt-api/internal/dao"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/storage"
)

// EvidenceService handles business logic for evidence uploads, review and
// download
type EvidenceService struct {
	evidenceDAO     *dao.EvidenceDAO
	parameterDAO    *dao.ParameterDAO
	subParameterDAO *dao.SubParameterDAO
	files           *storage.FileStore
	audit           *AuditRecorder
	maxFileSize     int64
	logger          *logrus.Logger
}

// NewEvidenceService creates a new EvidenceService
func NewEvidenceService(
	evidenceDAO *dao.EvidenceDAO,
	parameterDAO *dao.ParameterDAO,
	subParameterDAO *dao.SubParameterDAO,
	files *storage.FileStore,
	audit *AuditRecorder,
	maxFileSize int64,
	logger *logrus.Logger,
) *EvidenceService {
	return &EvidenceService{
		evidenceDAO:     evidenceDAO,
		parameterDAO:    parameterDAO,
		subParameterDAO: subParameterDAO,
		files:           files,
		audit:           audit,
		maxFileSize:     maxFileSize,
		logger:          logger,
	}
}

// EvidenceUploadRequest carries an upload. Exactly one of ParameterID and
// SubParameterID must be set.
type EvidenceUploadRequest struct {
	ParameterID    *int64
	SubParameterID *int64
	FileName       string
	ContentType    string
	Size           int64
	Content        io.Reader
}

// Upload validates the attachment target, stores the file and inserts the
// evidence row with pending status.
func (s *EvidenceService) Upload(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, req *EvidenceUploadRequest) (*models.Evidence, error) {
	if (req.ParameterID == nil) == (req.SubParameterID == nil) {
		return nil, apperror.Validation("evidence must attach to exactly one of a parameter or a sub-parameter")
	}
	if req.FileName == "" {
		return nil, apperror.Validation("file name is required")
	}
	if req.Size <= 0 {
		return nil, apperror.Validation("file is empty")
	}
	if req.Size > s.maxFileSize {
		return nil, apperror.Validation("file exceeds maximum size of %d bytes", s.maxFileSize)
	}

	var target string
	if req.ParameterID != nil {
		if _, err := s.parameterDAO.GetByID(ctx, *req.ParameterID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperror.NotFound("parameter", *req.ParameterID)
			}
			return nil, apperror.Internal("failed to get parameter", err)
		}
		target = fmt.Sprintf("parameter %d", *req.ParameterID)
	} else {
		if _, err := s.subParameterDAO.GetByID(ctx, *req.SubParameterID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperror.NotFound("sub-parameter", *req.SubParameterID)
			}
			return nil, apperror.Internal("failed to get sub-parameter", err)
		}
		target = fmt.Sprintf("sub-parameter %d", *req.SubParameterID)
	}

	path, size, err := s.files.Save(req.Content, filepath.Ext(req.FileName))
	if err != nil {
		s.logger.WithError(err).Error("Failed to store evidence file")
		return nil, apperror.Internal("failed to store evidence file", err)
	}

	evidence := &models.Evidence{
		ParameterID:    req.ParameterID,
		SubParameterID: req.SubParameterID,
		FileName:       req.FileName,
		FilePath:       path,
		FileType:       req.ContentType,
		FileSize:       size,
		Status:         models.EvidenceStatusPending,
		UploadedBy:     actor.UserID,
	}

	id, err := s.evidenceDAO.Create(ctx, evidence)
	if err != nil {
		// The row never existed; drop the stored file again.
		if rmErr := s.files.Remove(path); rmErr != nil {
			s.logger.WithError(rmErr).WithField("path", path).Warn("Failed to remove orphaned evidence file")
		}
		s.logger.WithError(err).Error("Failed to create evidence row")
		return nil, apperror.Internal("failed to create evidence", err)
	}

	s.logger.WithFields(logrus.Fields{
		"evidence_id": id,
		"file_size":   size,
	}).Info("Evidence uploaded")

	s.audit.Record(ctx, actor, meta, models.ActivityEvidenceUpload,
		fmt.Sprintf("Uploaded evidence '%s' to %s", req.FileName, target))

	return s.evidenceDAO.GetByID(ctx, id)
}

// GetEvidence retrieves an evidence row by ID
func (s *EvidenceService) GetEvidence(ctx context.Context, id int64) (*models.Evidence, error) {
	evidence, err := s.evidenceDAO.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("evidence", id)
		}
		return nil, apperror.Internal("failed to get evidence", err)
	}
	return evidence, nil
}

// ListByParameter retrieves all evidence attached directly to a parameter
func (s *EvidenceService) ListByParameter(ctx context.Context, parameterID int64) ([]models.Evidence, error) {
	rows, err := s.evidenceDAO.ListByParameter(ctx, parameterID)
	if err != nil {
		return nil, apperror.Internal("failed to list evidence", err)
	}
	return rows, nil
}

// ListBySubParameter retrieves all evidence attached to a sub-parameter
func (s *EvidenceService) ListBySubParameter(ctx context.Context, subParameterID int64) ([]models.Evidence, error) {
	rows, err := s.evidenceDAO.ListBySubParameter(ctx, subParameterID)
	if err != nil {
		return nil, apperror.Internal("failed to list evidence", err)
	}
	return rows, nil
}

// Review sets the evidence status to approved or rejected.
func (s *EvidenceService) Review(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, id int64, status string) (*models.Evidence, error) {
	if status != models.EvidenceStatusApproved && status != models.EvidenceStatusRejected {
		return nil, apperror.Validation("invalid review status: %s", status)
	}

	evidence, err := s.GetEvidence(ctx, id)
	if err != nil {
		return nil, err
	}

	if evidence.Status == status {
		return evidence, nil
	}

	if err := s.evidenceDAO.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("evidence", id)
		}
		return nil, apperror.Internal("failed to update evidence status", err)
	}

	s.audit.Record(ctx, actor, meta, models.ActivityEvidenceReview,
		fmt.Sprintf("Marked evidence '%s' as %s", evidence.FileName, status))

	return s.evidenceDAO.GetByID(ctx, id)
}

// Download opens the stored file of an evidence row. The caller must close
// the returned file.
func (s *EvidenceService) Download(ctx context.Context, id int64) (*models.Evidence, afero.File, error) {
	evidence, err := s.GetEvidence(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	f, err := s.files.Open(evidence.FilePath)
	if err != nil {
		s.logger.WithError(err).WithField("evidence_id", id).Error("Evidence file missing from storage")
		return nil, nil, apperror.NotFound("evidence file", id)
	}

	return evidence, f, nil
}

// Delete removes the evidence row, then removes the stored file best-effort.
func (s *EvidenceService) Delete(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, id int64) error {
	evidence, err := s.GetEvidence(ctx, id)
	if err != nil {
		return err
	}

	if err := s.evidenceDAO.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("evidence", id)
		}
		return apperror.Internal("failed to delete evidence", err)
	}

	s.files.RemoveAll([]string{evidence.FilePath})

	s.audit.Record(ctx, actor, meta, models.ActivityDelete,
		fmt.Sprintf("Deleted evidence '%s'", evidence.FileName))

	return nil
}
