package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/postpilothq/postpilot/configs"
	"github.com/postpilothq/postpilot/internal/models"
	"github.com/postpilothq/postpilot/internal/repository"
)

type AssetService interface {
	Upload(ctx context.Context, userID int64, files []*multipart.FileHeader) ([]*models.MediaAsset, error)
	List(ctx context.Context, userID int64) ([]*models.MediaAsset, error)
	Remove(ctx context.Context, userID, assetID int64) error
}

type assetService struct {
	cfg config.Config
	ma  repository.MediaAssetRepository
	r2  *R2Service
}

func NewAssetService(cfg config.Config, ma repository.MediaAssetRepository, r2 *R2Service) AssetService {
	return &assetService{
		cfg: cfg,
		ma:  ma,
		r2:  r2,
	}
}

var allowedFileTypes = map[string]struct{}{
	"mp4": {}, "mov": {}, "jpeg": {}, "png": {}, "jpg": {},
}

// Upload validates each file by sniffing its content, stores it in R2 under a
// nanoid key and records a media asset row.
func (s *assetService) Upload(ctx context.Context, userID int64, files []*multipart.FileHeader) ([]*models.MediaAsset, error) {
	if userID == 0 {
		err := errors.New("user is not valid")
		slog.Info(err.Error())
		return nil, err
	}
	if len(files) == 0 {
		err := errors.New("no files provided")
		slog.Info(err.Error())
		return nil, err
	}

	assets := make([]*models.MediaAsset, 0, len(files))
	for _, file := range files {
		fileContent, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("error opening file: %w", err)
		}

		fileBytes, err := io.ReadAll(fileContent)
		fileContent.Close()
		if err != nil {
			return nil, fmt.Errorf("error reading file content: %w", err)
		}

		fileType, err := filetype.Match(fileBytes)
		if err != nil || fileType == types.Unknown {
			return nil, errors.New("unsupported file type")
		}
		if _, ok := allowedFileTypes[fileType.Extension]; !ok {
			return nil, fmt.Errorf("file type %s is not allowed", fileType.Extension)
		}

		asset, err := s.saveFile(ctx, userID, fileType.MIME.Value, int64(len(fileBytes)), fileBytes)
		if err != nil {
			return nil, fmt.Errorf("error uploading file: %w", err)
		}
		assets = append(assets, asset)
	}

	return assets, nil
}

func (s *assetService) saveFile(ctx context.Context, userID int64, fileType string, fileSize int64, file []byte) (*models.MediaAsset, error) {
	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if err := s.r2.UploadToR2(ctx, key, file, fileType); err != nil {
		return nil, err
	}

	ma := models.MediaAsset{
		UserID:   userID,
		FileName: key,
		FileType: fileType,
		FileSize: fileSize,
		FileURL:  fmt.Sprintf("%s/%s", s.cfg.R2.PublicURL, key),
	}

	assetID, err := s.ma.Create(ctx, nil, &ma)
	if err != nil {
		return nil, err
	}
	ma.ID = assetID

	return &ma, nil
}

func (s *assetService) List(ctx context.Context, userID int64) ([]*models.MediaAsset, error) {
	if userID == 0 {
		err := errors.New("user is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	assets, err := s.ma.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting media assets")
	}
	return assets, nil
}

func (s *assetService) Remove(ctx context.Context, userID, assetID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("user is not valid")
		slog.Info(err.Error())
		return err
	}

	if assetID == 0 {
		err = errors.New("asset id is not valid")
		slog.Info(err.Error())
		return err
	}

	asset, err := s.ma.GetByID(ctx, assetID)
	if err != nil {
		return err
	}

	if asset == nil || asset.UserID != userID {
		err = errors.New("media asset doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.ma.Remove(ctx, assetID)
	if err != nil {
		return fmt.Errorf("error removing media asset")
	}

	return nil
}
