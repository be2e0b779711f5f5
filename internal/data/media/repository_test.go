package media_test

import (
	"context"
	"testing"

	"bannercms/app/internal/data/datatest"
	mediadata "bannercms/app/internal/data/media"
	domainmedia "bannercms/app/internal/domain/media"
	applog "bannercms/app/internal/platform/log"
)

func TestCreateTrimsFileAndRoundTrips(t *testing.T) {
	t.Parallel()

	repo, err := mediadata.NewRepository(datatest.Open(t), applog.Discard())
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	ctx := context.Background()

	image := &domainmedia.Image{File: " /filer_public/ab/cd/logo.png ", Name: " Logo ", Width: 600, Height: 240}
	if err := repo.Create(ctx, image); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if image.File != "filer_public/ab/cd/logo.png" || image.Name != "Logo" {
		t.Fatalf("expected trimmed values, got %+v", image)
	}

	stored, err := repo.GetByID(ctx, image.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored == nil || *stored != *image {
		t.Fatalf("expected %+v, got %+v", image, stored)
	}
}

func TestCreateRejectsBlankFile(t *testing.T) {
	t.Parallel()

	repo, err := mediadata.NewRepository(datatest.Open(t), applog.Discard())
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	if err := repo.Create(context.Background(), &domainmedia.Image{File: "  "}); err == nil {
		t.Fatalf("expected error for blank file")
	}
}

func TestGetByIDReturnsNilForMissingImage(t *testing.T) {
	t.Parallel()

	repo, err := mediadata.NewRepository(datatest.Open(t), applog.Discard())
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	image, err := repo.GetByID(context.Background(), 404)
	if err != nil || image != nil {
		t.Fatalf("expected nil image without error, got %+v, %v", image, err)
	}
}
