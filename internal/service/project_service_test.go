package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nastrosite/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupProjectTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:project-svc-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Project{}, &db.ProjectImage{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestProjectCreateValidation(t *testing.T) {
	gdb, cleanup := setupProjectTestDB(t)
	defer cleanup()

	svc := NewProjectService(gdb)

	if _, err := svc.Create(ProjectInput{ImageURL: "/uploads/a.jpg"}); !errors.Is(err, ErrProjectTitleMissing) {
		t.Fatalf("expected title error, got %v", err)
	}
	if _, err := svc.Create(ProjectInput{Title: "Sala"}); !errors.Is(err, ErrProjectImageMissing) {
		t.Fatalf("expected image error, got %v", err)
	}

	var count int64
	gdb.Model(&db.Project{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no rows after failed validation, got %d", count)
	}

	project, err := svc.Create(ProjectInput{Title: "Sala", Category: "Residencial", ImageURL: "/uploads/a.jpg"})
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	if project.Featured {
		t.Fatal("expected featured to default to false")
	}
}

func TestProjectListOrdering(t *testing.T) {
	gdb, cleanup := setupProjectTestDB(t)
	defer cleanup()

	svc := NewProjectService(gdb)

	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		project := db.Project{
			Title:    fmt.Sprintf("Projeto %d", i),
			ImageURL: "/uploads/a.jpg",
			Featured: i%2 == 0,
		}
		project.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := gdb.Create(&project).Error; err != nil {
			t.Fatalf("failed to seed project: %v", err)
		}
	}

	all, err := svc.ListAll()
	if err != nil {
		t.Fatalf("failed to list projects: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 projects, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Fatal("expected newest-first ordering")
		}
	}

	featured, err := svc.ListFeatured(4)
	if err != nil {
		t.Fatalf("failed to list featured projects: %v", err)
	}
	if len(featured) != 3 {
		t.Fatalf("expected 3 featured projects, got %d", len(featured))
	}
	for _, p := range featured {
		if !p.Featured {
			t.Fatalf("expected only featured projects, got %q", p.Title)
		}
	}

	// Two extra featured rows push the result over the cap.
	for i := 0; i < 2; i++ {
		project := db.Project{Title: fmt.Sprintf("Extra %d", i), ImageURL: "/uploads/a.jpg", Featured: true}
		project.CreatedAt = base.Add(time.Duration(10+i) * time.Hour)
		if err := gdb.Create(&project).Error; err != nil {
			t.Fatalf("failed to seed project: %v", err)
		}
	}

	featured, err = svc.ListFeatured(4)
	if err != nil {
		t.Fatalf("failed to list featured projects: %v", err)
	}
	if len(featured) != 4 {
		t.Fatalf("expected featured list capped at 4, got %d", len(featured))
	}
}

func TestProjectUpdatePreservesImage(t *testing.T) {
	gdb, cleanup := setupProjectTestDB(t)
	defer cleanup()

	svc := NewProjectService(gdb)
	project, err := svc.Create(ProjectInput{Title: "Cozinha", ImageURL: "/uploads/original.jpg"})
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	updated, err := svc.Update(project.ID, ProjectInput{
		Title:    "Cozinha Integrada",
		Category: "Interiores",
		ImageURL: project.ImageURL,
		Featured: true,
	})
	if err != nil {
		t.Fatalf("failed to update project: %v", err)
	}
	if updated.ImageURL != "/uploads/original.jpg" {
		t.Fatalf("expected image url preserved, got %q", updated.ImageURL)
	}
	if updated.Title != "Cozinha Integrada" || !updated.Featured {
		t.Fatal("expected updated fields to persist")
	}

	if _, err := svc.Update(9999, ProjectInput{Title: "X", ImageURL: "/uploads/x.jpg"}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestProjectGalleryOrdering(t *testing.T) {
	gdb, cleanup := setupProjectTestDB(t)
	defer cleanup()

	svc := NewProjectService(gdb)
	project, err := svc.Create(ProjectInput{Title: "Quarto", ImageURL: "/uploads/main.jpg"})
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	first, err := svc.AppendGalleryImages(project.ID, []GalleryImageInput{
		{ImageURL: "/uploads/g1.jpg"},
		{ImageURL: "/uploads/g2.jpg"},
	})
	if err != nil {
		t.Fatalf("failed to append gallery images: %v", err)
	}
	if first[0].DisplayOrder != 1 || first[1].DisplayOrder != 2 {
		t.Fatalf("expected display orders 1,2, got %d,%d", first[0].DisplayOrder, first[1].DisplayOrder)
	}

	second, err := svc.AppendGalleryImages(project.ID, []GalleryImageInput{{ImageURL: "/uploads/g3.jpg"}})
	if err != nil {
		t.Fatalf("failed to append gallery images: %v", err)
	}
	if second[0].DisplayOrder != 3 {
		t.Fatalf("expected appended image at order 3, got %d", second[0].DisplayOrder)
	}

	detail, err := svc.GetDetail(project.ID)
	if err != nil {
		t.Fatalf("failed to load detail: %v", err)
	}
	if len(detail.Images) != 3 {
		t.Fatalf("expected 3 gallery images, got %d", len(detail.Images))
	}
	for i, img := range detail.Images {
		if img.DisplayOrder != i+1 {
			t.Fatalf("expected ascending display order, got %d at index %d", img.DisplayOrder, i)
		}
	}

	if _, err := svc.AppendGalleryImages(9999, []GalleryImageInput{{ImageURL: "/uploads/x.jpg"}}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestProjectDeleteCascadesGallery(t *testing.T) {
	gdb, cleanup := setupProjectTestDB(t)
	defer cleanup()

	svc := NewProjectService(gdb)
	project, err := svc.Create(ProjectInput{Title: "Escritório", ImageURL: "/uploads/main.jpg"})
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	if _, err := svc.AppendGalleryImages(project.ID, []GalleryImageInput{{ImageURL: "/uploads/g1.jpg"}}); err != nil {
		t.Fatalf("failed to append gallery image: %v", err)
	}

	if err := svc.Delete(project.ID); err != nil {
		t.Fatalf("failed to delete project: %v", err)
	}

	if _, err := svc.Get(project.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected project gone, got %v", err)
	}

	var imageCount int64
	gdb.Model(&db.ProjectImage{}).Where("project_id = ?", project.ID).Count(&imageCount)
	if imageCount != 0 {
		t.Fatalf("expected gallery rows removed, got %d", imageCount)
	}

	if err := svc.Delete(project.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestRemoveGalleryImage(t *testing.T) {
	gdb, cleanup := setupProjectTestDB(t)
	defer cleanup()

	svc := NewProjectService(gdb)
	project, err := svc.Create(ProjectInput{Title: "Varanda", ImageURL: "/uploads/main.jpg"})
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	images, err := svc.AppendGalleryImages(project.ID, []GalleryImageInput{{ImageURL: "/uploads/g1.jpg"}})
	if err != nil {
		t.Fatalf("failed to append gallery image: %v", err)
	}

	removed, err := svc.RemoveGalleryImage(project.ID, images[0].ID)
	if err != nil {
		t.Fatalf("failed to remove gallery image: %v", err)
	}
	if removed.ImageURL != "/uploads/g1.jpg" {
		t.Fatalf("expected removed record returned, got %q", removed.ImageURL)
	}

	if _, err := svc.RemoveGalleryImage(project.ID, images[0].ID); !errors.Is(err, ErrProjectImageNotFound) {
		t.Fatalf("expected image not found, got %v", err)
	}
}
