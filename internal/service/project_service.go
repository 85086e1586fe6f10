package service

import (
	"errors"
	"strings"

	"github.com/nastrosite/internal/db"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectTitleMissing  = errors.New("project title is required")
	ErrProjectImageMissing  = errors.New("project main image is required")
	ErrProjectImageNotFound = errors.New("project gallery image not found")
)

// ProjectService handles portfolio project CRUD and gallery ordering.
type ProjectService struct {
	db *gorm.DB
}

// ProjectInput represents fields accepted when creating or updating a
// project.
type ProjectInput struct {
	Title       string
	Category    string
	Description string
	ImageURL    string
	ImageWidth  int
	ImageHeight int
	Featured    bool
}

// GalleryImageInput describes one gallery image to attach to a project.
type GalleryImageInput struct {
	ImageURL    string
	ImageWidth  int
	ImageHeight int
}

// ProjectDetail aggregates a project with its ordered gallery images.
type ProjectDetail struct {
	Project db.Project
	Images  []db.ProjectImage
}

// NewProjectService creates a ProjectService instance.
func NewProjectService(gdb *gorm.DB) *ProjectService {
	return &ProjectService{db: gdb}
}

// ListAll returns every project, newest first.
func (s *ProjectService) ListAll() ([]db.Project, error) {
	var projects []db.Project
	if err := s.db.Order("created_at desc").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListFeatured returns featured projects, newest first, capped at limit.
func (s *ProjectService) ListFeatured(limit int) ([]db.Project, error) {
	if limit <= 0 {
		limit = 4
	}

	var projects []db.Project
	if err := s.db.Where("featured = ?", true).
		Order("created_at desc").
		Limit(limit).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Get fetches a project by id.
func (s *ProjectService) Get(id uint) (*db.Project, error) {
	var project db.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// GetDetail fetches a project together with its gallery images ordered by
// ascending display order, insertion order breaking ties.
func (s *ProjectService) GetDetail(id uint) (*ProjectDetail, error) {
	project, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var images []db.ProjectImage
	if err := s.db.Where("project_id = ?", project.ID).
		Order("display_order asc").Order("id asc").
		Find(&images).Error; err != nil {
		return nil, err
	}

	return &ProjectDetail{Project: *project, Images: images}, nil
}

// Create inserts a new project.
func (s *ProjectService) Create(input ProjectInput) (*db.Project, error) {
	if err := validateProjectInput(input); err != nil {
		return nil, err
	}

	project := db.Project{
		Title:       strings.TrimSpace(input.Title),
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		ImageWidth:  input.ImageWidth,
		ImageHeight: input.ImageHeight,
		Featured:    input.Featured,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update modifies an existing project in place.
func (s *ProjectService) Update(id uint, input ProjectInput) (*db.Project, error) {
	if err := validateProjectInput(input); err != nil {
		return nil, err
	}

	var project db.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	project.Title = strings.TrimSpace(input.Title)
	project.Category = strings.TrimSpace(input.Category)
	project.Description = strings.TrimSpace(input.Description)
	project.ImageURL = strings.TrimSpace(input.ImageURL)
	project.ImageWidth = input.ImageWidth
	project.ImageHeight = input.ImageHeight
	project.Featured = input.Featured

	if err := s.db.Save(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes a project and its gallery image rows.
func (s *ProjectService) Delete(id uint) error {
	var project db.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).
			Delete(&db.ProjectImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
}

// AppendGalleryImages attaches gallery images to a project, continuing the
// display order after the current highest entry. The main image implicitly
// occupies order 0, so a fresh gallery starts at 1.
func (s *ProjectService) AppendGalleryImages(projectID uint, inputs []GalleryImageInput) ([]db.ProjectImage, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	if _, err := s.Get(projectID); err != nil {
		return nil, err
	}

	nextOrder, err := s.nextDisplayOrder(projectID)
	if err != nil {
		return nil, err
	}

	images := make([]db.ProjectImage, 0, len(inputs))
	for i, input := range inputs {
		url := strings.TrimSpace(input.ImageURL)
		if url == "" {
			return nil, ErrProjectImageMissing
		}
		images = append(images, db.ProjectImage{
			ProjectID:    projectID,
			ImageURL:     url,
			ImageWidth:   input.ImageWidth,
			ImageHeight:  input.ImageHeight,
			DisplayOrder: nextOrder + i,
		})
	}

	if err := s.db.Create(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// RemoveGalleryImage deletes a single gallery image row, returning the
// removed record so callers can clean up the stored file.
func (s *ProjectService) RemoveGalleryImage(projectID, imageID uint) (*db.ProjectImage, error) {
	var image db.ProjectImage
	if err := s.db.Where("project_id = ?", projectID).
		First(&image, imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectImageNotFound
		}
		return nil, err
	}

	if err := s.db.Delete(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (s *ProjectService) nextDisplayOrder(projectID uint) (int, error) {
	var maxOrder int
	if err := s.db.Model(&db.ProjectImage{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(display_order), 0)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

func validateProjectInput(input ProjectInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrProjectTitleMissing
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return ErrProjectImageMissing
	}
	return nil
}
