package db

import "gorm.io/gorm"

// ProjectImage is one gallery image belonging to a project. DisplayOrder
// starts at 1; the owning project's main image implicitly occupies order 0.
type ProjectImage struct {
	gorm.Model
	ProjectID    uint   `gorm:"not null;index"`
	ImageURL     string `gorm:"size:500;not null"`
	ImageWidth   int
	ImageHeight  int
	DisplayOrder int `gorm:"default:0"`
}
