package db

import "gorm.io/gorm"

// Project is a portfolio entry for one completed design job. The main image
// occupies slide zero of the detail carousel; additional gallery images live
// in ProjectImage.
type Project struct {
	gorm.Model
	Title       string `gorm:"size:200;not null"`
	Category    string `gorm:"size:100"`
	Description string
	ImageURL    string `gorm:"size:500;not null"`
	ImageWidth  int
	ImageHeight int
	Featured    bool `gorm:"default:false;index"`
}
