package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/nastrosite/internal/config"
	"github.com/nastrosite/internal/db"
	"github.com/nastrosite/internal/service"
)

// Seeds a handful of sample projects for local development.
func main() {
	godotenv.Load()
	cfg := config.Load()

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	var count int64
	if err := db.DB.Model(&db.Project{}).Count(&count).Error; err != nil {
		log.Fatalf("failed to count projects: %v", err)
	}
	if count > 0 {
		fmt.Println("projects already exist, nothing to seed")
		return
	}

	projects := service.NewProjectService(db.DB)

	samples := []service.ProjectInput{
		{
			Title:       "Apartamento Jardim Aquarius",
			Category:    "Residencial",
			Description: "Reforma completa de um apartamento de 68m², com marcenaria sob medida e iluminação indireta.",
			ImageURL:    "/uploads/sample-aquarius.jpg",
			Featured:    true,
		},
		{
			Title:       "Cozinha Integrada Vila Ema",
			Category:    "Interiores",
			Description: "Integração de cozinha e sala de estar com bancada em quartzo e painel ripado.",
			ImageURL:    "/uploads/sample-vila-ema.jpg",
			Featured:    true,
		},
		{
			Title:       "Consultório Odontológico Centro",
			Category:    "Comercial",
			Description: "Projeto comercial com foco em conforto do paciente e fluxo de atendimento.",
			ImageURL:    "/uploads/sample-consultorio.jpg",
		},
	}

	for _, input := range samples {
		if _, err := projects.Create(input); err != nil {
			log.Fatalf("failed to seed project %q: %v", input.Title, err)
		}
	}

	fmt.Printf("seeded %d projects\n", len(samples))
}
