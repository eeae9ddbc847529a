package main

import (
	"errors"
	"log"
	"os"
	"time"

	"cep-tracker-api/config"
	"cep-tracker-api/models"
	"cep-tracker-api/utils"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Idempotent bootstrap: ensures the three roles exist and creates the initial
// admin user from ADMIN_EMAIL/ADMIN_PASSWORD if no user with that e-mail
// exists yet.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	roles := map[int]string{
		models.RoleGestorID:  "gestor",
		models.RoleRelatorID: "relator",
		models.RoleAdminID:   "admin",
	}
	for id, nome := range roles {
		role := models.Role{RoleID: id, Role: nome}
		if err := config.DB.FirstOrCreate(&role, models.Role{RoleID: id}).Error; err != nil {
			log.Fatalf("failed to ensure role %s: %v", nome, err)
		}
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if !utils.ValidateEmail(email) || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	var existing models.User
	err := config.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("admin user %s already exists, nothing to do", email)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to look up admin user: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now()
	admin := models.User{
		Nome:     "Administrador",
		Email:    email,
		Password: string(hashed),
		RoleID:   models.RoleAdminID,
		CreateAt: &now,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}

	log.Printf("admin user %s created", email)
}
