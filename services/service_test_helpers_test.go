package services

import (
	"fmt"
	"testing"
	"time"

	"cep-tracker-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema and role
// seed. A single connection is pinned so every session sees the same memory
// database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Pesquisador{},
		&models.Projeto{},
		&models.Parecer{},
		&models.EmailLog{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	for id, nome := range map[int]string{
		models.RoleGestorID:  "gestor",
		models.RoleRelatorID: "relator",
		models.RoleAdminID:   "admin",
	} {
		if err := db.Create(&models.Role{RoleID: id, Role: nome}).Error; err != nil {
			t.Fatalf("failed to seed role %s: %v", nome, err)
		}
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, nome string, roleID int) models.User {
	t.Helper()
	user := models.User{
		Nome:     nome,
		Email:    fmt.Sprintf("%s@cep.test", nome),
		Password: "hash",
		RoleID:   roleID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", nome, err)
	}
	return user
}

func seedPesquisador(t *testing.T, db *gorm.DB, nome string) models.Pesquisador {
	t.Helper()
	pesquisador := models.Pesquisador{
		Nome:     nome,
		Email:    fmt.Sprintf("%s@pesquisa.test", nome),
		CreateAt: time.Now(),
	}
	if err := db.Create(&pesquisador).Error; err != nil {
		t.Fatalf("failed to seed pesquisador %s: %v", nome, err)
	}
	return pesquisador
}

func seedProjeto(t *testing.T, db *gorm.DB, pesquisador models.Pesquisador, caae, status string) models.Projeto {
	t.Helper()
	projeto := models.Projeto{
		Titulo:        "Projeto " + caae,
		Descricao:     "descrição",
		CAAE:          caae,
		PesquisadorID: pesquisador.PesquisadorID,
		DataSubmissao: time.Now(),
		Status:        status,
	}
	if err := db.Create(&projeto).Error; err != nil {
		t.Fatalf("failed to seed projeto %s: %v", caae, err)
	}
	return projeto
}

func reloadProjeto(t *testing.T, db *gorm.DB, id uint) models.Projeto {
	t.Helper()
	var projeto models.Projeto
	if err := db.First(&projeto, "projeto_id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload projeto %d: %v", id, err)
	}
	return projeto
}

func countPareceres(t *testing.T, db *gorm.DB, projetoID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Parecer{}).Where("projeto_id = ?", projetoID).Count(&n).Error; err != nil {
		t.Fatalf("failed to count pareceres: %v", err)
	}
	return n
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// checkStatusInvariant asserts status=aprovado ⇔ data_aprovacao non-null.
func checkStatusInvariant(t *testing.T, projeto models.Projeto) {
	t.Helper()
	if projeto.Status == models.StatusAprovado && projeto.DataAprovacao == nil {
		t.Fatalf("projeto %d aprovado sem data_aprovacao", projeto.ProjetoID)
	}
	if projeto.Status != models.StatusAprovado && projeto.DataAprovacao != nil {
		t.Fatalf("projeto %d com status %s mantém data_aprovacao", projeto.ProjetoID, projeto.Status)
	}
}
