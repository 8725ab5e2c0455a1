package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/types"
	"github.com/yungbote/devportal-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "devportal", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

// Migratables is the full set of portal tables in dependency order. Shared
// with the test harness so sqlite fixtures migrate the same schema.
func Migratables() []any {
	return []any{
		&types.PortalModel{},
		&types.PortalField{},
		&types.PortalViewCommon{},
		&types.PortalView{},
		&types.PortalTab{},
		&types.PortalSmartButton{},
		&types.PortalMenu{},
		&types.PortalTranslation{},
		&types.PortalChromaDoc{},
	}
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(Migratables()...); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	fks := []struct {
		name string
		sql  string
	}{
		{"fk_portal_view_common_id", `
			ALTER TABLE "portal_view"
			ADD CONSTRAINT "fk_portal_view_common_id"
			FOREIGN KEY ("common_id")
			REFERENCES "portal_view_common"("id")
			ON DELETE CASCADE`},
		{"fk_portal_tab_view_id", `
			ALTER TABLE "portal_tab"
			ADD CONSTRAINT "fk_portal_tab_view_id"
			FOREIGN KEY ("view_id")
			REFERENCES "portal_view"("id")
			ON DELETE CASCADE`},
		{"fk_portal_smart_button_view_id", `
			ALTER TABLE "portal_smart_button"
			ADD CONSTRAINT "fk_portal_smart_button_view_id"
			FOREIGN KEY ("view_id")
			REFERENCES "portal_view"("id")
			ON DELETE CASCADE`},
		{"fk_portal_menu_parent_id", `
			ALTER TABLE "portal_menu"
			ADD CONSTRAINT "fk_portal_menu_parent_id"
			FOREIGN KEY ("parent_id")
			REFERENCES "portal_menu"("id")
			ON DELETE SET NULL`},
	}
	for _, fk := range fks {
		var exists bool
		if err := s.db.Raw(
			`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, fk.name,
		).Scan(&exists).Error; err != nil {
			return fmt.Errorf("failed to check constraint %s: %w", fk.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(fk.sql).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", fk.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
