package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/devportal-backend/internal/clients/chroma"
	"github.com/yungbote/devportal-backend/internal/clients/openai"
	"github.com/yungbote/devportal-backend/internal/db"
	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/repos"
	"github.com/yungbote/devportal-backend/internal/services"
)

// collectionsFile is the optional YAML map from entity kind to Chroma
// collection name.
type collectionsFile struct {
	Collections map[string]string `yaml:"collections"`
}

type commandContext struct {
	logModeFlag     *string
	collectionsFlag *string

	coreOnce sync.Once
	coreErr  error
	log      *logger.Logger
	db       *gorm.DB

	modelRepo repos.PortalModelRepo
	fieldRepo repos.PortalFieldRepo
	vcRepo    repos.PortalViewCommonRepo
	viewRepo  repos.PortalViewRepo
	menuRepo  repos.PortalMenuRepo
	tabRepo   repos.PortalTabRepo
	btnRepo   repos.PortalSmartButtonRepo
	transRepo repos.TranslationRepo
	docRepo   repos.DocumentRepo

	collections map[string]string
}

func newCommandContext(logModeFlag, collectionsFlag *string) *commandContext {
	return &commandContext{
		logModeFlag:     logModeFlag,
		collectionsFlag: collectionsFlag,
	}
}

func (c *commandContext) ensureCore() error {
	c.coreOnce.Do(func() {
		mode := "production"
		if c.logModeFlag != nil && strings.TrimSpace(*c.logModeFlag) != "" {
			mode = strings.TrimSpace(*c.logModeFlag)
		}
		log, err := logger.New(mode)
		if err != nil {
			c.coreErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.log = log

		pg, err := db.NewPostgresService(log)
		if err != nil {
			c.coreErr = fmt.Errorf("init postgres: %w", err)
			return
		}
		if err := pg.AutoMigrateAll(); err != nil {
			c.coreErr = fmt.Errorf("postgres automigrate: %w", err)
			return
		}
		c.db = pg.DB()

		c.modelRepo = repos.NewPortalModelRepo(c.db, log)
		c.fieldRepo = repos.NewPortalFieldRepo(c.db, log)
		c.vcRepo = repos.NewPortalViewCommonRepo(c.db, log)
		c.viewRepo = repos.NewPortalViewRepo(c.db, log)
		c.menuRepo = repos.NewPortalMenuRepo(c.db, log)
		c.tabRepo = repos.NewPortalTabRepo(c.db, log)
		c.btnRepo = repos.NewPortalSmartButtonRepo(c.db, log)
		c.transRepo = repos.NewTranslationRepo(c.db, log)
		c.docRepo = repos.NewDocumentRepo(c.db, log)

		c.coreErr = c.loadCollections()
	})
	return c.coreErr
}

func (c *commandContext) loadCollections() error {
	c.collections = map[string]string{}
	if c.collectionsFlag == nil {
		return nil
	}
	path := strings.TrimSpace(*c.collectionsFlag)
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read collections file %q: %w", path, err)
	}
	var parsed collectionsFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parse collections file %q: %w", path, err)
	}
	for entity, name := range parsed.Collections {
		entity = strings.ToLower(strings.TrimSpace(entity))
		name = strings.TrimSpace(name)
		if entity != "" && name != "" {
			c.collections[entity] = name
		}
	}
	return nil
}

func (c *commandContext) importService() (services.ImportService, error) {
	if err := c.ensureCore(); err != nil {
		return nil, err
	}
	return services.NewImportService(c.db, c.log, c.modelRepo, c.fieldRepo, c.vcRepo, c.viewRepo, c.menuRepo, c.tabRepo, c.btnRepo), nil
}

func (c *commandContext) bootstrapService() (services.BootstrapViewService, error) {
	if err := c.ensureCore(); err != nil {
		return nil, err
	}
	return services.NewBootstrapViewService(c.db, c.log, c.vcRepo, c.viewRepo), nil
}

func (c *commandContext) extractService() (services.ExtractService, error) {
	if err := c.ensureCore(); err != nil {
		return nil, err
	}
	return services.NewExtractService(c.db, c.log, c.fieldRepo, c.vcRepo, c.transRepo), nil
}

func (c *commandContext) translateService() (services.TranslateService, error) {
	if err := c.ensureCore(); err != nil {
		return nil, err
	}
	translator, err := c.translator()
	if err != nil {
		return nil, err
	}
	return services.NewTranslateService(c.db, c.log, c.transRepo, translator), nil
}

func (c *commandContext) translator() (services.Translator, error) {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("TRANSLATE_PROVIDER")))
	switch provider {
	case "dummy":
		return services.DummyTranslator{}, nil
	case "", "openai":
		client, err := openai.NewClient(c.log)
		if err != nil {
			return nil, fmt.Errorf("init openai client: %w", err)
		}
		return services.NewOpenAITranslator(c.log, client)
	default:
		return nil, fmt.Errorf("unknown TRANSLATE_PROVIDER %q (want openai or dummy)", provider)
	}
}

func (c *commandContext) packageService() (services.PackageService, error) {
	if err := c.ensureCore(); err != nil {
		return nil, err
	}
	return services.NewPackageService(c.db, c.log, c.transRepo, c.fieldRepo, c.vcRepo, c.docRepo), nil
}

func (c *commandContext) indexService() (services.IndexService, error) {
	if err := c.ensureCore(); err != nil {
		return nil, err
	}
	embedder, err := openai.NewClient(c.log)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	chromaCfg, err := chroma.ResolveConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("resolve chroma config: %w", err)
	}
	store, err := chroma.NewClient(c.log, chromaCfg)
	if err != nil {
		return nil, fmt.Errorf("init chroma client: %w", err)
	}
	return services.NewIndexService(c.db, c.log, c.docRepo, embedder, store), nil
}

func (c *commandContext) writebackService() (services.WritebackService, error) {
	if err := c.ensureCore(); err != nil {
		return nil, err
	}
	return services.NewWritebackService(c.db, c.log, c.fieldRepo, c.vcRepo, c.transRepo), nil
}

func (c *commandContext) statusService() (services.StatusService, error) {
	if err := c.ensureCore(); err != nil {
		return nil, err
	}
	return services.NewStatusService(c.db, c.log, c.transRepo, c.docRepo), nil
}
