package app

import (
	"strings"

	"github.com/yungbote/devportal-backend/internal/pkg/logger"
	"github.com/yungbote/devportal-backend/internal/services"
	"github.com/yungbote/devportal-backend/internal/utils"
)

type Config struct {
	Port              string
	Environment       string
	Version           string
	TranslateProvider string
	SrcLang           string
	TgtLang           string
	FieldCollection   string
	ViewCollection    string
	TranslateAttempts int
	IndexAttempts     int
	TranslateConc     int
	IndexBatchSize    int
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:              utils.GetEnv("PORT", "8080", log),
		Environment:       utils.GetEnv("APP_ENV", "development", log),
		Version:           utils.GetEnv("APP_VERSION", "dev", log),
		TranslateProvider: strings.ToLower(utils.GetEnv("TRANSLATE_PROVIDER", "openai", log)),
		SrcLang:           utils.GetEnv("PIPELINE_SRC_LANG", services.DefaultSrcLang, log),
		TgtLang:           utils.GetEnv("PIPELINE_TGT_LANG", services.DefaultTgtLang, log),
		FieldCollection:   utils.GetEnv("COLLECTION_FIELD", services.DefaultCollectionField, log),
		ViewCollection:    utils.GetEnv("COLLECTION_VIEW_COMMON", services.DefaultCollectionViewCommon, log),
		TranslateAttempts: utils.GetEnvAsInt("TRANSLATE_MAX_ATTEMPTS", 3, log),
		IndexAttempts:     utils.GetEnvAsInt("INDEX_MAX_ATTEMPTS", services.DefaultIndexMaxAttempts, log),
		TranslateConc:     utils.GetEnvAsInt("TRANSLATE_CONCURRENCY", 4, log),
		IndexBatchSize:    utils.GetEnvAsInt("INDEX_BATCH_SIZE", 64, log),
	}
}
