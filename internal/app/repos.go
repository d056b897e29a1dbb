package app

import (
	"gorm.io/gorm"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/repos"
)

type Repos struct {
	Launch         repos.LaunchRepo
	TestItem       repos.TestItemRepo
	Log            repos.LogRepo
	Cluster        repos.ClusterRepo
	ItemAttribute  repos.ItemAttributeRepo
	GenerationRuns repos.GenerationRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Launch:         repos.NewLaunchRepo(db, log),
		TestItem:       repos.NewTestItemRepo(db, log),
		Log:            repos.NewLogRepo(db, log),
		Cluster:        repos.NewClusterRepo(db, log),
		ItemAttribute:  repos.NewItemAttributeRepo(db, log),
		GenerationRuns: repos.NewGenerationRunRepo(db, log),
	}
}
