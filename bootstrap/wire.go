//go:build wireinject
// +build wireinject

package bootstrap

import (
	"github.com/Phechr2025/Bio-Shop-VPN-information/database"
	"github.com/Phechr2025/Bio-Shop-VPN-information/database/repository"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/service"

	"github.com/google/wire"
)

func InitializeApp() (*App, error) {
	wire.Build(
		database.GetDBProvider,
		repository.RepositorySet,
		service.ServiceSet,
		NewApp,
	)
	return nil, nil
}
