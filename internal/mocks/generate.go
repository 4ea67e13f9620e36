package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name UpstreamProvider --dir ../usecase --output usecase --outpkg usecasemock --filename upstream_provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name BatchWriter --dir ../usecase --output usecase --outpkg usecasemock --filename batch_writer_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/game --output domain/game --outpkg gamemock --filename repository_mock.go
